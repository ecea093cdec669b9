// Package ui renders the dashboard's server-side HTML: page templates,
// the themed card wrapper and the link fallback.
package ui

import (
	"html/template"
	"strings"
)

// CardVariant selects the card styling.
type CardVariant string

const (
	CardDefault CardVariant = "default"
	CardGold    CardVariant = "gold"
	CardGlass   CardVariant = "glass"
)

var cardClasses = map[CardVariant]string{
	CardDefault: "",
	CardGold:    "border-amber-400/60 bg-gradient-to-br from-amber-50 to-yellow-100 dark:from-amber-900/40 dark:to-yellow-900/20 shadow-amber-200/50",
	CardGlass:   "border-white/20 bg-white/10 backdrop-blur-md dark:bg-gray-900/30",
}

// baseCardClass is applied by the underlying card primitive to every card.
const baseCardClass = "card card-border rounded-2xl"

// Card is the themed container view model. Header, Body and Footer are
// trusted HTML produced by other templates.
type Card struct {
	Variant   CardVariant
	ClassName string
	Header    template.HTML
	Body      template.HTML
	Footer    template.HTML
}

// ResolveCardVariant maps a variant name to a known variant, defaulting unknown names.
func ResolveCardVariant(name string) CardVariant {
	v := CardVariant(name)
	if _, ok := cardClasses[v]; ok {
		return v
	}
	return CardDefault
}

// Class returns the full class attribute for the card.
func (c Card) Class() string {
	parts := []string{baseCardClass}
	if extra := cardClasses[ResolveCardVariant(string(c.Variant))]; extra != "" {
		parts = append(parts, extra)
	}
	if c.ClassName != "" {
		parts = append(parts, c.ClassName)
	}
	return strings.Join(parts, " ")
}
