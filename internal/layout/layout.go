// Package layout selects the page chrome wrapped around auth forms and
// signed-in pages.
package layout

import (
	"sort"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/internal/navigation"
)

// Name identifies an auth layout variant.
type Name string

const (
	Simple Name = "simple"
	Split  Name = "split"
	Side   Name = "side"
)

// Default is used for unknown layout names.
const Default = Side

// Variant describes how an auth layout arranges the form.
type Variant struct {
	Name Name
	// Template is the template that wraps the form body.
	Template string
	// ShowImage places the brand image beside the form.
	ShowImage bool
	// ImageRight puts the image on the right instead of the left.
	ImageRight bool
}

var variants = map[Name]Variant{
	Simple: {Name: Simple, Template: "auth_simple"},
	Split:  {Name: Split, Template: "auth_split", ShowImage: true, ImageRight: true},
	Side:   {Name: Side, Template: "auth_side", ShowImage: true},
}

// Lookup returns the variant registered under name.
func Lookup(name string) (Variant, bool) {
	v, ok := variants[Name(name)]
	return v, ok
}

// Resolve returns the variant registered under name, or the default variant.
func Resolve(name string) Variant {
	if v, ok := Lookup(name); ok {
		return v
	}
	return variants[Default]
}

// Names lists the registered variant names.
func Names() []string {
	out := make([]string, 0, len(variants))
	for n := range variants {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

// Chrome is the metadata shared by every rendered page.
type Chrome struct {
	Title       string
	AppName     string
	CurrentPath string
	Locale      string
	Theme       string
}

// AuthPage is the view model of a page rendered inside an auth layout.
type AuthPage struct {
	Chrome
	Layout Variant
	Form   auth.Form
}

// PostLoginPage is the view model of a signed-in page with side navigation.
type PostLoginPage struct {
	Chrome
	User *auth.CurrentUser
	Menu navigation.Menu
	Body interface{}
}
