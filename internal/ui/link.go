package ui

import (
	"html/template"
	"net/url"
	"strings"
)

// fallbackLinkStyle marks links rendered without a target.
const fallbackLinkStyle = "color: red; text-decoration: underline;"

// linkSchemes are the only schemes rendered as anchors; an empty scheme is a relative link.
var linkSchemes = map[string]bool{"": true, "http": true, "https": true, "mailto": true}

// Link renders an anchor to href. A nil or blank href, or one with a
// scheme outside linkSchemes, renders an inert span styled as a broken
// link instead.
func Link(href *string, text string) template.HTML {
	if href == nil || !safeHref(*href) {
		return template.HTML(`<span style="` + fallbackLinkStyle + `">` + template.HTMLEscapeString(text) + `</span>`)
	}
	return template.HTML(`<a href="` + template.HTMLEscapeString(*href) + `">` + template.HTMLEscapeString(text) + `</a>`)
}

// safeHref rejects blank and unparseable hrefs and those with a scheme such as javascript:.
func safeHref(href string) bool {
	if strings.TrimSpace(href) == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return linkSchemes[strings.ToLower(u.Scheme)]
}

// linkFunc is the template form of Link; an empty string counts as no href.
func linkFunc(href interface{}, text string) template.HTML {
	switch v := href.(type) {
	case string:
		return Link(&v, text)
	case *string:
		return Link(v, text)
	default:
		return Link(nil, text)
	}
}
