package navigation

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// SupportedLocales lists the menu languages, the first being the default.
var SupportedLocales = []language.Tag{language.English, language.Spanish}

var (
	matcher = language.NewMatcher(SupportedLocales)
	titles  = buildCatalog()
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		"nav.dashboard.dashboard":              "Dashboard",
		"nav.dashboard.gold":                   "Gold Trading",
		"nav.dashboard.project":                "Projects Overview",
		"nav.concepts":                         "Concepts",
		"nav.conceptsProjects.projects":        "Projects",
		"nav.conceptsProjects.projectList":     "Project List",
		"nav.conceptsProjects.tasks":           "Tasks",
		"nav.conceptsAccount.account":          "Account",
		"nav.conceptsAccount.settings":         "Settings",
		"nav.conceptsAccount.rolesPermissions": "Roles & Permissions",
		"nav.admin":                            "Administration",
		"nav.admin.users":                      "Users",
		"nav.admin.audit":                      "Audit Log",
	},
	language.Spanish: {
		"nav.dashboard.dashboard":              "Panel",
		"nav.dashboard.gold":                   "Operaciones de Oro",
		"nav.dashboard.project":                "Resumen de Proyectos",
		"nav.concepts":                         "Conceptos",
		"nav.conceptsProjects.projects":        "Proyectos",
		"nav.conceptsProjects.projectList":     "Lista de Proyectos",
		"nav.conceptsProjects.tasks":           "Tareas",
		"nav.conceptsAccount.account":          "Cuenta",
		"nav.conceptsAccount.settings":         "Configuración",
		"nav.conceptsAccount.rolesPermissions": "Roles y Permisos",
		"nav.admin":                            "Administración",
		"nav.admin.users":                      "Usuarios",
		"nav.admin.audit":                      "Registro de Auditoría",
	},
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("navigation: bad catalog entry %q: %v", key, err))
			}
		}
	}
	return b
}

// NegotiateLocale picks the menu language from an Accept-Language header,
// falling back to the configured default locale.
func NegotiateLocale(acceptLanguage, fallback string) language.Tag {
	def := language.English
	if fallback != "" {
		if tag, err := language.Parse(fallback); err == nil {
			_, idx, _ := matcher.Match(tag)
			def = SupportedLocales[idx]
		}
	}
	if acceptLanguage == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return SupportedLocales[idx]
}

// Translator returns a lookup for menu titles in the given locale.
// Keys without an entry yield fallback.
func Translator(tag language.Tag) func(key, fallback string) string {
	p := message.NewPrinter(tag, message.Catalog(titles))
	return func(key, fallback string) string {
		if key == "" {
			return fallback
		}
		out := p.Sprintf(key)
		if out == key {
			return fallback
		}
		return out
	}
}
