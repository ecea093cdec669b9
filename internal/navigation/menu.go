package navigation

import (
	"strings"
)

// MenuItem is a render-ready navigation entry.
type MenuItem struct {
	Key      string     `json:"key"`
	Title    string     `json:"title"`
	Path     string     `json:"path,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Type     NodeType   `json:"type"`
	Active   bool       `json:"active"`
	Expanded bool       `json:"expanded"`
	Children []MenuItem `json:"children,omitempty"`
}

// Menu is the navigation rendered for one request.
type Menu struct {
	Items     []MenuItem `json:"items"`
	ActiveKey string     `json:"activeKey,omitempty"`
}

// MenuOptions carries the per-request inputs of BuildMenu.
type MenuOptions struct {
	CurrentPath string
	Authority   []string
	// Translate resolves a translate key; nil keeps the static titles.
	Translate func(key, fallback string) string
}

// BuildMenu filters tree for the user's authority and decorates it with
// active and expanded state for the current path.
func BuildMenu(tree []Node, opts MenuOptions) Menu {
	visible := Filter(tree, opts.Authority)
	active := &activeMatch{}
	items, _ := buildItems(visible, opts, active)
	return Menu{Items: items, ActiveKey: active.key}
}

// activeMatch tracks the most specific path match.
type activeMatch struct {
	key     string
	pathLen int
}

func buildItems(nodes []Node, opts MenuOptions, active *activeMatch) ([]MenuItem, bool) {
	items := make([]MenuItem, 0, len(nodes))
	anyActive := false
	for _, n := range nodes {
		item := MenuItem{
			Key:   n.Key,
			Title: n.Title,
			Path:  n.Path,
			Icon:  n.Icon,
			Type:  n.Type,
		}
		if opts.Translate != nil {
			item.Title = opts.Translate(n.TranslateKey, n.Title)
		}

		childActive := false
		if len(n.SubMenu) > 0 {
			item.Children, childActive = buildItems(n.SubMenu, opts, active)
		}
		if matchesPath(n.Path, opts.CurrentPath) {
			item.Active = true
			if len(n.Path) > active.pathLen {
				active.key = n.Key
				active.pathLen = len(n.Path)
			}
		}
		item.Expanded = n.Type == TypeCollapse && childActive
		if item.Active || childActive {
			anyActive = true
		}
		items = append(items, item)
	}
	return items, anyActive
}

// matchesPath reports whether current is path or lies beneath it.
func matchesPath(path, current string) bool {
	if path == "" || current == "" {
		return false
	}
	current = strings.TrimSuffix(current, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return current == ""
	}
	return current == path || strings.HasPrefix(current, path+"/")
}
