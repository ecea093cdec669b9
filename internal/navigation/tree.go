// Package navigation holds the static dashboard menu tree and the
// authority filter applied to it on every render.
package navigation

// NodeType is the kind of a navigation entry.
type NodeType string

const (
	// TypeItem is a leaf link
	TypeItem NodeType = "item"
	// TypeTitle is a non-clickable group heading
	TypeTitle NodeType = "title"
	// TypeCollapse is an expandable group
	TypeCollapse NodeType = "collapse"
)

// Authority tags used by the default tree.
const (
	AuthorityAdmin = "admin"
	AuthorityUser  = "user"
)

// Node is one entry of the navigation tree. Authority lists every tag a
// user must hold to see the node; an empty list means visible to all.
type Node struct {
	Key          string   `json:"key"`
	Path         string   `json:"path,omitempty"`
	Title        string   `json:"title"`
	TranslateKey string   `json:"translateKey,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Type         NodeType `json:"type"`
	Authority    []string `json:"authority,omitempty"`
	SubMenu      []Node   `json:"subMenu,omitempty"`
}

var defaultTree = []Node{
	{
		Key:          "dashboard",
		Title:        "Dashboard",
		TranslateKey: "nav.dashboard.dashboard",
		Icon:         "dashboard",
		Type:         TypeTitle,
		SubMenu: []Node{
			{
				Key:          "dashboard.gold",
				Path:         "/gold",
				Title:        "Gold Trading",
				TranslateKey: "nav.dashboard.gold",
				Icon:         "gold",
				Type:         TypeItem,
			},
			{
				Key:          "dashboard.project",
				Path:         "/dashboards/project",
				Title:        "Projects Overview",
				TranslateKey: "nav.dashboard.project",
				Icon:         "projectDashboard",
				Type:         TypeItem,
				Authority:    []string{AuthorityUser},
			},
		},
	},
	{
		Key:          "concepts",
		Title:        "Concepts",
		TranslateKey: "nav.concepts",
		Icon:         "concepts",
		Type:         TypeTitle,
		SubMenu: []Node{
			{
				Key:          "concepts.projects",
				Title:        "Projects",
				TranslateKey: "nav.conceptsProjects.projects",
				Icon:         "projects",
				Type:         TypeCollapse,
				Authority:    []string{AuthorityUser},
				SubMenu: []Node{
					{
						Key:          "concepts.projects.list",
						Path:         "/concepts/projects/project-list",
						Title:        "Project List",
						TranslateKey: "nav.conceptsProjects.projectList",
						Icon:         "projectList",
						Type:         TypeItem,
					},
					{
						Key:          "concepts.projects.tasks",
						Path:         "/concepts/projects/tasks",
						Title:        "Tasks",
						TranslateKey: "nav.conceptsProjects.tasks",
						Icon:         "projectTask",
						Type:         TypeItem,
					},
				},
			},
			{
				Key:          "concepts.account",
				Title:        "Account",
				TranslateKey: "nav.conceptsAccount.account",
				Icon:         "account",
				Type:         TypeCollapse,
				SubMenu: []Node{
					{
						Key:          "concepts.account.settings",
						Path:         "/concepts/account/settings",
						Title:        "Settings",
						TranslateKey: "nav.conceptsAccount.settings",
						Icon:         "accountSettings",
						Type:         TypeItem,
					},
					{
						Key:          "concepts.account.roles",
						Path:         "/concepts/account/roles-permissions",
						Title:        "Roles & Permissions",
						TranslateKey: "nav.conceptsAccount.rolesPermissions",
						Icon:         "accountRoleAndPermission",
						Type:         TypeItem,
						Authority:    []string{AuthorityAdmin},
					},
				},
			},
		},
	},
	{
		Key:          "admin",
		Title:        "Administration",
		TranslateKey: "nav.admin",
		Icon:         "admin",
		Type:         TypeTitle,
		Authority:    []string{AuthorityAdmin},
		SubMenu: []Node{
			{
				Key:          "admin.users",
				Path:         "/admin/users",
				Title:        "Users",
				TranslateKey: "nav.admin.users",
				Icon:         "users",
				Type:         TypeItem,
			},
			{
				Key:          "admin.audit",
				Path:         "/admin/audit",
				Title:        "Audit Log",
				TranslateKey: "nav.admin.audit",
				Icon:         "audit",
				Type:         TypeItem,
				Authority:    []string{AuthorityAdmin, AuthorityUser},
			},
		},
	},
}

// DefaultTree returns a copy of the dashboard navigation tree.
func DefaultTree() []Node {
	return cloneNodes(defaultTree)
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Authority = append([]string(nil), n.Authority...)
		out[i].SubMenu = cloneNodes(n.SubMenu)
	}
	return out
}

// Walk calls fn for every node depth first.
func Walk(nodes []Node, fn func(n Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.SubMenu, depth+1, fn)
	}
}
