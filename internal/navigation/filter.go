package navigation

// Allowed reports whether a user holding authority may see an entry that
// requires required. Every required tag must be held; no requirement always passes.
func Allowed(required, authority []string) bool {
	if len(required) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(authority))
	for _, a := range authority {
		held[a] = struct{}{}
	}
	for _, r := range required {
		if _, ok := held[r]; !ok {
			return false
		}
	}
	return true
}

// Filter returns the subset of tree visible to a user holding authority.
// Hidden parents drop their whole subtree, and groups left without visible
// children are dropped. The input is not modified.
func Filter(tree []Node, authority []string) []Node {
	out := make([]Node, 0, len(tree))
	for _, n := range tree {
		if !Allowed(n.Authority, authority) {
			continue
		}
		visible := n
		visible.Authority = append([]string(nil), n.Authority...)
		visible.SubMenu = nil
		if len(n.SubMenu) > 0 {
			children := Filter(n.SubMenu, authority)
			if len(children) == 0 && n.Type != TypeItem {
				continue
			}
			visible.SubMenu = children
		}
		out = append(out, visible)
	}
	return out
}
