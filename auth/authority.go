package auth

import (
	"github.com/zeno/dashboard/internal/navigation"
	"github.com/zeno/dashboard/supabase"
)

// supabaseSignedInRole is the GoTrue role of every signed-in user.
const supabaseSignedInRole = "authenticated"

// AuthorityFromUser derives the authority list of a Supabase user from
// app_metadata.authority, which only the service role can write.
// user_metadata is editable by the user and is never consulted. Without
// an app_metadata list a signed-in user gets the user authority.
func AuthorityFromUser(u supabase.User) []string {
	if list, ok := stringList(u.AppMetadata["authority"]); ok {
		return list
	}
	if u.Role == supabaseSignedInRole {
		return []string{navigation.AuthorityUser}
	}
	if u.Role != "" {
		return []string{u.Role}
	}
	return []string{}
}

func stringList(raw interface{}) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if v != "" {
			return []string{v}, true
		}
	}
	return nil, false
}

// UserFromSupabase maps a Supabase auth user to the dashboard session user.
func UserFromSupabase(u supabase.User) User {
	name, _ := u.UserMetadata["name"].(string)
	if name == "" {
		name, _ = u.UserMetadata["full_name"].(string)
	}
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      name,
		Role:      u.Role,
		Authority: AuthorityFromUser(u),
	}
}
