// Package candidate owns resume submissions. The role column is an
// authority field set by the server; requested_role records the caller's
// intent and is the only role-shaped input a caller can influence.
package candidate

import "strings"

// RoleBaseline is the authoritative role every new candidate gets,
// regardless of what the caller asked for.
const RoleBaseline = "candidate"

var allowedRequestedRoles = map[string]struct{}{
	"candidate": {},
	"recruiter": {},
	"admin":     {},
}

// NormalizeRequestedRole maps caller input onto the closed requested-role
// enum, falling back to the baseline for anything unrecognized.
func NormalizeRequestedRole(raw string) string {
	role := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedRequestedRoles[role]; ok {
		return role
	}
	return RoleBaseline
}
