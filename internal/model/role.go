package model

import "fmt"

// Role is the closed set of account kinds. It is fixed at registration and
// carried in every auth token.
type Role string

const (
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleFaculty || r == RoleStudent
}

// ParseRole converts a raw claim or path segment into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
