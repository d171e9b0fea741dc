package domain

import (
	"sort"
	"strings"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// RoleSet is the canonical, uppercase-normalized set of role names for a
// session. All role checks go through set membership so casing differences
// in the backend payload cannot leak into authorization decisions.
type RoleSet map[string]struct{}

// NormalizeRoles builds a RoleSet from raw role tokens, uppercasing and
// trimming each one. Empty tokens are dropped.
func NormalizeRoles(raw []string) RoleSet {
	set := make(RoleSet, len(raw))
	for _, r := range raw {
		name := strings.ToUpper(strings.TrimSpace(r))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(role string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(role))]
	return ok
}

// Intersects reports whether the set shares at least one role with other.
func (s RoleSet) Intersects(other RoleSet) bool {
	for role := range other {
		if _, ok := s[role]; ok {
			return true
		}
	}
	return false
}

func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, role)
	}
	sort.Strings(names)
	return names
}

type UserProfile struct {
	ID    int64
	Name  string
	Email string
	Roles RoleSet
}
