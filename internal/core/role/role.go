// Package role defines the closed set of organisational tiers an employee can hold.
package role

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	Top  Role = "top"
	Mid  Role = "mid"
	Base Role = "base"
)

var All = []Role{Top, Mid, Base}

// Parse accepts a role name case-insensitively.
func Parse(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Top:
		return Top, nil
	case Mid:
		return Mid, nil
	case Base:
		return Base, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := Parse(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

// Rank orders the tiers; higher is more senior.
func (r Role) Rank() int {
	switch r {
	case Top:
		return 3
	case Mid:
		return 2
	case Base:
		return 1
	}
	return 0
}

// ManagerTier returns the role an employee of tier r must report to.
// The second value is false for the Top tier, which has no manager.
func (r Role) ManagerTier() (Role, bool) {
	switch r {
	case Base:
		return Mid, true
	case Mid:
		return Top, true
	}
	return "", false
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
