package entities

import (
	"sort"
	"strings"
)

// StatusEffect is a named buff or debuff and its simplified effect text.
type StatusEffect struct {
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

// StatusEffects is the status effect catalogue keyed by lowercased name.
type StatusEffects map[string]*StatusEffect

// Find looks a status effect up case-insensitively.
func (s StatusEffects) Find(name string) (*StatusEffect, bool) {
	effect, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return effect, ok
}

// Names returns the display names in sorted order.
func (s StatusEffects) Names() []string {
	names := make([]string, 0, len(s))
	for _, effect := range s {
		names = append(names, effect.Name)
	}
	sort.Strings(names)
	return names
}
