package lookup

import "github.com/KirkDiggler/lenna/internal/entities"

// Options are the cache flags shared by every lookup.
type Options struct {
	// UseCache serves cached pages without asking the wiki.
	UseCache bool
	// Force refetches every page and disables the degraded fallback.
	Force bool
}

// GetCharacterInput defines the request for looking up a character
type GetCharacterInput struct {
	Name string
	Options
}

// GetCharacterOutput defines the response for looking up a character
type GetCharacterOutput struct {
	Character *entities.Character
	// Degraded is set when any page came from a pinned cache entry.
	Degraded bool
}

// GetWeaponInput defines the request for looking up a weapon
type GetWeaponInput struct {
	Name string
	Options
}

// GetWeaponOutput defines the response for looking up a weapon
type GetWeaponOutput struct {
	Weapon   *entities.Weapon
	Degraded bool
}

// GetStatusEffectInput defines the request for looking up a status effect
type GetStatusEffectInput struct {
	Name string
	Options
}

// GetStatusEffectOutput defines the response for looking up a status effect
type GetStatusEffectOutput struct {
	StatusEffect *entities.StatusEffect
	Degraded     bool
}

// page is one wiki page taking part in a lookup.
type page struct {
	id    string
	title string
}

// pageSet is the reconciled state of every page of an aggregate.
type pageSet struct {
	pages    []page
	payloads [][]byte
	// update is set when any page asked to be rewritten.
	update bool
	// updateable is cleared when any page is pinned.
	updateable bool
}
