package entities

import "strings"

// WeaponType is the closed set of weapon categories. The catalogue page
// lists one table per type in this order.
type WeaponType int

// Weapon categories in catalogue order.
const (
	WeaponTypeHG WeaponType = iota
	WeaponTypeSMG
	WeaponTypeAR
	WeaponTypeRF
	WeaponTypeMG
	WeaponTypeSG
	WeaponTypeBlade
)

var weaponTypeNames = [...]string{
	WeaponTypeHG:    "HG",
	WeaponTypeSMG:   "SMG",
	WeaponTypeAR:    "AR",
	WeaponTypeRF:    "RF",
	WeaponTypeMG:    "MG",
	WeaponTypeSG:    "SG",
	WeaponTypeBlade: "BLADE",
}

// WeaponTypes returns every weapon type in catalogue order.
func WeaponTypes() []WeaponType {
	types := make([]WeaponType, len(weaponTypeNames))
	for i := range weaponTypeNames {
		types[i] = WeaponType(i)
	}
	return types
}

func (t WeaponType) String() string {
	if t < 0 || int(t) >= len(weaponTypeNames) {
		return "UNKNOWN"
	}
	return weaponTypeNames[t]
}

// MarshalText encodes the type by name.
func (t WeaponType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseWeaponType resolves a type name case-insensitively.
func ParseWeaponType(s string) (WeaponType, bool) {
	for i, name := range weaponTypeNames {
		if strings.EqualFold(name, s) {
			return WeaponType(i), true
		}
	}
	return 0, false
}

// Weapon is one row of the weapon catalogue.
type Weapon struct {
	Type         WeaponType `json:"type"`
	Name         string     `json:"name"`
	Grade        string     `json:"grade"`
	Description  string     `json:"description"`
	Skill        string     `json:"skill"`
	Trait        string     `json:"trait"`
	ImprintBoost string     `json:"imprint_boost"`
}

// Weapons is the weapon catalogue keyed by lowercased name.
type Weapons map[string]*Weapon

// Find looks a weapon up case-insensitively.
func (w Weapons) Find(name string) (*Weapon, bool) {
	weapon, ok := w[strings.ToLower(name)]
	return weapon, ok
}
