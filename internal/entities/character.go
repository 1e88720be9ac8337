package entities

// Character is a playable doll extracted from its wiki page and skill pages.
type Character struct {
	FullName        string  `json:"full_name"`
	Role            string  `json:"role"`
	Rarity          string  `json:"rarity"`
	Affiliation     string  `json:"affiliation"`
	WeaponName      string  `json:"weapon_name"`
	SignatureWeapon string  `json:"signature_weapon,omitempty"`
	WeaponWeakness  string  `json:"weapon_weakness"`
	PhaseWeakness   string  `json:"phase_weakness"`
	GFLName         string  `json:"gfl_name,omitempty"`
	Nodes           []Node  `json:"nodes,omitempty"`
	Skills          []Skill `json:"skills"`
}

// Node is one unlockable passive on the character's neural helix.
// Position is the logical slot (1..11), not an index; keyed slots appear
// twice.
type Node struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// Keyed reports whether the node is a named key node.
func (n Node) Keyed() bool {
	return n.Name != ""
}

// Skill holds a fully expanded skill description. ExtraEffects lists the
// upgrade tiers and is nil when the skill has none.
type Skill struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ExtraEffects []string `json:"extra_effects,omitempty"`
}
