package v1

import "github.com/KirkDiggler/lenna/internal/entities"

type characterResponse struct {
	Character *entities.Character `json:"character"`
	Degraded  bool                `json:"degraded"`
}

type weaponResponse struct {
	Weapon   *entities.Weapon `json:"weapon"`
	Degraded bool             `json:"degraded"`
}

type statusEffectResponse struct {
	StatusEffect *entities.StatusEffect `json:"status_effect"`
	Degraded     bool                   `json:"degraded"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// toCharacterDTO drops the nodes unless they were asked for.
func toCharacterDTO(c *entities.Character, withKeys bool) *entities.Character {
	if c == nil || withKeys {
		return c
	}
	out := *c
	out.Nodes = nil
	return &out
}
