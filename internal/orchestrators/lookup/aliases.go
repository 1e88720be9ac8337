package lookup

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/lenna/internal/errors"
)

//go:embed aliases.yaml
var defaultAliases []byte

// Aliases resolves user-facing names to wiki page titles and catalogue keys.
// Matching is case-insensitive.
type Aliases struct {
	characters map[string]string
	weapons    map[string]string
}

type aliasFile struct {
	Characters map[string]string `yaml:"characters"`
	Weapons    map[string]string `yaml:"weapons"`
}

// ParseAliases decodes an alias file.
func ParseAliases(data []byte) (*Aliases, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse aliases")
	}

	a := &Aliases{
		characters: make(map[string]string, len(f.Characters)),
		weapons:    make(map[string]string, len(f.Weapons)),
	}
	for name, title := range f.Characters {
		a.characters[fold(name)] = strings.TrimSpace(title)
	}
	for name, target := range f.Weapons {
		a.weapons[fold(name)] = fold(target)
	}
	return a, nil
}

// DefaultAliases returns the aliases shipped with the binary.
func DefaultAliases() *Aliases {
	a, err := ParseAliases(defaultAliases)
	if err != nil {
		panic(err)
	}
	return a
}

// CharacterTitle returns the wiki page title for a character name.
func (a *Aliases) CharacterTitle(name string) string {
	if title, ok := a.characters[fold(name)]; ok {
		return title
	}
	return strings.TrimSpace(name)
}

// WeaponName returns the catalogue key for a weapon name or nickname.
func (a *Aliases) WeaponName(name string) string {
	key := fold(name)
	if target, ok := a.weapons[key]; ok {
		return target
	}
	return key
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
