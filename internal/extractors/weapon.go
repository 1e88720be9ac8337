package extractors

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/lenna/internal/entities"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/markup"
)

// weaponHeaderRows precede the data rows of every weapon table.
const weaponHeaderRows = 2

// Offsets into a weapon row's decoded values. Column 1 is an icon and
// columns past the imprint are release metadata.
const (
	weaponGradeIndex       = 0
	weaponDescriptionIndex = 2
	weaponSkillIndex       = 3
	weaponTraitIndex       = 4
	weaponImprintIndex     = 5
)

// ExtractWeapons builds the weapon catalogue. The page lists one table per
// weapon type in entities.WeaponTypes order.
func ExtractWeapons(wikitext string) (entities.Weapons, error) {
	doc := markup.Parse(wikitext)
	if len(doc.Tables) == 0 {
		return nil, errors.ExtractionFailed(errors.KindTable, "weapons")
	}

	types := entities.WeaponTypes()
	if len(doc.Tables) > len(types) {
		return nil, errors.ExtractionFailed(errors.KindTable, fmt.Sprintf("weapons[%d]", len(types)))
	}

	weapons := entities.Weapons{}
	for i, table := range doc.Tables {
		weaponType := types[i]

		rows := table.Rows
		if len(rows) > weaponHeaderRows {
			rows = rows[weaponHeaderRows:]
		} else {
			rows = nil
		}

		for name, value := range DecodeTable(rows) {
			weapon, err := decodeWeapon(weaponType, name, value)
			if err != nil {
				return nil, err
			}
			weapons[strings.ToLower(weapon.Name)] = weapon
		}
	}
	return weapons, nil
}

func decodeWeapon(weaponType entities.WeaponType, name string, value Value) (*entities.Weapon, error) {
	cells := value.Values()
	if !value.IsList() || len(cells) <= weaponImprintIndex {
		return nil, errors.ExtractionFailed(errors.KindTable, weaponType.String()).
			WithMeta("weapon", name)
	}

	simplified := make(map[int]string, 5)
	for _, idx := range []int{weaponGradeIndex, weaponDescriptionIndex, weaponSkillIndex, weaponTraitIndex, weaponImprintIndex} {
		v, err := Simplify(cells[idx])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to simplify weapon %s", name)
		}
		simplified[idx] = v
	}

	return &entities.Weapon{
		Type:         weaponType,
		Name:         name,
		Grade:        simplified[weaponGradeIndex],
		Description:  simplified[weaponDescriptionIndex],
		Skill:        simplified[weaponSkillIndex],
		Trait:        simplified[weaponTraitIndex],
		ImprintBoost: simplified[weaponImprintIndex],
	}, nil
}
