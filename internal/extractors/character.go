package extractors

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/lenna/internal/entities"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/markup"
)

// MaxSkills is the number of skill pages a character carries.
const MaxSkills = 5

type characterField struct {
	arg      string
	optional bool
	simplify bool
	set      func(c *entities.Character, v string)
}

// characterFields maps doll template arguments onto Character fields.
var characterFields = []characterField{
	{arg: "fullname", set: func(c *entities.Character, v string) { c.FullName = v }},
	{arg: "role", set: func(c *entities.Character, v string) { c.Role = v }},
	{arg: "rarity", set: func(c *entities.Character, v string) { c.Rarity = v }},
	{arg: "affiliation", simplify: true, set: func(c *entities.Character, v string) { c.Affiliation = v }},
	{arg: "favweapon", set: func(c *entities.Character, v string) { c.WeaponName = v }},
	{arg: "imprint", optional: true, set: func(c *entities.Character, v string) { c.SignatureWeapon = v }},
	{arg: "wepweakness", set: func(c *entities.Character, v string) { c.WeaponWeakness = v }},
	{arg: "phaseweakness", set: func(c *entities.Character, v string) { c.PhaseWeakness = v }},
	{arg: "GFL", optional: true, set: func(c *entities.Character, v string) { c.GFLName = v }},
}

// nodeVariant is one node of the neural helix. Keyed variants carry a name
// template and a required description; plain ones only an optional
// description.
type nodeVariant struct {
	slot   int
	suffix string
	keyed  bool
}

func (n nodeVariant) nameArg() string { return fmt.Sprintf("Node%dname%s", n.slot, n.suffix) }
func (n nodeVariant) descArg() string { return fmt.Sprintf("Node%ddesc%s", n.slot, n.suffix) }

// nodeTopology lists every node in extraction order. Consumers index nodes
// positionally, so the order is fixed.
var nodeTopology = []nodeVariant{
	{slot: 4, suffix: "1", keyed: true},
	{slot: 4, suffix: "2", keyed: true},
	{slot: 7, suffix: "1", keyed: true},
	{slot: 7, suffix: "2", keyed: true},
	{slot: 10, suffix: "1", keyed: true},
	{slot: 10, suffix: "2", keyed: true},
	{slot: 11, keyed: true},
	{slot: 1},
	{slot: 2},
	{slot: 3},
	{slot: 5},
	{slot: 6},
	{slot: 8},
	{slot: 9},
}

// ExtractCharacter builds a Character from the wikitext of its base page and
// the wikitext of each of its skill pages, in skill order.
func ExtractCharacter(base string, skillPages []string) (*entities.Character, error) {
	doc := markup.Parse(base)
	if len(doc.Templates) == 0 {
		return nil, errors.ExtractionFailed(errors.KindTemplate, "character")
	}
	tmpl := doc.Templates[0]

	character := &entities.Character{}
	for _, field := range characterFields {
		arg, ok := tmpl.Arg(field.arg)
		if !ok {
			if field.optional {
				continue
			}
			return nil, errors.ExtractionFailed(errors.KindField, field.arg)
		}

		value := arg.Value
		if field.simplify {
			simplified, err := Simplify(value)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to simplify %s", field.arg)
			}
			value = simplified
		}
		field.set(character, value)
	}

	nodes, err := extractNodes(tmpl)
	if err != nil {
		return nil, err
	}
	character.Nodes = nodes

	character.Skills = make([]entities.Skill, 0, len(skillPages))
	for i, page := range skillPages {
		skill, err := ExtractSkillPage(page)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract skill %d", i+1)
		}
		character.Skills = append(character.Skills, *skill)
	}

	return character, nil
}

func extractNodes(tmpl *markup.Template) ([]entities.Node, error) {
	nodes := make([]entities.Node, 0, len(nodeTopology))
	for _, variant := range nodeTopology {
		node := entities.Node{Position: variant.slot}

		if variant.keyed {
			name, err := nodeName(tmpl, variant.nameArg())
			if err != nil {
				return nil, err
			}
			node.Name = name
		}

		desc, ok := tmpl.Arg(variant.descArg())
		switch {
		case ok:
			simplified, err := Simplify(desc.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to simplify %s", variant.descArg())
			}
			node.Description = simplified
		case variant.keyed:
			return nil, errors.ExtractionFailed(errors.KindField, variant.descArg())
		}

		nodes = append(nodes, node)
	}
	return nodes, nil
}

// nodeName reads a key node name, which the wiki wraps in a small template
// whose second argument is the display name.
func nodeName(tmpl *markup.Template, argName string) (string, error) {
	arg, ok := tmpl.Arg(argName)
	if !ok {
		return "", errors.ExtractionFailed(errors.KindField, argName)
	}

	inner := markup.Parse(arg.Value)
	if len(inner.Templates) == 0 || len(inner.Templates[0].Arguments) <= templateValueIndex {
		return "", errors.ExtractionFailed(errors.KindTemplate, argName)
	}
	return strings.TrimSpace(inner.Templates[0].Arguments[templateValueIndex].Value), nil
}
