package extractors

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/lenna/internal/entities"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/markup"
)

// skillParam classifies a skill table row.
type skillParam int

const (
	skillParamIgnored skillParam = iota
	skillParamName
	skillParamText
	skillParamExtraEffect
	skillParamVariable
)

const (
	skillKeyName        = "name"
	skillKeyText        = "text"
	skillKeyExtraEffect = "extraeffect"
)

var ignoredSkillKeys = map[string]struct{}{
	"icon":            {},
	"skilllevelcount": {},
}

func classifySkillKey(key string) skillParam {
	if _, ok := ignoredSkillKeys[key]; ok {
		return skillParamIgnored
	}
	switch key {
	case skillKeyName:
		return skillParamName
	case skillKeyText:
		return skillParamText
	case skillKeyExtraEffect:
		return skillParamExtraEffect
	default:
		return skillParamVariable
	}
}

func placeholder(key string) string {
	return "($" + key + ")"
}

// ExtractSkillPage extracts the skill described by the first table of a
// skill page.
func ExtractSkillPage(wikitext string) (*entities.Skill, error) {
	doc := markup.Parse(wikitext)
	if len(doc.Tables) == 0 {
		return nil, errors.ExtractionFailed(errors.KindTable, "skill")
	}
	return ExtractSkill(doc.Tables[0].Rows)
}

// ExtractSkill builds a Skill from decoded table rows. Every ($param)
// placeholder in the text row is replaced by the simplified per-level values
// of the matching row joined with "/". The ($extraeffect) placeholder is
// dropped; extra effects are returned separately.
func ExtractSkill(rows [][]string) (*entities.Skill, error) {
	table := DecodeTable(rows)

	var (
		skill     entities.Skill
		text      string
		hasName   bool
		hasText   bool
		variables []string
	)

	for key, value := range table {
		switch classifySkillKey(key) {
		case skillParamIgnored:
			continue
		case skillParamName:
			name, ok := value.Scalar()
			if !ok {
				return nil, errors.ExtractionFailed(errors.KindField, skillKeyName)
			}
			skill.Name = name
			hasName = true
		case skillParamText:
			raw, ok := value.Scalar()
			if !ok {
				return nil, errors.ExtractionFailed(errors.KindField, skillKeyText)
			}
			simplified, err := Simplify(raw)
			if err != nil {
				return nil, errors.Wrap(err, "failed to simplify skill text")
			}
			text = simplified
			hasText = true
		case skillParamExtraEffect:
			effects, err := extraEffects(value)
			if err != nil {
				return nil, err
			}
			skill.ExtraEffects = effects
		case skillParamVariable:
			variables = append(variables, key)
		}
	}

	if !hasName {
		return nil, errors.ExtractionFailed(errors.KindField, skillKeyName)
	}
	if !hasText {
		return nil, errors.ExtractionFailed(errors.KindField, skillKeyText)
	}

	text = strings.ReplaceAll(text, placeholder(skillKeyExtraEffect), "")

	sort.Strings(variables)
	for _, key := range variables {
		levels := table[key].Values()
		simplified := make([]string, 0, len(levels))
		for _, level := range levels {
			v, err := Simplify(level)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to simplify skill parameter %s", key)
			}
			simplified = append(simplified, v)
		}
		text = strings.ReplaceAll(text, placeholder(key), strings.Join(simplified, "/"))
	}

	skill.Description = text
	return &skill, nil
}

func extraEffects(value Value) ([]string, error) {
	effects := []string{}
	for _, raw := range value.Values() {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		effect, err := Simplify(raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to simplify extra effect")
		}
		effects = append(effects, effect)
	}
	return effects, nil
}
