package extractors

import (
	"strings"

	"github.com/KirkDiggler/lenna/internal/entities"
	"github.com/KirkDiggler/lenna/internal/errors"
)

const (
	sectionSeparator = "\n\n"
	headerMarker     = "=="
)

// ExtractStatusEffects builds the status effect catalogue from a page of
// "== Name ==" headers each followed by an effect body. Sections before the
// first header are front matter. A body spanning several paragraphs is kept
// whole.
func ExtractStatusEffects(wikitext string) (entities.StatusEffects, error) {
	sections := strings.Split(wikitext, sectionSeparator)

	first := -1
	for i, section := range sections {
		if isHeader(section) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, errors.ExtractionFailed(errors.KindSection, headerMarker)
	}

	effects := entities.StatusEffects{}
	for i := first; i < len(sections); {
		name := headerName(sections[i])

		j := i + 1
		for j < len(sections) && !isHeader(sections[j]) {
			j++
		}
		body := strings.TrimSpace(strings.Join(sections[i+1:j], sectionSeparator))
		if body == "" {
			return nil, errors.ExtractionFailed(errors.KindSection, name)
		}

		effect, err := Simplify(body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to simplify status effect %s", name)
		}
		effects[strings.ToLower(name)] = &entities.StatusEffect{Name: name, Effect: effect}

		i = j
	}
	return effects, nil
}

func isHeader(section string) bool {
	return strings.HasPrefix(strings.TrimSpace(section), headerMarker)
}

func headerName(section string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(section), "="))
}
