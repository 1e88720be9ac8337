// Package extractors turns wiki markup into typed records. Every function
// here is pure: callers hand in wikitext and get entities or an
// EXTRACTION_FAILED error back.
package extractors

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/markup"
)

const (
	// WeakIconTemplate renders an icon and carries no text.
	WeakIconTemplate = "GFL2WeakIcon"

	// maxSimplifyDepth bounds how far nested templates are resolved. Markup
	// left at the cap is returned literally.
	maxSimplifyDepth = 8

	// templateValueIndex is the argument a template collapses to.
	templateValueIndex = 1
)

// Simplify flattens templates and links into display text. Links with
// display text collapse to that text, weak-icon templates vanish and every
// other template collapses to its second argument. Nested markup is resolved
// from the inside out.
func Simplify(text string) (string, error) {
	return simplify(text, 0)
}

type span struct {
	start, end int
	template   *markup.Template
	link       *markup.Link
}

func simplify(text string, depth int) (string, error) {
	if depth >= maxSimplifyDepth {
		return text, nil
	}

	doc := markup.Parse(text)
	if len(doc.Templates) == 0 && len(doc.Links) == 0 {
		return text, nil
	}

	var b strings.Builder
	pos := 0
	for _, s := range outermost(doc) {
		resolved, err := s.resolve(depth)
		if err != nil {
			return "", err
		}
		b.WriteString(text[pos:s.start])
		b.WriteString(resolved)
		pos = s.end
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}

// outermost returns the templates and links not contained in another one,
// in document order.
func outermost(doc *markup.Document) []span {
	spans := make([]span, 0, len(doc.Templates)+len(doc.Links))
	for _, t := range doc.Templates {
		spans = append(spans, span{start: t.Start, end: t.End, template: t})
	}
	for _, l := range doc.Links {
		spans = append(spans, span{start: l.Start, end: l.End, link: l})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	top := spans[:0]
	end := -1
	for _, s := range spans {
		if s.start < end {
			continue
		}
		top = append(top, s)
		end = s.end
	}
	return top
}

func (s span) resolve(depth int) (string, error) {
	if s.link != nil {
		if !s.link.HasText {
			return s.link.Literal, nil
		}
		return simplify(s.link.Text, depth+1)
	}

	t := s.template
	if strings.EqualFold(t.Name, WeakIconTemplate) {
		return "", nil
	}
	if len(t.Arguments) <= templateValueIndex {
		return "", errors.ExtractionFailed(errors.KindTemplate, t.Name).
			WithMeta("literal", t.Literal)
	}
	return simplify(t.Arguments[templateValueIndex].Value, depth+1)
}
