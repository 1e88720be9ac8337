// Package markup is a small MediaWiki wikitext tokenizer.
//
// It recognises the three constructs lenna extracts records from:
// templates ({{name|arg|key=value}}), internal links ([[target|text]]) and
// tables ({| ... |}). It does not render or validate wikitext. Unbalanced
// constructs are skipped rather than repaired.
package markup

import (
	"sort"
	"strings"
)

// Document is the parsed form of a wikitext string. It is never mutated
// after Parse returns.
type Document struct {
	Text string

	// Templates lists every template in document order, nested ones included.
	Templates []*Template
	// Links lists every internal link in document order, nested ones included.
	Links []*Link
	// Tables lists the top-level tables in document order.
	Tables []*Table
}

// Template is a {{name|...}} construct.
type Template struct {
	Name      string
	Arguments []*Argument

	// Start and End are byte offsets of the literal span in Document.Text.
	Start, End int
	Literal    string
}

// Argument is one |-separated template argument. Named arguments have their
// name and value trimmed the way MediaWiki does; positional values are kept
// verbatim.
type Argument struct {
	Name  string
	Value string
}

// Positional reports whether the argument has no name.
func (a *Argument) Positional() bool {
	return a.Name == ""
}

// Arg returns the last argument called name, mirroring MediaWiki where a
// repeated parameter overrides earlier ones.
func (t *Template) Arg(name string) (*Argument, bool) {
	for i := len(t.Arguments) - 1; i >= 0; i-- {
		if t.Arguments[i].Name == name {
			return t.Arguments[i], true
		}
	}
	return nil, false
}

// Link is a [[target|text]] construct.
type Link struct {
	Target string
	// Text is the display text. HasText is false for bare [[target]] links.
	Text    string
	HasText bool

	Start, End int
	Literal    string
}

// Table is a {| ... |} construct decoded into rows of trimmed cell values.
// Header (!) and data (|) cells are not distinguished.
type Table struct {
	Rows [][]string

	Start, End int
	Literal    string
}

// Parse tokenizes text. It never fails: text without any recognised
// construct yields an empty Document.
func Parse(text string) *Document {
	doc := &Document{Text: text}
	doc.Templates, doc.Links = scanInline(text)
	doc.Tables = scanTables(text)
	return doc
}

type frameKind int

const (
	frameTemplate frameKind = iota
	frameParameter
	frameLink
)

type frame struct {
	kind  frameKind
	start int
}

// scanInline finds templates and links with a bracket stack. Template
// parameters ({{{x}}}) and HTML comments are tracked so their contents do
// not produce spurious constructs.
func scanInline(text string) ([]*Template, []*Link) {
	var (
		stack     []frame
		templates []*Template
		links     []*Link
	)

	top := func() (frame, bool) {
		if len(stack) == 0 {
			return frame{}, false
		}
		return stack[len(stack)-1], true
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				i = len(text)
				continue
			}
			i += 4 + end + 3
		case strings.HasPrefix(rest, "{{{") && !strings.HasPrefix(rest, "{{{{"):
			stack = append(stack, frame{kind: frameParameter, start: i})
			i += 3
		case strings.HasPrefix(rest, "{{"):
			stack = append(stack, frame{kind: frameTemplate, start: i})
			i += 2
		case strings.HasPrefix(rest, "[["):
			stack = append(stack, frame{kind: frameLink, start: i})
			i += 2
		case strings.HasPrefix(rest, "}}"):
			f, ok := top()
			switch {
			case ok && f.kind == frameParameter && strings.HasPrefix(rest, "}}}"):
				stack = stack[:len(stack)-1]
				i += 3
			case ok && f.kind == frameTemplate:
				stack = stack[:len(stack)-1]
				templates = append(templates, newTemplate(text, f.start, i+2))
				i += 2
			default:
				i += 2
			}
		case strings.HasPrefix(rest, "]]"):
			if f, ok := top(); ok && f.kind == frameLink {
				stack = stack[:len(stack)-1]
				links = append(links, newLink(text, f.start, i+2))
			}
			i += 2
		default:
			i++
		}
	}

	sort.SliceStable(templates, func(a, b int) bool { return templates[a].Start < templates[b].Start })
	sort.SliceStable(links, func(a, b int) bool { return links[a].Start < links[b].Start })
	return templates, links
}

func newTemplate(text string, start, end int) *Template {
	literal := text[start:end]
	parts := splitTopLevel(literal[2:len(literal)-2], "|")

	t := &Template{
		Name:    strings.TrimSpace(parts[0]),
		Start:   start,
		End:     end,
		Literal: literal,
	}
	for _, part := range parts[1:] {
		if eq := indexTopLevel(part, "="); eq >= 0 {
			t.Arguments = append(t.Arguments, &Argument{
				Name:  strings.TrimSpace(part[:eq]),
				Value: strings.TrimSpace(part[eq+1:]),
			})
			continue
		}
		t.Arguments = append(t.Arguments, &Argument{Value: part})
	}
	return t
}

func newLink(text string, start, end int) *Link {
	literal := text[start:end]
	inner := literal[2 : len(literal)-2]

	l := &Link{
		Start:   start,
		End:     end,
		Literal: literal,
	}
	if bar := indexTopLevel(inner, "|"); bar >= 0 {
		l.Target = strings.TrimSpace(inner[:bar])
		l.Text = inner[bar+1:]
		l.HasText = true
	} else {
		l.Target = strings.TrimSpace(inner)
	}
	return l
}
