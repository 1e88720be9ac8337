package markup

import "strings"

// scanTables finds top-level {| ... |} blocks. Table delimiters are only
// recognised at the start of a line; nested tables stay inside the cell
// text of their parent.
func scanTables(text string) []*Table {
	var (
		tables []*Table
		depth  int
		start  int
	)

	for offset := 0; offset < len(text); {
		end := strings.IndexByte(text[offset:], '\n')
		lineEnd := len(text)
		if end >= 0 {
			lineEnd = offset + end
		}
		line := strings.TrimLeft(text[offset:lineEnd], " \t")

		switch {
		case strings.HasPrefix(line, "{|"):
			if depth == 0 {
				start = offset + (lineEnd - offset - len(line))
			}
			depth++
		case strings.HasPrefix(line, "|}") && depth > 0:
			depth--
			if depth == 0 {
				closeAt := lineEnd - len(line) + 2
				literal := text[start:closeAt]
				tables = append(tables, &Table{
					Rows:    parseRows(literal),
					Start:   start,
					End:     closeAt,
					Literal: literal,
				})
			}
		}

		if end < 0 {
			break
		}
		offset = lineEnd + 1
	}
	return tables
}

// logicalLines splits a table body into lines, joining physical lines that
// fall inside an open template, link or nested table.
func logicalLines(body string) []string {
	var (
		lines   []string
		current strings.Builder
		depth   int
		nested  int
	)

	physical := strings.Split(body, "\n")
	for _, line := range physical {
		trimmed := strings.TrimLeft(line, " \t")
		if depth == 0 && nested == 0 && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		} else if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)

		if depth == 0 {
			switch {
			case strings.HasPrefix(trimmed, "{|"):
				nested++
			case strings.HasPrefix(trimmed, "|}") && nested > 0:
				nested--
			}
		}
		for i := 0; i < len(line); {
			w, d := nesting(line[i:])
			if w == 0 {
				i++
				continue
			}
			depth += d
			if depth < 0 {
				depth = 0
			}
			i += w
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// parseRows decodes the literal of one table into rows of cell values.
func parseRows(literal string) [][]string {
	body := literal
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:] // drop the {| attribute line
	} else {
		return nil
	}
	if idx := strings.LastIndex(body, "|}"); idx >= 0 {
		body = body[:idx]
	}

	var (
		rows [][]string
		row  []string
	)
	flush := func() {
		if len(row) > 0 {
			rows = append(rows, row)
		}
		row = nil
	}

	for _, line := range logicalLines(body) {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "|-"):
			flush()
		case strings.HasPrefix(trimmed, "|+"):
			continue
		case strings.HasPrefix(trimmed, "!"):
			for _, raw := range splitCells(trimmed[1:], "!!") {
				row = append(row, cellValue(raw))
			}
		case strings.HasPrefix(trimmed, "|"):
			for _, raw := range splitTopLevel(trimmed[1:], "||") {
				row = append(row, cellValue(raw))
			}
		default:
			if len(row) == 0 {
				continue
			}
			last := len(row) - 1
			row[last] = strings.TrimSpace(row[last] + "\n" + trimmed)
		}
	}
	flush()
	return rows
}

// splitCells splits header cells, which accept both !! and || separators.
func splitCells(s, sep string) []string {
	var cells []string
	for _, part := range splitTopLevel(s, sep) {
		cells = append(cells, splitTopLevel(part, "||")...)
	}
	return cells
}

// cellValue strips an optional "attributes |" prefix and surrounding space.
func cellValue(raw string) string {
	if bar := indexTopLevel(raw, "|"); bar >= 0 {
		raw = raw[bar+1:]
	}
	return strings.TrimSpace(raw)
}
