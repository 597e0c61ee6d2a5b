package fluent

import "strings"

// Resource is the parsed result of one Fluent source document: an ordered
// list of message and term Entries.
type Resource struct {
	Entries []Entry
}

// ParseResource parses a complete Fluent resource. Parsing is all-or-
// nothing: the first syntax error aborts the parse and no partial Resource
// is returned, matching the upstream Fluent grammar's per-resource model.
// Entries that the parser cannot align to (stray text between valid
// entries) are silently skipped as junk, rather than treated as errors.
func ParseResource(source string) (*Resource, error) {
	p := &parser{src: normalizeNewlines(source)}

	var entries []Entry
	for !p.eof() {
		id, isTerm, ok, newPos := p.matchEntryStart()
		if !ok {
			p.skipToNextLine()
			continue
		}
		p.pos = newPos
		p.skipInlineBlank()

		entry, err := p.parseEntryBody(id, isTerm)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)

		if !p.eof() && p.src[p.pos] == '\n' {
			p.pos++
		}
	}

	return &Resource{Entries: entries}, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
