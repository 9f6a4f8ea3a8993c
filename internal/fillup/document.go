package fillup

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SectionMarkerPrefix introduces a named section inside a multi-table
// document. A marker line is the prefix immediately followed by the section
// name and nothing else.
const SectionMarkerPrefix = "## "

// utf8BOM is stripped from the first line when present; spreadsheet exports
// frequently prepend it.
const utf8BOM = "\uFEFF"

// Document holds the raw lines of a multi-section fillup export together with
// a source name used in diagnostics.
type Document struct {
	Source string
	Lines  []string
}

// NewDocument wraps pre-split lines as a Document.
func NewDocument(source string, lines []string) *Document {
	return &Document{Source: source, Lines: lines}
}

// ReadDocument reads a document from r, splitting it into lines. CRLF line
// endings are tolerated and a leading UTF-8 byte order mark is stripped.
func ReadDocument(source string, r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document %s: %w", source, err)
	}

	return &Document{Source: source, Lines: lines}, nil
}

// Section is a half-open [Start, End) range of data lines belonging to a named
// section. The marker line itself is excluded from the range.
type Section struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of data lines in the section.
func (s Section) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// SectionLines returns the data lines of sec within the document.
func (d *Document) SectionLines(sec Section) []string {
	start, end := sec.Start, sec.End
	if start < 0 {
		start = 0
	}
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	if end <= start {
		return nil
	}
	return d.Lines[start:end]
}

// FindSection locates the named section in a single pass over the document.
// The range starts on the line after the "## <name>" marker and ends one line
// before the next marker of any name: the line directly preceding a following
// marker is a separator and is excluded. When no later marker exists the
// section runs through the end of the document, final line included. Returns
// ErrSectionNotFound when no marker for name is present.
func FindSection(doc *Document, name string) (Section, error) {
	marker := SectionMarkerPrefix + name
	start := -1

	for i, line := range doc.Lines {
		if start < 0 {
			if line == marker {
				start = i + 1
			}
			continue
		}
		if strings.HasPrefix(line, SectionMarkerPrefix) {
			end := i - 1
			if end < start {
				end = start
			}
			return Section{Name: name, Start: start, End: end}, nil
		}
	}

	if start < 0 {
		return Section{}, fmt.Errorf("section %q: %w", name, ErrSectionNotFound)
	}
	return Section{Name: name, Start: start, End: len(doc.Lines)}, nil
}

// Sections enumerates every section of the document in order. Interior
// sections trim the separator line before the next marker, matching
// FindSection; the last section runs through the end of the document.
func Sections(doc *Document) []Section {
	var sections []Section
	for i, line := range doc.Lines {
		if !strings.HasPrefix(line, SectionMarkerPrefix) {
			continue
		}
		if n := len(sections); n > 0 && sections[n-1].End < 0 {
			end := i - 1
			if end < sections[n-1].Start {
				end = sections[n-1].Start
			}
			sections[n-1].End = end
		}
		sections = append(sections, Section{
			Name:  strings.TrimPrefix(line, SectionMarkerPrefix),
			Start: i + 1,
			End:   -1,
		})
	}
	if n := len(sections); n > 0 && sections[n-1].End < 0 {
		sections[n-1].End = len(doc.Lines)
	}
	return sections
}
