// package document parses markdown playlist documents.
//
// A document is a markdown file with an H1 title and a pipe table listing
// tracks:
//
//	# Road Trip Mix
//
//	| # | Música | Artista |
//	|---|--------|---------|
//	| 1 | Bohemian Rhapsody | Queen |
//
// The header accepts Título/Title/Música for the title column and
// Artista/Artist for the artist column, case-insensitively. The numeric
// column is display-only; track positions come from row order.
package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

// Document is a parsed playlist document. Tracks preserve row order and
// duplicates; the desired state is a multiset.
type Document struct {
	Title  string
	Tracks []models.Track
}

// ParseError reports a malformed document with its location.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Is lets callers match any ParseError against shared.ErrInvalidDocument.
func (e *ParseError) Is(target error) bool {
	return target == shared.ErrInvalidDocument
}

func parseErr(line, column int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a markdown playlist document. The first H1 heading is the
// playlist title; the first pipe table supplies the tracks. Anything else in
// the file is ignored.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	var (
		titleIdx   = -1
		artistIdx  = -1
		inTable    bool
		sawRows    bool
		headerSeen bool
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if doc.Title == "" && strings.HasPrefix(trimmed, "# ") {
			doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}

		if !strings.HasPrefix(trimmed, "|") {
			if sawRows {
				break
			}
			continue
		}

		cells, offsets := splitRow(raw)

		if !inTable {
			titleIdx, artistIdx = findColumns(cells)
			if titleIdx < 0 || artistIdx < 0 {
				continue
			}
			inTable = true
			headerSeen = true
			continue
		}

		if isSeparator(cells) {
			continue
		}

		if len(cells) <= titleIdx || len(cells) <= artistIdx {
			return nil, parseErr(line, 1, "row has %d columns, need at least %d", len(cells), max(titleIdx, artistIdx)+1)
		}

		title := strings.TrimSpace(cells[titleIdx])
		artist := strings.TrimSpace(cells[artistIdx])
		if title == "" {
			return nil, parseErr(line, offsets[titleIdx], "empty track title")
		}
		if artist == "" {
			return nil, parseErr(line, offsets[artistIdx], "empty track artist")
		}

		sawRows = true
		doc.Tracks = append(doc.Tracks, models.Track{
			Position: len(doc.Tracks) + 1,
			Title:    title,
			Artist:   artist,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	if doc.Title == "" {
		return nil, parseErr(1, 0, "document has no H1 title")
	}
	if !headerSeen {
		return nil, parseErr(line, 0, "document has no track table (need Título/Title and Artista/Artist columns)")
	}
	if len(doc.Tracks) == 0 {
		return nil, parseErr(line, 0, "track table has no rows")
	}

	return doc, nil
}

// splitRow splits a table line into cells and records each cell's 1-based
// character offset for error reporting. Leading and trailing pipes delimit
// the row; inner pipes split cells.
func splitRow(raw string) ([]string, []int) {
	var cells []string
	var offsets []int

	start := -1
	for i, r := range raw {
		if r != '|' {
			continue
		}
		if start >= 0 {
			cells = append(cells, raw[start:i])
			offsets = append(offsets, start+1)
		}
		start = i + 1
	}
	if start >= 0 && start < len(raw) {
		trailing := raw[start:]
		if strings.TrimSpace(trailing) != "" {
			cells = append(cells, trailing)
			offsets = append(offsets, start+1)
		}
	}

	return cells, offsets
}

// findColumns locates the title and artist columns in a header row.
func findColumns(cells []string) (titleIdx, artistIdx int) {
	titleIdx, artistIdx = -1, -1
	for i, cell := range cells {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "música", "musica", "título", "titulo", "title":
			if titleIdx < 0 {
				titleIdx = i
			}
		case "artista", "artist":
			if artistIdx < 0 {
				artistIdx = i
			}
		}
	}
	return titleIdx, artistIdx
}

// isSeparator reports whether the cells form a markdown header separator row
// (dashes with optional alignment colons).
func isSeparator(cells []string) bool {
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}
	return true
}
