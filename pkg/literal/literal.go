package literal

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// Declaration precedes the list literal in the document
	Declaration = "export const PROXY_LIST = "
	// Opening marks the start of the bounded block
	Opening = Declaration + "["
	// Closing marks the end of the bounded block
	Closing = "];"
	// Indent is written before every rendered entry
	Indent = "    "
)

var (
	ErrNotFound  = errors.New("PROXY_LIST not found")
	ErrAmbiguous = errors.New("PROXY_LIST declared more than once")
	ErrMalformed = errors.New("malformed PROXY_LIST")
)

var escaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Block is the located PROXY_LIST statement of a document
type Block struct {
	// Entries holds the quoted elements in source order
	Entries []string
	// Start is the offset of Opening
	Start int
	// End is the offset just past Closing
	End int
}

// Extract locates the PROXY_LIST block in doc and returns its string elements
// Parameters:
//   - doc: Full text of the config document
//
// Returns:
//   - *Block: Entries and the byte span of the statement
//   - error: ErrNotFound, ErrAmbiguous or ErrMalformed
func Extract(doc string) (*Block, error) {
	start := strings.Index(doc, Opening)
	if start < 0 {
		return nil, ErrNotFound
	}
	if strings.Contains(doc[start+len(Opening):], Opening) {
		return nil, ErrAmbiguous
	}

	s := &scanner{src: doc, pos: start + len(Opening)}
	entries, err := s.elements()
	if err != nil {
		return nil, err
	}

	return &Block{Entries: entries, Start: start, End: s.pos}, nil
}

// Load reads the document at path and extracts its block
func Load(path string) (string, *Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := string(raw)
	b, err := Extract(doc)
	if err != nil {
		return doc, nil, err
	}
	return doc, b, nil
}

// Render serializes entries as a bracketed list, one single-quoted entry per line
func Render(entries []string) string {
	var sb strings.Builder

	sb.WriteString("[\n")
	for i, e := range entries {
		sb.WriteString(Indent + "'")
		sb.WriteString(escaper.Replace(e))
		sb.WriteString("'")
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("]")

	return sb.String()
}

// Statement returns the full PROXY_LIST declaration for entries
func Statement(entries []string) string {
	return Declaration + Render(entries) + ";"
}

// Replace substitutes the statement for entries in place of b. Text outside
// [b.Start, b.End) is kept as is.
func Replace(doc string, b *Block, entries []string) string {
	return doc[:b.Start] + Statement(entries) + doc[b.End:]
}
