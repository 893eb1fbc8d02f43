package literal

import (
	"fmt"
	"strings"
)

// scanner walks the body of the list literal, starting right after "["
type scanner struct {
	src string
	pos int
}

func (s *scanner) elements() ([]string, error) {
	entries := []string{}

	for {
		s.skipBlank()
		if s.pos >= len(s.src) {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformed, Closing)
		}

		switch c := s.src[s.pos]; c {
		case ']':
			if !strings.HasPrefix(s.src[s.pos:], Closing) {
				return nil, fmt.Errorf("%w: expected %q at offset %d", ErrMalformed, Closing, s.pos)
			}
			s.pos += len(Closing)
			return entries, nil
		case ',':
			s.pos++
		case '\'', '"':
			str, err := s.quoted(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, str)
		default:
			s.skipToken()
		}
	}
}

// quoted reads a string literal opened by q. A newline before the closing
// quote makes it unterminated.
func (s *scanner) quoted(q byte) (string, error) {
	start := s.pos
	s.pos++

	var sb strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == q:
			s.pos++
			return sb.String(), nil
		case c == '\n':
			return "", fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, start)
		case c == '\\' && s.pos+1 < len(s.src):
			d, ok := unescape(s.src[s.pos+1])
			if !ok {
				return "", fmt.Errorf("%w: unsupported escape \\%c at offset %d", ErrMalformed, s.src[s.pos+1], s.pos)
			}
			sb.WriteByte(d)
			s.pos += 2
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}

	return "", fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, start)
}

// unescape decodes the escapes Render can produce. Anything else would not
// survive a rewrite unchanged.
func unescape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '\\', '\'', '"':
		return c, true
	default:
		return 0, false
	}
}

// skipBlank skips whitespace and comments
func (s *scanner) skipBlank() {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]
		switch {
		case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r':
			s.pos++
		case strings.HasPrefix(rest, "//"):
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				s.pos += i + 1
			} else {
				s.pos = len(s.src)
			}
		case strings.HasPrefix(rest, "/*"):
			if i := strings.Index(rest[2:], "*/"); i >= 0 {
				s.pos += i + 4
			} else {
				s.pos = len(s.src)
			}
		default:
			return
		}
	}
}

// skipToken drops a bare (unquoted) element. It always advances.
func (s *scanner) skipToken() {
	s.pos++
	for s.pos < len(s.src) && !strings.ContainsRune(",]'\" \t\r\n/", rune(s.src[s.pos])) {
		s.pos++
	}
}
