package graph

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// XSD datatype IRIs understood for typed literals.
const (
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDLong    = "http://www.w3.org/2001/XMLSchema#long"
	XSDDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
)

var errMalformed = errors.New("malformed triple")

// ParseNTriples parses N-Triples content. IRIs in the aiact namespace are
// compacted to entity identifiers and registered predicate IRIs are mapped
// back to their dotted predicate names. Typed literals become int64, float64
// or bool; everything else stays a string.
func ParseNTriples(name string, data []byte) ([]Fact, error) {
	var facts []Fact
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f, err := parseTripleLine(line)
		if err != nil {
			return nil, &LoadError{Path: name, Line: lineNo, Err: err}
		}
		facts = append(facts, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: name, Line: lineNo, Err: err}
	}
	return facts, nil
}

func parseTripleLine(line string) (Fact, error) {
	rest := line
	subject, rest, err := readIRI(rest)
	if err != nil {
		return Fact{}, fmt.Errorf("subject: %w", err)
	}
	predicate, rest, err := readIRI(rest)
	if err != nil {
		return Fact{}, fmt.Errorf("predicate: %w", err)
	}

	var object any
	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "<"):
		var iri string
		iri, rest, err = readIRI(rest)
		if err != nil {
			return Fact{}, fmt.Errorf("object: %w", err)
		}
		object = aiact.CompactIRI(iri)
	case strings.HasPrefix(rest, "\""):
		object, rest, err = readLiteral(rest)
		if err != nil {
			return Fact{}, fmt.Errorf("object: %w", err)
		}
	default:
		return Fact{}, fmt.Errorf("object: %w", errMalformed)
	}

	if strings.TrimSpace(rest) != "." {
		return Fact{}, fmt.Errorf("missing terminating '.': %w", errMalformed)
	}

	return Fact{
		Subject:   aiact.CompactIRI(subject),
		Predicate: predicateName(predicate),
		Object:    object,
	}, nil
}

func predicateName(iri string) string {
	if pred, ok := aiact.PredicateForIRI(iri); ok {
		return pred
	}
	if strings.HasPrefix(iri, aiact.Namespace) {
		return strings.TrimPrefix(iri, aiact.Namespace)
	}
	return iri
}

func readIRI(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return "", s, errMalformed
	}
	end := strings.IndexByte(s, '>')
	if end < 2 {
		return "", s, errMalformed
	}
	return s[1:end], s[end+1:], nil
}

// unicodeEscape decodes the width hex digits of a \u or \U escape.
func unicodeEscape(s string, width int) (rune, error) {
	if len(s) < width {
		return 0, fmt.Errorf("short unicode escape: %w", errMalformed)
	}
	n, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("unicode escape %q: %w", s[:width], errMalformed)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("invalid code point U+%X: %w", n, errMalformed)
	}
	return r, nil
}

func readLiteral(s string) (any, string, error) {
	var sb strings.Builder
	i := 1
	closed := false
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'u', 'U':
				width := 4
				if s[i+1] == 'U' {
					width = 8
				}
				r, err := unicodeEscape(s[i+2:], width)
				if err != nil {
					return nil, s, err
				}
				sb.WriteRune(r)
				i += 2 + width
				continue
			default:
				sb.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		if c == '"' {
			closed = true
			i++
			break
		}
		sb.WriteByte(c)
		i++
	}
	if !closed {
		return nil, s, fmt.Errorf("unterminated literal: %w", errMalformed)
	}

	lexical := sb.String()
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, "^^"):
		datatype, after, err := readIRI(rest[2:])
		if err != nil {
			return nil, rest, fmt.Errorf("datatype: %w", err)
		}
		value, err := typedLiteral(lexical, datatype)
		return value, after, err
	case strings.HasPrefix(rest, "@"):
		// Language tags are dropped; the literal stays a plain string.
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			return nil, rest, errMalformed
		}
		return lexical, rest[end:], nil
	default:
		return lexical, rest, nil
	}
}

func typedLiteral(lexical, datatype string) (any, error) {
	switch datatype {
	case XSDInteger, XSDLong:
		n, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q: %w", lexical, err)
		}
		return n, nil
	case XSDDecimal, XSDDouble:
		f, err := strconv.ParseFloat(lexical, 64)
		if err != nil {
			return nil, fmt.Errorf("decimal literal %q: %w", lexical, err)
		}
		return f, nil
	case XSDBoolean:
		b, err := strconv.ParseBool(lexical)
		if err != nil {
			return nil, fmt.Errorf("boolean literal %q: %w", lexical, err)
		}
		return b, nil
	default:
		return lexical, nil
	}
}
