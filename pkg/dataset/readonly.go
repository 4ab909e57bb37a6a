package dataset

import (
	"strings"
	"unicode"
)

// writeKeywords are statement words that modify data or schema. SELECT INTO
// and EXPLAIN ANALYZE execute writes on Postgres, so INTO and ANALYZE count.
var writeKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "MERGE": true,
	"UPSERT": true, "REPLACE": true, "DROP": true, "CREATE": true,
	"ALTER": true, "TRUNCATE": true, "GRANT": true, "REVOKE": true,
	"ATTACH": true, "DETACH": true, "VACUUM": true, "REINDEX": true,
	"COPY": true, "CALL": true, "LOCK": true, "INTO": true,
	"ANALYZE": true, "SET": true,
}

// IsReadOnly reports whether query is a single statement that only reads.
// It rejects early and is not the guard itself: read-only stores also run
// queries in a read-only transaction.
func IsReadOnly(query string) bool {
	words, ok := scanStatement(query)
	if !ok || len(words) == 0 {
		return false
	}

	switch words[0].text {
	case "SELECT", "WITH", "EXPLAIN", "VALUES":
	case "PRAGMA":
		// PRAGMA name = value changes settings
		return !strings.Contains(query, "=")
	default:
		return false
	}

	for _, w := range words {
		if writeKeywords[w.text] && !w.call {
			return false
		}
	}
	return true
}

type sqlWord struct {
	text string
	// call is set when the word is followed by "(", as in REPLACE(Name, 'a', 'b')
	call bool
}

// scanStatement returns the upper-cased bare words of query, skipping string
// literals, quoted identifiers and comments. ok is false when the query holds
// more than one statement or an unterminated quote.
func scanStatement(query string) ([]sqlWord, bool) {
	var words []sqlWord
	r := []rune(query)
	ended := false

	for i := 0; i < len(r); i++ {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			continue
		case ended:
			return nil, false
		case c == ';':
			ended = true
		case c == '\'' || c == '"' || c == '`':
			end := closingQuote(r, i+1, c)
			if end < 0 {
				return nil, false
			}
			i = end
		case c == '-' && i+1 < len(r) && r[i+1] == '-':
			for i < len(r) && r[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(r) && r[i+1] == '*':
			end := strings.Index(string(r[i+2:]), "*/")
			if end < 0 {
				return nil, false
			}
			i += 2 + len([]rune(string(r[i+2:])[:end])) + 1
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i+1 < len(r) && (unicode.IsLetter(r[i+1]) || unicode.IsDigit(r[i+1]) || r[i+1] == '_') {
				i++
			}
			w := sqlWord{text: strings.ToUpper(string(r[start : i+1]))}
			next := i + 1
			for next < len(r) && unicode.IsSpace(r[next]) {
				next++
			}
			w.call = next < len(r) && r[next] == '('
			words = append(words, w)
		}
	}
	return words, true
}

// closingQuote returns the index of the quote closing a literal opened before
// from, treating a doubled quote as an escape. It returns -1 when unterminated.
func closingQuote(r []rune, from int, quote rune) int {
	for i := from; i < len(r); i++ {
		if r[i] != quote {
			continue
		}
		if i+1 < len(r) && r[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return -1
}
