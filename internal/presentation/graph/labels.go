package graph

import (
	"strings"
	"unicode"
)

// SplitWords breaks an identifier into words: underscores separate words, a
// lowercase letter or digit followed by an uppercase letter starts a new word,
// and an uppercase run followed by a lowercase letter keeps all but its last
// letter as an acronym ("HTTPServer" -> "HTTP", "Server").
func SplitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Display turns an identifier into a node label. All-caps words are kept as
// acronyms; other words get an uppercase first letter.
func Display(name string, split bool) string {
	if !split {
		return name
	}
	words := SplitWords(name)
	if len(words) == 0 {
		return name
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(w)
	upper := true
	for _, r := range runes {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			upper = false
			break
		}
	}
	if upper {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
