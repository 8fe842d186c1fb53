package synthetic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSentenceWords = 3
	maxSentenceWords = 8
)

func (g *Generator) sentences(count int) []string {
	lines := make([]string, count)
	for indx := range lines {
		lines[indx] = g.sentence()
	}

	return lines
}

// sentence is placeholder text; its words come from the gofakeit word lists.
func (g *Generator) sentence() string {
	wordCount := g.intBetween(minSentenceWords, maxSentenceWords)

	var builder strings.Builder

	for indx := range wordCount {
		word := g.faker.Word()
		if indx == 0 {
			word = capitalize(word)
		} else {
			builder.WriteByte(' ')
		}

		builder.WriteString(word)
	}

	builder.WriteByte('.')

	return builder.String()
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}

	return string(unicode.ToUpper(first)) + word[size:]
}
