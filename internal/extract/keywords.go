package extract

import "strings"

// stopwords excluded from statement keywords. Content words are what the
// contradiction engine uses to decide two statements reference the same fact.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "was": true, "were": true, "are": true, "have": true,
	"has": true, "had": true, "not": true, "never": true, "did": true,
	"didn't": true, "wasn't": true, "will": true, "would": true,
	"going": true, "shall": true, "think": true, "maybe": true,
	"you": true, "your": true, "she": true, "her": true, "him": true,
	"his": true, "they": true, "them": true, "because": true, "about": true,
	"from": true, "into": true, "been": true, "being": true, "there": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"but": true, "all": true, "any": true, "can": true, "could": true,
	"should": true, "does": true, "doesn't": true, "don't": true,
	"ever": true, "just": true, "only": true, "very": true, "then": true,
	"than": true, "also": true, "after": true, "before": true, "out": true,
	"our": true, "its": true, "it's": true, "i'm": true, "i'll": true,
	"we'll": true, "won't": true,
}

// Keywords extracts lowercased content words (length >= 3, non-stopword)
// in first-seen order with duplicates removed.
func Keywords(sentence string) []string {
	lower := strings.ToLower(sentence)

	var words []string
	var current strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, w := range words {
		if len(w) < 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// SharedKeywords returns the keywords present in both lists, preserving the
// order of the first list. Used for same-fact matching.
func SharedKeywords(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, w := range b {
		inB[w] = true
	}
	var shared []string
	for _, w := range a {
		if inB[w] {
			shared = append(shared, w)
		}
	}
	return shared
}
