package domain

import "strings"

// VectorHit is one entry returned by a vector index query.
type VectorHit struct {
	// ID is the document identifier the vector was indexed under.
	ID string

	// Similarity is the cosine similarity to the query vector, in [-1, 1].
	Similarity float64
}

// SearchResult represents a document similar to a free-text query.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the cosine similarity.
	Score float64

	// Excerpt is the leading portion of the document content.
	Excerpt string
}

// excerptWords is how many words Excerpt keeps.
const excerptWords = 40

// Excerpt returns the first words of text, with an ellipsis if truncated.
func Excerpt(text string) string {
	return LeadingWords(text, excerptWords, "...")
}

// LeadingWords returns the first n whitespace-delimited tokens of text joined by
// single spaces, appending suffix if text was truncated.
func LeadingWords(text string, n int, suffix string) string {
	words := strings.Fields(text)
	if n <= 0 {
		return ""
	}
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + suffix
}
