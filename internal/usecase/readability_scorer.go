package usecase

import (
	"regexp"
	"strings"
)

// Readability scoring constants
const (
	// fallbackReadabilityScore is used when the description is too short for
	// the Flesch formula to be meaningful
	fallbackReadabilityScore = 50.0

	// minReadabilityWords is the minimum word count before falling back
	minReadabilityWords = 5

	// Flesch reading ease formula coefficients
	fleschBase           = 206.835
	fleschSentenceWeight = 1.015
	fleschSyllableWeight = 84.6
)

var readabilityWordRegex = regexp.MustCompile(`[a-zA-Z']+`)

// ReadabilityScorer computes a Flesch-reading-ease-based score on prose text.
type ReadabilityScorer struct{}

// NewReadabilityScorer creates a new readability scorer
func NewReadabilityScorer() *ReadabilityScorer {
	return &ReadabilityScorer{}
}

// Score computes Flesch reading ease on the raw description (not the
// concatenated specs, which are not prose) and maps it onto [0,100] via a
// fixed piecewise mapping:
//
//	flesch < 0:        10 (very hard, but not zero)
//	0 <= flesch < 30:  40 + flesch/30*10   (technical prose, 40-50)
//	flesch >= 30:      50 + (flesch-30)/70*50 (50-100)
//
// Text below the minimum word/sentence threshold is treated as moderately
// readable (50) rather than failing, since the formula is undefined there.
func (r *ReadabilityScorer) Score(description string) float64 {
	words := readabilityWordRegex.FindAllString(strings.ToLower(description), -1)
	sentences := countSentences(strings.ToLower(description))

	if len(words) < minReadabilityWords || sentences == 0 {
		return fallbackReadabilityScore
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	flesch := fleschBase - fleschSentenceWeight*wordsPerSentence - fleschSyllableWeight*syllablesPerWord

	return clampScore(mapFleschToScore(flesch))
}

// mapFleschToScore applies the fixed piecewise mapping from Flesch reading
// ease onto the [0,100] scale.
func mapFleschToScore(flesch float64) float64 {
	switch {
	case flesch < 0:
		return 10
	case flesch < 30:
		return 40 + (flesch/30)*10
	default:
		return 50 + ((flesch-30)/70)*50
	}
}

// countSyllables estimates syllables in a lowercase word by counting vowel
// groups, discounting a silent trailing 'e'. Always returns at least 1.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, c := range word {
		vowel := isVowel(c)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// isVowel reports whether a rune is an English vowel (y counts as a vowel)
func isVowel(c rune) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
