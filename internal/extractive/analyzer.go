// Package extractive ranks sentences and terms in a conversation without
// calling a language model. All functions are pure and deterministic:
// the same transcript always yields the same ranking, and malformed or
// empty input yields empty results rather than errors.
package extractive

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/recapd/recapd/internal/models"
)

const (
	// minSentenceLength filters greetings and acknowledgments that carry
	// no summary-worthy content ("ok", "thanks!", "hi there").
	minSentenceLength = 20

	// minKeywordLength is the shortest term returned by ExtractKeywords.
	minKeywordLength = 3

	// userBoost weights user-authored sentences above assistant
	// restatements of the same content.
	userBoost = 1.5
)

// sentence is a segmented sentence with its provenance in the transcript.
type sentence struct {
	text     string
	msgIndex int
	order    int
	role     models.Role
	score    float64
}

// ExtractKeySentences returns the maxCount highest-scoring sentences in
// the transcript, ordered by descending score with ties broken by
// original position.
func ExtractKeySentences(messages []models.Message, maxCount int) []string {
	ranked := rankSentences(messages)
	if len(ranked) == 0 || maxCount <= 0 {
		return []string{}
	}

	if maxCount > len(ranked) {
		maxCount = len(ranked)
	}

	result := make([]string, 0, maxCount)
	for _, s := range ranked[:maxCount] {
		result = append(result, s.text)
	}
	return result
}

// ExtractKeyPoints is a diversity-aware variant of ExtractKeySentences:
// at most one sentence per source message is selected, spreading the
// result across the conversation instead of ranking by score alone.
func ExtractKeyPoints(messages []models.Message, maxCount int) []string {
	ranked := rankSentences(messages)
	if len(ranked) == 0 || maxCount <= 0 {
		return []string{}
	}

	seen := make(map[int]bool)
	result := make([]string, 0, maxCount)
	for _, s := range ranked {
		if seen[s.msgIndex] {
			continue
		}
		seen[s.msgIndex] = true
		result = append(result, s.text)
		if len(result) == maxCount {
			break
		}
	}
	return result
}

// ExtractKeywords returns the topN most important terms across all
// message text. Stop words and terms shorter than three characters are
// never returned.
func ExtractKeywords(messages []models.Message, topN int) []string {
	if topN <= 0 {
		return []string{}
	}

	type term struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*term)
	position := 0
	for _, msg := range messages {
		for _, tok := range tokenize(msg.Content) {
			position++
			if len(tok) < minKeywordLength || isStopWord(tok) {
				continue
			}
			if t, ok := counts[tok]; ok {
				t.count++
			} else {
				counts[tok] = &term{word: tok, count: 1, first: position}
			}
		}
	}

	terms := make([]*term, 0, len(counts))
	for _, t := range counts {
		terms = append(terms, t)
	}

	// Importance is frequency weighted by term length; longer terms tend
	// to be domain-specific. Ties keep first-occurrence order.
	importance := func(t *term) float64 {
		return float64(t.count) * (1 + math.Log(float64(len(t.word)))/4)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		si, sj := importance(terms[i]), importance(terms[j])
		if si != sj {
			return si > sj
		}
		return terms[i].first < terms[j].first
	})

	if topN > len(terms) {
		topN = len(terms)
	}
	result := make([]string, 0, topN)
	for _, t := range terms[:topN] {
		result = append(result, t.word)
	}
	return result
}

// CalculateDiversity returns the lexical diversity of the transcript:
// distinct tokens divided by total tokens. Empty input yields 0; a
// transcript where every token is unique yields 1.
func CalculateDiversity(messages []models.Message) float64 {
	total := 0
	distinct := make(map[string]bool)
	for _, msg := range messages {
		for _, tok := range tokenize(msg.Content) {
			total++
			distinct[tok] = true
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(distinct)) / float64(total)
}

// CreateExtractiveSummary joins the top-ranked key sentences back into
// their chronological order and returns them as a single string ending
// in sentence punctuation.
func CreateExtractiveSummary(messages []models.Message, sentenceCount int) string {
	ranked := rankSentences(messages)
	if len(ranked) == 0 || sentenceCount <= 0 {
		return ""
	}

	if sentenceCount > len(ranked) {
		sentenceCount = len(ranked)
	}
	selected := make([]sentence, sentenceCount)
	copy(selected, ranked[:sentenceCount])

	// Restore chronological order for readability
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].msgIndex != selected[j].msgIndex {
			return selected[i].msgIndex < selected[j].msgIndex
		}
		return selected[i].order < selected[j].order
	})

	parts := make([]string, len(selected))
	for i, s := range selected {
		parts[i] = s.text
	}

	summary := strings.Join(parts, " ")
	if summary != "" && !strings.ContainsRune(".!?", rune(summary[len(summary)-1])) {
		summary += "."
	}
	return summary
}

// rankSentences segments, filters, and scores every sentence in the
// transcript, returning them ordered by descending score with ties
// broken by original position.
func rankSentences(messages []models.Message) []sentence {
	var sentences []sentence
	order := 0
	for i, msg := range messages {
		for _, text := range splitSentences(msg.Content) {
			order++
			if len(text) < minSentenceLength {
				continue
			}
			sentences = append(sentences, sentence{
				text:     text,
				msgIndex: i,
				order:    order,
				role:     msg.Role,
			})
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	// Document frequency: in how many messages does each term appear
	docFreq := make(map[string]int)
	for _, msg := range messages {
		seen := make(map[string]bool)
		for _, tok := range tokenize(msg.Content) {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}
	numDocs := float64(len(messages))

	for i := range sentences {
		toks := tokenize(sentences[i].text)
		if len(toks) == 0 {
			continue
		}

		tf := make(map[string]int)
		for _, tok := range toks {
			tf[tok]++
		}

		var score float64
		for tok, freq := range tf {
			if isStopWord(tok) {
				continue
			}
			idf := math.Log(1 + numDocs/float64(1+docFreq[tok]))
			score += float64(freq) * idf
		}
		// Normalize by length so long sentences don't dominate
		score /= float64(len(toks))

		if sentences[i].role == models.RoleUser {
			score *= userBoost
		}
		sentences[i].score = score
	}

	sort.SliceStable(sentences, func(i, j int) bool {
		if sentences[i].score != sentences[j].score {
			return sentences[i].score > sentences[j].score
		}
		return sentences[i].order < sentences[j].order
	})
	return sentences
}

// splitSentences segments text on sentence-ending punctuation, keeping
// the terminator with the sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return sentences
}

// tokenize lowercases text and splits it on any non-alphanumeric rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
