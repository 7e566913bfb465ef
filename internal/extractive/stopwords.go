package extractive

// stopWords are common English terms excluded from keyword extraction and
// down-weighted implicitly by TF-IDF scoring.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "when": true, "while": true,
	"for": true, "with": true, "from": true, "into": true, "onto": true,
	"of": true, "on": true, "in": true, "at": true, "by": true, "to": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "am": true, "do": true, "does": true,
	"did": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "can": true, "may": true,
	"might": true, "must": true, "shall": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "its": true, "i": true,
	"me": true, "my": true, "you": true, "your": true, "he": true,
	"she": true, "his": true, "her": true, "we": true, "us": true,
	"our": true, "they": true, "them": true, "their": true, "what": true,
	"which": true, "who": true, "whom": true, "how": true, "why": true,
	"where": true, "not": true, "no": true, "nor": true, "so": true,
	"than": true, "too": true, "very": true, "just": true, "about": true,
	"again": true, "also": true, "as": true, "because": true, "before": true,
	"after": true, "all": true, "any": true, "both": true, "each": true,
	"more": true, "most": true, "some": true, "such": true, "only": true,
	"there": true, "here": true, "up": true, "down": true, "out": true,
	"over": true, "under": true, "now": true,
}

// isStopWord reports whether the lowercase term is on the stop list.
func isStopWord(term string) bool {
	return stopWords[term]
}
