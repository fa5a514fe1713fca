// Package locale holds the user-facing strings the core synthesizes:
// fallback titles, context headers, and the framing sent with a question.
package locale

import "strings"

// Labels is one language's set of synthesized strings.
type Labels struct {
	PreambleTitle  string // title of the text before the first article
	ChunkTitle     string // fmt pattern, receives the 1-based chunk number
	ContextHeader  string // first line of a ranked context blob
	NoMatch        string // context sent when no article matched the question
	SystemPrompt   string // framing placed ahead of the law's context
	TitleLabel     string
	SlugLabel      string
	QuestionPrefix string // precedes the user's question in the final prompt
	NoAnswer       string // shown when the model returns nothing
	Unreachable    string // shown when the generation call fails
}

// English is the default preset.
var English = Labels{
	PreambleTitle:  "Preamble",
	ChunkTitle:     "Part %d",
	ContextHeader:  "Context from the law (use only this text to answer):\n",
	NoMatch:        "Context: no specific article matched the keywords. Answer in general terms or ask the user to clarify.\n",
	SystemPrompt:   "You are an assistant who explains the laws of Kosovo briefly, clearly and without inventing anything. If the context does not contain an exact answer, say \"This is not stated exactly in the text I have\" and ask for clarification.",
	TitleLabel:     "Title",
	SlugLabel:      "Slug",
	QuestionPrefix: "Question:",
	NoAnswer:       "I did not get an answer.",
	Unreachable:    "Could not reach the answer service. Try again later.",
}

// Albanian is the preset used by the Kosovo reading app.
var Albanian = Labels{
	PreambleTitle:  "Preambulë / Hyrje",
	ChunkTitle:     "Pjesa %d",
	ContextHeader:  "Kontekst nga ligji (përdore vetëm këtë tekst për përgjigje):\n",
	NoMatch:        "Kontekst: S’gjej nen specifik me fjalët kyçe. Përgjigju duke kërkuar sqarime ose duke shpjeguar përgjithshëm.\n",
	SystemPrompt:   "Ti je asistent që shpjegon ligjet e Kosovës shkurt, qartë dhe pa shpikur. Nëse konteksti s’ka përgjigje të saktë, thuaj “Nuk gjendet saktë në tekstin që kam” dhe kërko sqarim.",
	TitleLabel:     "Titulli",
	SlugLabel:      "Slug",
	QuestionPrefix: "Pyetja:",
	NoAnswer:       "S’pata përgjigje.",
	Unreachable:    "Gabim lidhjeje. Provo prapë.",
}

// Lookup returns the preset for a language code. Unknown codes fall back to
// English.
func Lookup(code string) Labels {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "sq", "sq-xk", "sq-al", "albanian":
		return Albanian
	default:
		return English
	}
}
