package synth

import (
	"strings"
)

const (
	contextHeader = "Context from PDF:\n"
	answerTask    = "\n\nProvide a concise, accurate response based on the context."
)

// BuildPrompt joins the retrieved chunks in rank order under the question.
// When maxChars is positive the prompt stays within it: the first context
// chunk that does not fit is cut and marked with "...", later ones are
// dropped. The question itself is never cut, so a question that alone
// exceeds the budget gets no context at all.
func BuildPrompt(question string, contexts []string, maxChars int) string {
	var buf strings.Builder

	tail := "\n\nQuery: " + question + answerTask
	buf.WriteString(contextHeader)

	available := -1
	if maxChars > 0 {
		available = max(0, maxChars-len(contextHeader)-len(tail))
	}

	for i, c := range contexts {
		sep := ""
		if i > 0 {
			sep = "\n"
		}
		entry := sep + c
		if available >= 0 {
			if len(entry) > available {
				cut := available - len(sep) - len("...")
				if cut > 0 {
					buf.WriteString(sep)
					buf.WriteString(truncate(c, cut))
					buf.WriteString("...")
				}
				break
			}
			available -= len(entry)
		}
		buf.WriteString(entry)
	}

	buf.WriteString(tail)
	return buf.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8Start(s[n]) {
		n--
	}
	return s[:n]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
