package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports the first line a quiz reply could not be read at.
// Line is 1-based; 0 means the reply as a whole.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "quiz parse: " + e.Reason
	}
	return fmt.Sprintf("quiz parse: line %d: %s", e.Line, e.Reason)
}

// Parse reads questions in the Q:/(a)-(d)/Answer:/Explanation: format.
// When the strict read fails the text goes through one repair pass and is
// read strictly again. Either every question parses or none is returned.
func Parse(text string) ([]Question, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	questions, err := parseStrict(lines)
	if err == nil {
		return questions, nil
	}
	repaired, rerr := parseStrict(repair(lines))
	if rerr != nil {
		return nil, rerr
	}
	return repaired, nil
}

func parseStrict(lines []string) ([]Question, error) {
	var (
		out      []Question
		cur      *Question
		next     int // next expected option, 4 once all are read
		answered bool
	)
	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Q:"):
			if cur != nil {
				if !answered {
					return nil, &ParseError{Line: n, Reason: "new question before previous one was answered"}
				}
				out = append(out, *cur)
			}
			q := strings.TrimSpace(line[len("Q:"):])
			if q == "" {
				return nil, &ParseError{Line: n, Reason: "empty question"}
			}
			cur = &Question{Question: q}
			next, answered = 0, false

		case cur == nil:
			return nil, &ParseError{Line: n, Reason: "expected a line starting with Q:"}

		case next < len(cur.Options):
			label := "(" + string(rune('a'+next)) + ")"
			if !strings.HasPrefix(line, label) {
				return nil, &ParseError{Line: n, Reason: "expected option " + label}
			}
			opt := strings.TrimSpace(line[len(label):])
			if opt == "" {
				return nil, &ParseError{Line: n, Reason: "empty option " + label}
			}
			cur.Options[next] = opt
			next++

		case !answered:
			if !strings.HasPrefix(line, "Answer:") {
				return nil, &ParseError{Line: n, Reason: "expected Answer: line"}
			}
			letter := strings.ToLower(strings.TrimSpace(line[len("Answer:"):]))
			if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'd' {
				return nil, &ParseError{Line: n, Reason: fmt.Sprintf("answer %q is not one of a, b, c, d", letter)}
			}
			cur.Answer = letter
			answered = true

		case strings.HasPrefix(line, "Explanation:") && cur.Explanation == "":
			cur.Explanation = strings.TrimSpace(line[len("Explanation:"):])

		default:
			return nil, &ParseError{Line: n, Reason: "unexpected line after answer"}
		}
	}

	if cur == nil {
		return nil, &ParseError{Reason: "no questions found"}
	}
	if !answered {
		return nil, &ParseError{Line: len(lines), Reason: "last question is incomplete"}
	}
	return append(out, *cur), nil
}

var (
	emphasis     = strings.NewReplacer("**", "", "__", "", "`", "")
	questionLine = regexp.MustCompile(`^(?i:q(?:uestion)?\s*\d*\s*[:.)]|\d+\s*[.)])\s*(.+)$`)
	optionLine   = regexp.MustCompile(`^[(\[]?([a-dA-D])[)\].:]\s*(.+)$`)
	answerLine   = regexp.MustCompile(`^(?i:(?:correct\s+)?answer)\s*[:\-]?\s*[(\[]?([a-dA-D])(?:[)\].:]|\s|$)`)
	explainLine  = regexp.MustCompile(`^(?i:explanation)\s*[:\-]\s*(.*)$`)
	bulletPrefix = regexp.MustCompile(`^(?:#+|[-*+>])\s+`)
)

// repair rewrites common formatting drift into the strict format. It keeps
// one output line per input line so error positions stay meaningful.
// Preamble before the first question is dropped and lines following an
// explanation are folded into it.
func repair(lines []string) []string {
	out := make([]string, len(lines))
	seenQuestion := false
	explained := -1
	for i, raw := range lines {
		line := strings.TrimSpace(emphasis.Replace(raw))
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		switch {
		case answerLine.MatchString(line):
			m := answerLine.FindStringSubmatch(line)
			out[i] = "Answer: " + strings.ToLower(m[1])
			explained = -1
		case explainLine.MatchString(line):
			out[i] = "Explanation: " + explainLine.FindStringSubmatch(line)[1]
			explained = i
		case optionLine.MatchString(line) && seenQuestion:
			m := optionLine.FindStringSubmatch(line)
			out[i] = "(" + strings.ToLower(m[1]) + ") " + m[2]
			explained = -1
		case questionLine.MatchString(line):
			out[i] = "Q: " + questionLine.FindStringSubmatch(line)[1]
			seenQuestion = true
			explained = -1
		case !seenQuestion:
			// preamble
		case explained >= 0:
			out[explained] += " " + line
		default:
			out[i] = line
		}
	}
	return out
}
