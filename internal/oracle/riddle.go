package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// parseRiddle extracts a riddle from a model reply. The reply is expected to
// be a JSON object, possibly wrapped in a markdown code fence; a plain
// "Question: ... / Answer: ..." layout is accepted as well.
func parseRiddle(reply string) (Riddle, error) {
	text := stripFence(reply)

	var r Riddle
	var raw struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err == nil {
			r = Riddle{Question: raw.Question, Answer: raw.Answer}
		}
	}

	if r.Question == "" && r.Answer == "" {
		r = parseLabelled(text)
	}

	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimFunc(strings.TrimSpace(r.Answer), func(c rune) bool {
		return unicode.IsPunct(c) || unicode.IsSpace(c)
	})

	if r.Question == "" {
		return Riddle{}, fmt.Errorf("riddle has no question")
	}
	if r.Answer == "" {
		return Riddle{}, fmt.Errorf("riddle has no answer")
	}
	if strings.ContainsFunc(r.Answer, unicode.IsSpace) {
		return Riddle{}, fmt.Errorf("riddle answer %q is not a single word", r.Answer)
	}

	return r, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func parseLabelled(text string) Riddle {
	var r Riddle
	for _, line := range strings.Split(text, "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "question", "riddle":
			r.Question = val
		case "answer":
			r.Answer = val
		}
	}
	return r
}
