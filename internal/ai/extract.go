package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSONArray = errors.New("no JSON array of questions found in model response")

type generatedQuestion struct {
	Question string `json:"question"`
}

// ExtractQuestions pulls question texts out of free-form model output.
//
// A whole-body {"questions": [...]} object (JSON response mode) is tried
// first, then every '[' that starts a decodable array of objects, so prose
// or markdown fences around the array are ignored. The first candidate with
// at least one non-blank "question" wins; blank entries are dropped.
// Candidates whose entries are all blank are skipped. An explicitly empty
// array yields no questions and no error when nothing better follows.
func ExtractQuestions(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	sawEmpty := false

	consider := func(items []generatedQuestion) []string {
		if len(items) == 0 {
			sawEmpty = true
			return nil
		}
		return nonBlank(items)
	}

	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Questions []generatedQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.Questions != nil {
			if out := consider(wrapped.Questions); len(out) > 0 {
				return out, nil
			}
		}
	}

	offset := 0
	for {
		idx := strings.IndexByte(text[offset:], '[')
		if idx < 0 {
			break
		}
		start := offset + idx
		offset = start + 1

		var items []generatedQuestion
		// Decode stops at the end of the first value, so trailing prose is fine.
		if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&items); err != nil {
			continue
		}
		if out := consider(items); len(out) > 0 {
			return out, nil
		}
	}

	if sawEmpty {
		return []string{}, nil
	}
	return nil, ErrNoJSONArray
}

func nonBlank(items []generatedQuestion) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if q := strings.TrimSpace(item.Question); q != "" {
			out = append(out, q)
		}
	}
	return out
}
