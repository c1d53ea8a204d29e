package exercise

import (
	"encoding/json"
	"fmt"
)

// Spec is the raw JSON shape of one exercise as it appears in content files.
// The `answer` field is an option index for mcq and a string for input and
// listen_type, so it stays raw until Parse knows the variant.
type Spec struct {
	Type        string          `json:"type"`
	Question    string          `json:"question,omitempty"`
	Instruction string          `json:"instruction,omitempty"`
	Title       string          `json:"title,omitempty"`
	Options     []string        `json:"options,omitempty"`
	Answer      json.RawMessage `json:"answer,omitempty"`
	Answers     []string        `json:"answers,omitempty"`
	Sentence    string          `json:"sentence,omitempty"`
	Phrase      string          `json:"phrase,omitempty"`
	Pieces      []string        `json:"pieces,omitempty"`
	Correct     []string        `json:"correct,omitempty"`
	Pairs       []Pair          `json:"pairs,omitempty"`
	Pronounce   string          `json:"pronounce,omitempty"`
}

// Parse validates a spec and returns its variant. A recognized type with
// missing required fields is a content error and is rejected here, before
// any session can reach it. An unrecognized type is not an error: it parses
// to Unsupported so rendering can show a fallback message instead of failing.
func Parse(s Spec) (Exercise, error) {
	prompt := s.prompt()

	switch Kind(s.Type) {
	case KindMCQ:
		if len(s.Options) == 0 {
			return nil, fmt.Errorf("mcq: options required")
		}
		idx, err := s.answerIndex()
		if err != nil {
			return nil, fmt.Errorf("mcq: %w", err)
		}
		if idx < 0 || idx >= len(s.Options) {
			return nil, fmt.Errorf("mcq: answer index %d out of range (%d options)", idx, len(s.Options))
		}
		return &MCQ{Question: prompt, Options: s.Options, Answer: idx}, nil

	case KindInput:
		text, err := s.answerText()
		if err != nil || text == "" {
			return nil, fmt.Errorf("input: answer string required")
		}
		return &Input{Question: prompt, Answer: text}, nil

	case KindFillBlank:
		if s.Sentence == "" && prompt == "" {
			return nil, fmt.Errorf("fill_blank: sentence required")
		}
		if len(s.Answers) == 0 {
			return nil, fmt.Errorf("fill_blank: answers required")
		}
		sentence := s.Sentence
		if sentence == "" {
			sentence = prompt
		}
		return &FillBlank{Question: prompt, Sentence: sentence, Answers: s.Answers}, nil

	case KindListenType:
		text, err := s.answerText()
		if err != nil || text == "" {
			return nil, fmt.Errorf("listen_type: answer string required")
		}
		phrase := s.Phrase
		if phrase == "" {
			phrase = text
		}
		return &ListenType{Question: prompt, Phrase: phrase, Answer: text}, nil

	case KindReorder:
		if len(s.Pieces) == 0 {
			return nil, fmt.Errorf("reorder: pieces required")
		}
		if len(s.Correct) == 0 {
			return nil, fmt.Errorf("reorder: correct order required")
		}
		return &Reorder{Question: prompt, Pieces: s.Pieces, Correct: s.Correct}, nil

	case KindMatch:
		if len(s.Pairs) == 0 {
			return nil, fmt.Errorf("match: pairs required")
		}
		seen := make(map[string]bool, len(s.Pairs))
		for _, p := range s.Pairs {
			if p.De == "" || p.Ru == "" {
				return nil, fmt.Errorf("match: pair with empty side")
			}
			if seen[p.De] {
				return nil, fmt.Errorf("match: duplicate source term %q", p.De)
			}
			seen[p.De] = true
		}
		return &Match{Question: prompt, Pairs: s.Pairs}, nil

	case KindPronounce:
		if s.Pronounce == "" {
			return nil, fmt.Errorf("pronounce: phrase required")
		}
		return &Pronounce{Question: prompt, Phrase: s.Pronounce}, nil

	default:
		return &Unsupported{TypeName: s.Type}, nil
	}
}

func (s Spec) prompt() string {
	switch {
	case s.Question != "":
		return s.Question
	case s.Instruction != "":
		return s.Instruction
	default:
		return s.Title
	}
}

func (s Spec) answerIndex() (int, error) {
	if len(s.Answer) == 0 {
		return 0, fmt.Errorf("answer index required")
	}
	var idx int
	if err := json.Unmarshal(s.Answer, &idx); err != nil {
		return 0, fmt.Errorf("answer must be an option index: %w", err)
	}
	return idx, nil
}

func (s Spec) answerText() (string, error) {
	if len(s.Answer) == 0 {
		return "", fmt.Errorf("answer required")
	}
	var text string
	if err := json.Unmarshal(s.Answer, &text); err != nil {
		return "", fmt.Errorf("answer must be a string: %w", err)
	}
	return text, nil
}
