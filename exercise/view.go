package exercise

import "strings"

// View is a render-ready snapshot of an instance: what the original DOM
// widget showed, minus the DOM. The HTTP layer serializes it as-is.
type View struct {
	Kind   Kind   `json:"kind"`
	Prompt string `json:"prompt"`

	Options   []OptionView `json:"options,omitempty"`  // mcq
	Sentence  string       `json:"sentence,omitempty"` // fill_blank
	HasInput  bool         `json:"has_input,omitempty"`
	CanReplay bool         `json:"can_replay,omitempty"` // listen_type

	Pieces []string   `json:"pieces,omitempty"` // reorder, current order
	Match  *MatchView `json:"match,omitempty"`

	Words                []string `json:"words,omitempty"` // pronounce tokens
	RecognitionSupported bool     `json:"recognition_supported,omitempty"`

	Status   Status `json:"status"`
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback,omitempty"`
	Notice   string `json:"notice,omitempty"`
	Reveal   string `json:"reveal,omitempty"`

	CheckVisible    bool `json:"check_visible"`
	ContinueVisible bool `json:"continue_visible"`
}

type OptionView struct {
	Text     string `json:"text"`
	Disabled bool   `json:"disabled"`
}

type MatchView struct {
	Left  []MatchItem `json:"left"`
	Right []MatchItem `json:"right"`
}

type MatchItem struct {
	Text     string `json:"text"`
	Matched  bool   `json:"matched"`
	Selected bool   `json:"selected"`
}

// View builds the current snapshot.
func (in *Instance) View() View {
	v := View{
		Kind:            in.ex.Kind(),
		Prompt:          in.ex.Prompt(),
		Status:          in.status,
		Correct:         in.correct,
		Notice:          in.notice,
		Reveal:          in.reveal,
		ContinueVisible: in.status == StatusResolved,
	}
	if in.status != StatusUnanswered {
		if in.correct {
			v.Feedback = feedbackCorrect
		} else {
			v.Feedback = feedbackIncorrect
		}
	}

	switch e := in.ex.(type) {
	case *MCQ:
		v.Options = make([]OptionView, len(e.Options))
		for i, opt := range e.Options {
			v.Options[i] = OptionView{Text: opt, Disabled: in.optionsDisabled}
		}
	case *Input:
		v.HasInput = true
		v.CheckVisible = in.status == StatusUnanswered
	case *FillBlank:
		v.Sentence = e.Sentence
		v.HasInput = true
		v.CheckVisible = in.status == StatusUnanswered
	case *ListenType:
		v.HasInput = true
		v.CanReplay = true
		v.CheckVisible = in.status == StatusUnanswered
	case *Reorder:
		v.Pieces = in.arrangement.Order()
		v.CheckVisible = in.status == StatusUnanswered
	case *Match:
		v.Match = in.board.view()
		v.CheckVisible = in.status == StatusUnanswered
		if in.status != StatusUnanswered && !in.correct {
			v.Feedback = feedbackUnmatched
		}
	case *Pronounce:
		v.Words = strings.Fields(e.Phrase)
		v.RecognitionSupported = in.hasRec
	case *Unsupported:
		// notice already set; nothing interactive
	}
	return v
}
