package exercise

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// Status is the lifecycle of one exercise instance. Continued is reachable
// only from Resolved, and only through an explicit Continue call.
type Status int

const (
	StatusUnanswered Status = iota
	StatusResolved
	StatusContinued
)

var (
	ErrWrongKind        = errors.New("exercise: operation does not apply to this variant")
	ErrNotResolved      = errors.New("exercise: not resolved yet")
	ErrAlreadyContinued = errors.New("exercise: continue already fired")
	ErrBadArrangement   = errors.New("exercise: arrangement does not use the given pieces")
	ErrBadOption        = errors.New("exercise: option index out of range")
	ErrNoRecognizer     = errors.New("exercise: speech recognition unavailable")
)

// User-facing strings, matching the app's Russian UI.
const (
	feedbackCorrect   = "Правильно!"
	feedbackIncorrect = "Неправильно."
	feedbackUnmatched = "Не все сопоставлено."

	noticeUnsupported  = "Неподдерживаемый тип упражнения."
	noticeNoRecognizer = "Распознавание речи не поддерживается."

	revealAnswerPrefix = "Правильный ответ: "
	revealOrderPrefix  = "Правильный порядок: "
)

// Callbacks is the contract with the session driving the exercise. Exactly
// one of AddPoints or LoseHeart fires per instance, on resolution;
// OnContinue fires exactly once, from Continue.
type Callbacks struct {
	AddPoints  func(points int)
	LoseHeart  func()
	OnContinue func()
}

// Speaker plays synthesized speech. May be nil, in which case all speech
// side effects are skipped.
type Speaker interface {
	Speak(text string)
}

// Deps are the capabilities available to an instance.
type Deps struct {
	Speaker       Speaker
	Rand          *rand.Rand // shuffle source; nil for a time-seeded one
	HasRecognizer bool       // pronounce degrades to a notice when false
}

// Instance drives one exercise through Unanswered -> Resolved -> Continued.
type Instance struct {
	ex      Exercise
	cb      Callbacks
	speaker Speaker
	hasRec  bool

	status  Status
	correct bool
	reveal  string
	notice  string

	optionsDisabled bool
	arrangement     *Arrangement
	board           *Board
}

func New(ex Exercise, cb Callbacks, deps Deps) *Instance {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	in := &Instance{
		ex:      ex,
		cb:      cb,
		speaker: deps.Speaker,
		hasRec:  deps.HasRecognizer,
	}
	switch e := ex.(type) {
	case *Reorder:
		in.arrangement = newArrangement(e.Pieces, rng)
	case *Match:
		in.board = newBoard(e.Pairs, rng)
	case *Unsupported:
		in.notice = noticeUnsupported
	case *Pronounce:
		if !in.hasRec {
			in.notice = noticeNoRecognizer
		}
	}
	return in
}

func (in *Instance) Exercise() Exercise { return in.ex }
func (in *Instance) Status() Status     { return in.status }

// Correct reports the verdict; only meaningful once resolved.
func (in *Instance) Correct() bool { return in.correct }

// ChooseOption answers an mcq by option index. All options lock after the
// first click; later calls are no-ops with the verdict unchanged.
func (in *Instance) ChooseOption(i int) error {
	e, ok := in.ex.(*MCQ)
	if !ok {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	if i < 0 || i >= len(e.Options) {
		return ErrBadOption
	}
	correct := i == e.Answer
	if correct {
		in.speak(e.Options[i])
	}
	in.optionsDisabled = true
	in.resolve(correct)
	return nil
}

// CheckText answers input, fill_blank and listen_type exercises. Both sides
// are trimmed and lowercased before comparison; fill_blank accepts any one
// of its answer strings. One attempt only.
func (in *Instance) CheckText(input string) error {
	if in.status != StatusUnanswered {
		return nil
	}
	val := normalize(input)

	switch e := in.ex.(type) {
	case *Input:
		in.finishText(val == normalize(e.Answer), e.Answer)
	case *ListenType:
		in.finishText(val == normalize(e.Answer), e.Answer)
	case *FillBlank:
		correct := false
		for _, a := range e.Answers {
			if normalize(a) == val {
				correct = true
				break
			}
		}
		in.finishText(correct, e.Answers[0])
	default:
		return ErrWrongKind
	}
	return nil
}

func (in *Instance) finishText(correct bool, canonical string) {
	if correct {
		in.speak(canonical)
	} else {
		in.reveal = revealAnswerPrefix + canonical
	}
	in.resolve(correct)
}

// Replay speaks the listen_type phrase again. Available at any point.
func (in *Instance) Replay() error {
	e, ok := in.ex.(*ListenType)
	if !ok {
		return ErrWrongKind
	}
	in.speak(e.Phrase)
	return nil
}

// BeginDrag starts a drag gesture on the piece at index i.
func (in *Instance) BeginDrag(i int) error {
	if in.arrangement == nil {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil // pieces are inert after the check
	}
	in.arrangement.BeginDrag(i)
	return nil
}

// Drop ends the drag gesture at pointer position (x, y); boxes are the
// bounds of the remaining pieces in display order.
func (in *Instance) Drop(boxes []Box, axis Axis, x, y float64) error {
	if in.arrangement == nil {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	in.arrangement.Drop(boxes, axis, x, y)
	return nil
}

// Arrange replaces the whole arrangement, for callers that track piece
// order themselves. The new order must be a permutation of the pieces.
func (in *Instance) Arrange(order []string) error {
	e, ok := in.ex.(*Reorder)
	if !ok {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	if !samePieces(order, e.Pieces) {
		return ErrBadArrangement
	}
	in.arrangement.set(order)
	return nil
}

// CheckOrder validates the current arrangement against the canonical
// sequence. Re-invoking after resolution yields the same verdict with no
// further effects.
func (in *Instance) CheckOrder() error {
	e, ok := in.ex.(*Reorder)
	if !ok {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	phrase := strings.Join(e.Correct, " ")
	correct := strings.Join(in.arrangement.Order(), " ") == phrase
	if correct {
		in.speak(phrase)
	} else {
		in.reveal = revealOrderPrefix + phrase
	}
	in.resolve(correct)
	return nil
}

// SelectLeft handles a click on a left (German) match term. The term is
// spoken on every click, matched or not.
func (in *Instance) SelectLeft(text string) error {
	if in.board == nil {
		return ErrWrongKind
	}
	in.speak(text)
	if in.status != StatusUnanswered {
		return nil
	}
	in.board.SelectLeft(text)
	return nil
}

// SelectRight handles a click on a right (Russian) match term.
func (in *Instance) SelectRight(text string) error {
	if in.board == nil {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	in.board.SelectRight(text)
	return nil
}

// CheckMatches resolves the match exercise: correct iff every left term has
// been paired.
func (in *Instance) CheckMatches() error {
	if in.board == nil {
		return ErrWrongKind
	}
	if in.status != StatusUnanswered {
		return nil
	}
	in.resolve(in.board.AllMatched())
	return nil
}

// SpeakPhrase speaks the whole pronounce phrase.
func (in *Instance) SpeakPhrase() error {
	e, ok := in.ex.(*Pronounce)
	if !ok {
		return ErrWrongKind
	}
	in.speak(e.Phrase)
	return nil
}

// SpeakWord speaks the i-th word of the pronounce phrase.
func (in *Instance) SpeakWord(i int) error {
	e, ok := in.ex.(*Pronounce)
	if !ok {
		return ErrWrongKind
	}
	words := strings.Fields(e.Phrase)
	if i < 0 || i >= len(words) {
		return nil
	}
	in.speak(words[i])
	return nil
}

// SubmitTranscript feeds a recognition result into a pronounce exercise.
// A recognition error reports to the user and keeps the attempt open; this
// is the one variant with a retry path.
func (in *Instance) SubmitTranscript(transcript string, recErr error) error {
	e, ok := in.ex.(*Pronounce)
	if !ok {
		return ErrWrongKind
	}
	if !in.hasRec {
		return ErrNoRecognizer
	}
	if in.status != StatusUnanswered {
		return nil
	}
	if recErr != nil {
		in.notice = "Ошибка распознавания: " + recErr.Error()
		return nil
	}
	in.notice = ""
	in.resolve(normalize(transcript) == normalize(e.Phrase))
	return nil
}

// Continue fires the OnContinue callback. Valid only once, from Resolved.
func (in *Instance) Continue() error {
	switch in.status {
	case StatusUnanswered:
		return ErrNotResolved
	case StatusContinued:
		return ErrAlreadyContinued
	}
	in.status = StatusContinued
	if in.cb.OnContinue != nil {
		in.cb.OnContinue()
	}
	return nil
}

// resolve settles the verdict and fires exactly one scoring callback.
func (in *Instance) resolve(correct bool) {
	in.status = StatusResolved
	in.correct = correct
	if correct {
		if in.cb.AddPoints != nil {
			in.cb.AddPoints(in.ex.Reward())
		}
	} else if in.cb.LoseHeart != nil {
		in.cb.LoseHeart()
	}
}

func (in *Instance) speak(text string) {
	if in.speaker != nil {
		in.speaker.Speak(text)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
