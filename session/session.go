package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"berlingo_backend/content"
	"berlingo_backend/exercise"
	"berlingo_backend/models"
	"berlingo_backend/progress"
)

// Kind is the flavor of content a session runs.
type Kind string

const (
	KindLesson   Kind = "lesson"
	KindRule     Kind = "rule"
	KindPractice Kind = "practice"
)

// Phase is the current screen of a session.
type Phase string

const (
	PhaseTheory   Phase = "theory"
	PhaseVocab    Phase = "vocab"
	PhaseExercise Phase = "exercise"
	PhaseFinished Phase = "finished"
	PhaseFailed   Phase = "failed"
)

var (
	ErrNotExercise = errors.New("session: no exercise at the current step")
	ErrOver        = errors.New("session: already finished")
)

// Deps are the capabilities a session hands down to its exercise
// instances, plus the hearts budget for graded runs.
type Deps struct {
	Speaker       exercise.Speaker
	HasRecognizer bool
	Rand          *rand.Rand // nil for a time-seeded one
	Hearts        int
}

// Session runs one piece of content start to finish: theory pages, then
// vocab cards for lessons that carry them, then the exercises in order.
// Practice sessions skip straight to generated exercises and never end on
// their own. All methods are safe for concurrent use.
type Session struct {
	ID        string
	Kind      Kind
	ContentID string
	Title     string

	mu sync.Mutex

	catalog  *content.Catalog
	tracker  *progress.Tracker
	practice *models.Practice
	deps     Deps
	rng      *rand.Rand

	theory []models.TheoryItem
	vocab  []models.VocabPair
	exs    []exercise.Exercise

	phase    Phase
	theoryAt int
	exAt     int
	inst     *exercise.Instance

	points    int
	hearts    int
	hasHearts bool
}

// NewLesson starts a graded run over a lesson.
func NewLesson(cat *content.Catalog, tracker *progress.Tracker, lesson *models.Lesson, deps Deps) *Session {
	s := newSession(cat, tracker, deps)
	s.Kind = KindLesson
	s.ContentID = lesson.ID
	s.Title = lesson.Title
	s.theory = lesson.Theory
	s.vocab = lesson.Vocab
	s.exs = cat.Exercises(lesson.ID)
	s.hasHearts = true
	s.hearts = deps.Hearts
	s.begin()
	return s
}

// NewRule starts a graded run over a grammar or listening rule. Rules have
// no vocab step.
func NewRule(cat *content.Catalog, tracker *progress.Tracker, rule *models.Rule, deps Deps) *Session {
	s := newSession(cat, tracker, deps)
	s.Kind = KindRule
	s.ContentID = rule.ID
	s.Title = rule.Title
	s.theory = rule.Theory
	s.exs = cat.Exercises(rule.ID)
	s.hasHearts = true
	s.hearts = deps.Hearts
	s.begin()
	return s
}

// NewPractice starts an endless ungraded drill. Exercises are generated
// one at a time from the practice's base lessons; there are no hearts and
// no completion.
func NewPractice(cat *content.Catalog, tracker *progress.Tracker, p *models.Practice, deps Deps) *Session {
	s := newSession(cat, tracker, deps)
	s.Kind = KindPractice
	s.ContentID = p.ID
	s.Title = p.Description
	s.practice = p
	s.begin()
	return s
}

func newSession(cat *content.Catalog, tracker *progress.Tracker, deps Deps) *Session {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		ID:      uuid.NewString(),
		catalog: cat,
		tracker: tracker,
		deps:    deps,
		rng:     rng,
	}
}

// begin picks the first phase and spins up the first exercise if the
// content opens with one.
func (s *Session) begin() {
	switch {
	case len(s.theory) > 0:
		s.phase = PhaseTheory
	case len(s.vocab) > 0:
		s.phase = PhaseVocab
	default:
		s.startExercises()
	}
}

// Advance moves past the current theory page or the vocab step. It is a
// no-op during exercises, where Continue on the instance drives the flow.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseTheory:
		s.theoryAt++
		if s.theoryAt < len(s.theory) {
			return nil
		}
		if len(s.vocab) > 0 {
			s.phase = PhaseVocab
			return nil
		}
		s.startExercises()
	case PhaseVocab:
		s.startExercises()
	case PhaseFinished, PhaseFailed:
		return ErrOver
	}
	return nil
}

func (s *Session) startExercises() {
	s.phase = PhaseExercise
	s.exAt = 0
	if s.Kind == KindPractice {
		s.inst = s.newInstance(content.GeneratePractice(s.catalog, s.practice, s.rng))
		return
	}
	if len(s.exs) == 0 {
		s.complete()
		return
	}
	s.inst = s.newInstance(s.exs[0])
}

func (s *Session) newInstance(ex exercise.Exercise) *exercise.Instance {
	return exercise.New(ex, exercise.Callbacks{
		AddPoints:  s.addPoints,
		LoseHeart:  s.loseHeart,
		OnContinue: s.next,
	}, exercise.Deps{
		Speaker:       s.deps.Speaker,
		Rand:          s.rng,
		HasRecognizer: s.deps.HasRecognizer,
	})
}

// Callbacks run from inside instance methods, which are only reached while
// s.mu is already held by the session method that invoked them.

func (s *Session) addPoints(n int) { s.points += n }

func (s *Session) loseHeart() {
	if !s.hasHearts {
		return
	}
	if s.hearts > 0 {
		s.hearts--
	}
}

// next advances past a continued exercise. A run that is out of hearts
// fails here, after the learner has seen the verdict of the last attempt.
func (s *Session) next() {
	if s.hasHearts && s.hearts == 0 {
		s.phase = PhaseFailed
		s.inst = nil
		return
	}
	if s.Kind == KindPractice {
		s.exAt++
		s.inst = s.newInstance(content.GeneratePractice(s.catalog, s.practice, s.rng))
		return
	}
	s.exAt++
	if s.exAt >= len(s.exs) {
		s.complete()
		return
	}
	s.inst = s.newInstance(s.exs[s.exAt])
}

func (s *Session) complete() {
	s.phase = PhaseFinished
	s.inst = nil
	if s.tracker != nil && s.Kind != KindPractice {
		// best effort; the run is over either way
		_ = s.tracker.MarkDone(s.ContentID, s.hearts, s.points)
	}
}

// Restart clears the stored completion record and rewinds the session to
// its first step with fresh points and hearts. The id stays the same.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker != nil && s.Kind != KindPractice {
		if err := s.tracker.UnmarkDone(s.ContentID); err != nil {
			return err
		}
	}
	s.points = 0
	if s.hasHearts {
		s.hearts = s.deps.Hearts
	}
	s.theoryAt = 0
	s.exAt = 0
	s.inst = nil
	s.begin()
	return nil
}

// Skip jumps straight past the remaining exercises, completing the run
// with the current score. Available only when the skip setting is on;
// the handler enforces that.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseFinished, PhaseFailed:
		return ErrOver
	}
	if s.Kind == KindPractice {
		return ErrNotExercise
	}
	s.complete()
	return nil
}

// WithInstance runs fn against the current exercise instance under the
// session lock, so scoring callbacks fired by fn mutate a consistent
// session.
func (s *Session) WithInstance(fn func(*exercise.Instance) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inst == nil {
		return ErrNotExercise
	}
	return fn(s.inst)
}

func (s *Session) Points() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

func (s *Session) Hearts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hearts
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}
