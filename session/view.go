package session

import (
	"berlingo_backend/exercise"
	"berlingo_backend/models"
)

// View is the render-ready snapshot of a session, serialized as-is by the
// HTTP layer.
type View struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Phase Phase  `json:"phase"`

	Points    int  `json:"points"`
	Hearts    int  `json:"hearts,omitempty"`
	HasHearts bool `json:"has_hearts"`

	// progress through the exercise block; omitted for endless practice
	ExerciseIndex int `json:"exercise_index,omitempty"`
	ExerciseTotal int `json:"exercise_total,omitempty"`

	Theory   *models.TheoryItem `json:"theory,omitempty"`
	Vocab    []models.VocabPair `json:"vocab,omitempty"`
	Exercise *exercise.View     `json:"exercise,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.ID,
		Kind:      s.Kind,
		Title:     s.Title,
		Phase:     s.phase,
		Points:    s.points,
		Hearts:    s.hearts,
		HasHearts: s.hasHearts,
	}
	switch s.phase {
	case PhaseTheory:
		if s.theoryAt < len(s.theory) {
			item := s.theory[s.theoryAt]
			v.Theory = &item
		}
	case PhaseVocab:
		v.Vocab = s.vocab
	case PhaseExercise:
		if s.inst != nil {
			ev := s.inst.View()
			v.Exercise = &ev
		}
		v.ExerciseIndex = s.exAt + 1
		if s.Kind != KindPractice {
			v.ExerciseTotal = len(s.exs)
		}
	}
	return v
}
