package session

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berlingo_backend/content"
	"berlingo_backend/exercise"
	"berlingo_backend/progress"
)

const testLessons = `{
  "lessons": [
    {
      "id": "lesson_1",
      "title": "Знакомство",
      "theory": [
        {"title": "Приветствия", "content": "Hallo — привет."},
        {"title": "Представление", "content": "Ich heiße — меня зовут."}
      ],
      "vocab": [{"de": "Hallo", "ru": "Привет"}],
      "exercises": [
        {"type": "mcq", "question": "?", "options": ["Nein", "Ja"], "answer": 1},
        {"type": "input", "question": "?", "answer": "Danke"}
      ]
    },
    {
      "id": "lesson_2",
      "title": "Семья",
      "exercises": [
        {"type": "input", "question": "?", "answer": "Haus"},
        {"type": "reorder", "question": "?", "pieces": ["Das", "ist", "mein", "Haus"], "correct": ["Das", "ist", "mein", "Haus"]}
      ]
    }
  ]
}`

const testRules = `{
  "grammar": [
    {
      "id": "rule_sein",
      "title": "Глагол sein",
      "theory": [{"title": "Спряжение", "content": "ich bin, du bist."}],
      "exercises": [
        {"type": "fill_blank", "question": "?", "sentence": "Ich ___ da.", "answers": ["bin"]}
      ]
    }
  ],
  "listening": []
}`

const testPractice = `{
  "practices": [
    {
      "id": "practice_1",
      "description": "Переводы",
      "type": "translate_words",
      "based_on_lessons": ["lesson_1"]
    }
  ]
}`

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lessons.json"), []byte(testLessons), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.json"), []byte(testRules), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "practice.json"), []byte(testPractice), 0o644))
	cat, err := content.Load(context.Background(), dir)
	require.NoError(t, err)
	return cat
}

func testDeps() Deps {
	return Deps{Rand: rand.New(rand.NewSource(1)), Hearts: 10}
}

func answer(t *testing.T, s *Session, fn func(*exercise.Instance) error) {
	t.Helper()
	require.NoError(t, s.WithInstance(fn))
	require.NoError(t, s.WithInstance(func(in *exercise.Instance) error { return in.Continue() }))
}

func TestLessonRunToCompletion(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_1")
	require.True(t, ok)

	s := NewLesson(cat, tracker, lesson, testDeps())
	require.Equal(t, PhaseTheory, s.Phase())
	assert.Equal(t, "Приветствия", s.View().Theory.Title)

	require.NoError(t, s.Advance())
	assert.Equal(t, "Представление", s.View().Theory.Title)

	require.NoError(t, s.Advance())
	require.Equal(t, PhaseVocab, s.Phase())
	assert.Len(t, s.View().Vocab, 1)

	require.NoError(t, s.Advance())
	require.Equal(t, PhaseExercise, s.Phase())
	v := s.View()
	assert.Equal(t, 1, v.ExerciseIndex)
	assert.Equal(t, 2, v.ExerciseTotal)

	answer(t, s, func(in *exercise.Instance) error { return in.ChooseOption(1) })
	require.Equal(t, PhaseExercise, s.Phase())
	answer(t, s, func(in *exercise.Instance) error { return in.CheckText("danke") })

	assert.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, 20, s.Points())
	assert.Equal(t, 10, s.Hearts())

	done, err := tracker.IsDone("lesson_1")
	require.NoError(t, err)
	assert.True(t, done)

	rec, err := tracker.Record("lesson_1")
	require.NoError(t, err)
	assert.Equal(t, progress.Record{Done: true, Hearts: 10, Points: 20}, rec)
}

func TestLessonFailsAtZeroHearts(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_2")
	require.True(t, ok)

	deps := testDeps()
	deps.Hearts = 1
	// lesson_2 has no theory or vocab, so the session opens on its first
	// exercise
	s := NewLesson(cat, tracker, lesson, deps)
	require.Equal(t, PhaseExercise, s.Phase())

	// one wrong answer drains the only heart; the verdict still shows,
	// and the failure lands on continue
	require.NoError(t, s.WithInstance(func(in *exercise.Instance) error { return in.CheckText("falsch") }))
	assert.Equal(t, PhaseExercise, s.Phase())
	require.NoError(t, s.WithInstance(func(in *exercise.Instance) error { return in.Continue() }))

	assert.Equal(t, PhaseFailed, s.Phase())
	assert.ErrorIs(t, s.WithInstance(func(in *exercise.Instance) error { return nil }), ErrNotExercise)

	done, err := tracker.IsDone("lesson_2")
	require.NoError(t, err)
	assert.False(t, done, "a failed run must not mark the lesson done")
}

func TestRuleRun(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	rule, ok := cat.Rule("grammar", "rule_sein")
	require.True(t, ok)

	s := NewRule(cat, tracker, rule, testDeps())
	require.Equal(t, PhaseTheory, s.Phase())
	require.NoError(t, s.Advance())
	require.Equal(t, PhaseExercise, s.Phase(), "rules have no vocab step")

	answer(t, s, func(in *exercise.Instance) error { return in.CheckText("bin") })

	assert.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, 15, s.Points())

	done, err := tracker.IsDone("rule_sein")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPracticeIsEndlessAndUngraded(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	p, ok := cat.Practice("practice_1")
	require.True(t, ok)

	s := NewPractice(cat, tracker, p, testDeps())
	require.Equal(t, PhaseExercise, s.Phase())
	assert.False(t, s.View().HasHearts)

	for i := 0; i < 5; i++ {
		answer(t, s, func(in *exercise.Instance) error {
			input, ok := in.Exercise().(*exercise.Input)
			require.True(t, ok)
			return in.CheckText(input.Answer)
		})
		require.Equal(t, PhaseExercise, s.Phase(), "practice never finishes on its own")
	}
	assert.Equal(t, 50, s.Points())

	done, err := tracker.IsDone("practice_1")
	require.NoError(t, err)
	assert.False(t, done, "practice runs are never recorded as done")
}

func TestPracticeWrongAnswerCostsNothing(t *testing.T) {
	cat := testCatalog(t)
	p, ok := cat.Practice("practice_1")
	require.True(t, ok)

	s := NewPractice(cat, progress.NewTracker(progress.NewMemory()), p, testDeps())
	answer(t, s, func(in *exercise.Instance) error { return in.CheckText("falsch") })

	assert.Equal(t, PhaseExercise, s.Phase())
	assert.Zero(t, s.Points())
}

func TestRestart(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_1")
	require.True(t, ok)

	deps := testDeps()
	deps.Hearts = 3
	s := NewLesson(cat, tracker, lesson, deps)
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	answer(t, s, func(in *exercise.Instance) error { return in.ChooseOption(0) }) // wrong

	assert.Equal(t, 2, s.Hearts())

	id := s.ID
	require.NoError(t, s.Restart())
	assert.Equal(t, id, s.ID)
	assert.Equal(t, PhaseTheory, s.Phase())
	assert.Equal(t, 3, s.Hearts())
	assert.Zero(t, s.Points())
}

func TestRestartUnmarksDone(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_2")
	require.True(t, ok)

	s := NewLesson(cat, tracker, lesson, testDeps())
	answer(t, s, func(in *exercise.Instance) error { return in.CheckText("Haus") })
	answer(t, s, func(in *exercise.Instance) error {
		if err := in.Arrange([]string{"Das", "ist", "mein", "Haus"}); err != nil {
			return err
		}
		return in.CheckOrder()
	})
	require.Equal(t, PhaseFinished, s.Phase())

	done, err := tracker.IsDone("lesson_2")
	require.NoError(t, err)
	require.True(t, done)

	require.NoError(t, s.Restart())

	done, err = tracker.IsDone("lesson_2")
	require.NoError(t, err)
	assert.False(t, done, "restarting must clear the stored done flag")
	assert.Equal(t, PhaseExercise, s.Phase())
}

func TestSkipCompletesLesson(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_1")
	require.True(t, ok)

	s := NewLesson(cat, tracker, lesson, testDeps())
	require.NoError(t, s.Skip())
	assert.Equal(t, PhaseFinished, s.Phase())

	done, err := tracker.IsDone("lesson_1")
	require.NoError(t, err)
	assert.True(t, done)

	assert.ErrorIs(t, s.Skip(), ErrOver)
}

func TestSkipRefusedForPractice(t *testing.T) {
	cat := testCatalog(t)
	p, ok := cat.Practice("practice_1")
	require.True(t, ok)

	s := NewPractice(cat, progress.NewTracker(progress.NewMemory()), p, testDeps())
	assert.ErrorIs(t, s.Skip(), ErrNotExercise)
}

func TestManager(t *testing.T) {
	cat := testCatalog(t)
	tracker := progress.NewTracker(progress.NewMemory())
	lesson, ok := cat.Lesson("lesson_1")
	require.True(t, ok)

	m := NewManager()
	s := NewLesson(cat, tracker, lesson, testDeps())
	m.Put(s)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Delete(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}
