package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"berlingo_backend/exercise"
	"berlingo_backend/models"
	"berlingo_backend/progress"
)

// Catalog holds all loaded content plus the parsed exercises per content
// id. It is immutable after Load.
type Catalog struct {
	Lessons   []models.Lesson
	Rules     models.RulesFile
	Practices []models.Practice

	exercises map[string][]exercise.Exercise
}

// Load reads lessons.json, rules.json and practice.json from dir
// concurrently and validates every exercise spec. If any file fails the
// whole load fails; there is no retry.
func Load(ctx context.Context, dir string) (*Catalog, error) {
	cat := &Catalog{exercises: make(map[string][]exercise.Exercise)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var f models.LessonsFile
		if err := readJSON(ctx, filepath.Join(dir, "lessons.json"), &f); err != nil {
			return err
		}
		cat.Lessons = f.Lessons
		return nil
	})
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(dir, "rules.json"), &cat.Rules)
	})
	g.Go(func() error {
		var f models.PracticeFile
		if err := readJSON(ctx, filepath.Join(dir, "practice.json"), &f); err != nil {
			return err
		}
		cat.Practices = f.Practices
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, l := range cat.Lessons {
		if err := cat.parseExercises(l.ID, l.Exercises); err != nil {
			return nil, err
		}
	}
	for _, r := range cat.Rules.Grammar {
		if err := cat.parseExercises(r.ID, r.Exercises); err != nil {
			return nil, err
		}
	}
	for _, r := range cat.Rules.Listening {
		if err := cat.parseExercises(r.ID, r.Exercises); err != nil {
			return nil, err
		}
	}
	for _, p := range cat.Practices {
		switch p.Type {
		case "sentence_build", "translate_words":
		default:
			return nil, fmt.Errorf("practice %s: unknown type %q", p.ID, p.Type)
		}
	}
	return cat, nil
}

func readJSON(ctx context.Context, path string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// parseExercises validates specs at load time so malformed content is
// rejected with context instead of failing deep inside a session.
func (c *Catalog) parseExercises(id string, specs []exercise.Spec) error {
	parsed := make([]exercise.Exercise, 0, len(specs))
	for i, s := range specs {
		ex, err := exercise.Parse(s)
		if err != nil {
			return fmt.Errorf("content %s, exercise %d: %w", id, i, err)
		}
		parsed = append(parsed, ex)
	}
	c.exercises[id] = parsed
	return nil
}

// Exercises returns the parsed exercises for a content id.
func (c *Catalog) Exercises(id string) []exercise.Exercise {
	return c.exercises[id]
}

// Lesson looks a lesson up by id.
func (c *Catalog) Lesson(id string) (*models.Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// LessonIndex returns the position of a lesson id, or -1.
func (c *Catalog) LessonIndex(id string) int {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return i
		}
	}
	return -1
}

// Rule looks up a rule by section ("grammar" or "listening") and id.
func (c *Catalog) Rule(section, id string) (*models.Rule, bool) {
	rules := c.rulesFor(section)
	for i := range rules {
		if rules[i].ID == id {
			return &rules[i], true
		}
	}
	return nil, false
}

func (c *Catalog) rulesFor(section string) []models.Rule {
	switch section {
	case "grammar":
		return c.Rules.Grammar
	case "listening":
		return c.Rules.Listening
	default:
		return nil
	}
}

// Practice looks a practice up by id.
func (c *Catalog) Practice(id string) (*models.Practice, bool) {
	for i := range c.Practices {
		if c.Practices[i].ID == id {
			return &c.Practices[i], true
		}
	}
	return nil, false
}

// LessonUnlocked reports whether a lesson is reachable: the first lesson
// always is, later ones once their predecessor is done.
func (c *Catalog) LessonUnlocked(tracker *progress.Tracker, idx int) (bool, error) {
	if idx <= 0 {
		return true, nil
	}
	if idx >= len(c.Lessons) {
		return false, nil
	}
	return tracker.IsDone(c.Lessons[idx-1].ID)
}

// PracticeUnlocked reports whether every base lesson of a practice is done.
func (c *Catalog) PracticeUnlocked(tracker *progress.Tracker, p *models.Practice) (bool, error) {
	for _, id := range p.BasedOnLessons {
		done, err := tracker.IsDone(id)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
	}
	return true, nil
}
