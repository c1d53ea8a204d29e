package models

import "berlingo_backend/exercise"

// Content entities are read-only input, owned by the content files under
// data/. The engine never mutates them.

type TheoryItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// VocabPair is one flip-card: a German word and its Russian translation.
type VocabPair struct {
	De string `json:"de"`
	Ru string `json:"ru"`
}

type Lesson struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Level     string          `json:"level"`
	Intro     string          `json:"intro"`
	Theory    []TheoryItem    `json:"theory,omitempty"`
	Vocab     []VocabPair     `json:"vocab,omitempty"`
	Exercises []exercise.Spec `json:"exercises"`
}

type Rule struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Level     string          `json:"level"`
	Intro     string          `json:"intro"`
	Theory    []TheoryItem    `json:"theory,omitempty"`
	Exercises []exercise.Spec `json:"exercises"`
}

// Practice describes an endless generated drill over completed lessons.
type Practice struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	Type           string   `json:"type"` // "sentence_build" or "translate_words"
	BasedOnLessons []string `json:"based_on_lessons"`
}

type LessonsFile struct {
	Lessons []Lesson `json:"lessons"`
}

type RulesFile struct {
	Grammar   []Rule `json:"grammar"`
	Listening []Rule `json:"listening"`
}

type PracticeFile struct {
	Practices []Practice `json:"practices"`
}
