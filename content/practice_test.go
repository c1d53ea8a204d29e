package content

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berlingo_backend/exercise"
	"berlingo_backend/models"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := writeContent(t, lessonsJSON, rulesJSON, practiceJSON)
	cat, err := Load(context.Background(), dir)
	require.NoError(t, err)
	return cat
}

func TestGenerateSentenceBuild(t *testing.T) {
	cat := loadTestCatalog(t)
	p, ok := cat.Practice("practice_1")
	require.True(t, ok)

	ex := GeneratePractice(cat, p, rand.New(rand.NewSource(1)))
	re, ok := ex.(*exercise.Reorder)
	require.True(t, ok)
	// lesson_1 contributes exactly one reorder sentence
	assert.Equal(t, []string{"Ich", "heiße", "Anna"}, re.Correct)
	assert.Equal(t, re.Correct, re.Pieces)
}

func TestGenerateSentenceBuildFallback(t *testing.T) {
	cat := loadTestCatalog(t)
	p := &models.Practice{ID: "p", Type: "sentence_build", BasedOnLessons: []string{"lesson_2"}}

	ex := GeneratePractice(cat, p, rand.New(rand.NewSource(1)))
	re, ok := ex.(*exercise.Reorder)
	require.True(t, ok)
	assert.Equal(t, fallbackPhrase, strings.Join(re.Correct, " "))
}

func TestGenerateTranslateWords(t *testing.T) {
	cat := loadTestCatalog(t)
	p := &models.Practice{ID: "p", Type: "translate_words", BasedOnLessons: []string{"lesson_1"}}

	ex := GeneratePractice(cat, p, rand.New(rand.NewSource(1)))
	in, ok := ex.(*exercise.Input)
	require.True(t, ok)
	assert.Equal(t, "Переведи 'Привет' на немецкий:", in.Question)
	assert.Equal(t, "Hallo", in.Answer)
}

func TestGenerateTranslateWordsFallback(t *testing.T) {
	cat := loadTestCatalog(t)
	p := &models.Practice{ID: "p", Type: "translate_words", BasedOnLessons: nil}

	ex := GeneratePractice(cat, p, rand.New(rand.NewSource(1)))
	in, ok := ex.(*exercise.Input)
	require.True(t, ok)
	assert.Equal(t, fallbackVocab.De, in.Answer)
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	cat := loadTestCatalog(t)
	p := &models.Practice{ID: "p", Type: "translate_words", BasedOnLessons: []string{"lesson_1", "lesson_2"}}

	a := GeneratePractice(cat, p, rand.New(rand.NewSource(42)))
	b := GeneratePractice(cat, p, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}
