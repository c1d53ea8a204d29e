package content

import (
	"fmt"
	"math/rand"
	"strings"

	"berlingo_backend/exercise"
	"berlingo_backend/models"
)

// Fallbacks when the base lessons contribute no material yet.
var (
	fallbackPhrase = "Ich heiße Anna."
	fallbackVocab  = models.VocabPair{De: "Ich", Ru: "Я"}
)

// GeneratePractice builds the next endless-practice exercise from the
// material of the practice's base lessons. rng is injectable so drills are
// reproducible in tests.
func GeneratePractice(c *Catalog, p *models.Practice, rng *rand.Rand) exercise.Exercise {
	vocab, phrases := c.practiceMaterial(p)

	switch p.Type {
	default: // validated at load time; translate is the safe default
		fallthrough
	case "translate_words":
		pair := fallbackVocab
		if len(vocab) > 0 {
			pair = vocab[rng.Intn(len(vocab))]
		}
		return &exercise.Input{
			Question: fmt.Sprintf("Переведи '%s' на немецкий:", pair.Ru),
			Answer:   pair.De,
		}

	case "sentence_build":
		phrase := fallbackPhrase
		if len(phrases) > 0 {
			phrase = phrases[rng.Intn(len(phrases))]
		}
		words := strings.Fields(phrase)
		return &exercise.Reorder{
			Question: "Собери предложение",
			Pieces:   words,
			Correct:  words,
		}
	}
}

// practiceMaterial collects vocab pairs and full sentences from the base
// lessons. Sentences come from reorder and listen_type exercises; fill_blank
// templates are skipped because they contain holes.
func (c *Catalog) practiceMaterial(p *models.Practice) ([]models.VocabPair, []string) {
	var vocab []models.VocabPair
	var phrases []string
	for _, id := range p.BasedOnLessons {
		if lesson, ok := c.Lesson(id); ok {
			vocab = append(vocab, lesson.Vocab...)
		}
		for _, ex := range c.Exercises(id) {
			switch e := ex.(type) {
			case *exercise.Reorder:
				phrases = append(phrases, strings.Join(e.Correct, " "))
			case *exercise.ListenType:
				phrases = append(phrases, e.Phrase)
			}
		}
	}
	return vocab, phrases
}
