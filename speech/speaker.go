package speech

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Voice is one synthesizer voice, identified by name and BCP-47 tag.
type Voice struct {
	Name string
	Lang string
}

// Utterance is one request to speak.
type Utterance struct {
	Text   string
	Lang   string
	Voice  *Voice
	Volume float64 // 0..1; a volume-0 utterance is the warm-up probe
}

// Synthesizer is the external text-to-speech capability. Voice lists load
// asynchronously and inconsistently across hosts: Voices may be empty for a
// while, and Changed signals when the list updates.
type Synthesizer interface {
	Voices() []Voice
	// Changed receives a signal whenever the voice list changes.
	Changed() <-chan struct{}
	// Speak starts the utterance and, when done is non-nil, calls it
	// (possibly from another goroutine) when it finishes or fails.
	Speak(u Utterance, done func(error))
	// Cancel stops any in-flight utterance.
	Cancel()
}

const pollInterval = 200 * time.Millisecond

// Speaker owns the voice cache and loaded flag for one target language.
// One instance per server; no package globals.
type Speaker struct {
	synth      Synthesizer
	langPrefix string
	lang       string

	mu     sync.Mutex
	voices []Voice
	loaded bool
}

// NewSpeaker wires a synthesizer for a fixed target language tag such as
// "de-DE". synth may be nil; every method then degrades to a no-op.
func NewSpeaker(synth Synthesizer, lang string) *Speaker {
	prefix := lang
	if i := strings.IndexByte(lang, '-'); i > 0 {
		prefix = lang[:i]
	}
	return &Speaker{synth: synth, lang: lang, langPrefix: strings.ToLower(prefix)}
}

// Available reports whether a synthesizer is present at all.
func (s *Speaker) Available() bool { return s.synth != nil }

// Voices returns the cached matching voices.
func (s *Speaker) Voices() []Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Voice, len(s.voices))
	copy(out, s.voices)
	return out
}

// LoadVoices waits for voices matching the target language prefix, racing
// the synthesizer's change signal against polling and the timeout. It
// returns whatever matches by then — possibly nothing — and never fails.
func (s *Speaker) LoadVoices(ctx context.Context, timeout time.Duration) []Voice {
	if s.synth == nil {
		return nil
	}
	if got := s.tryCache(); got != nil {
		return got
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.synth.Changed():
			if got := s.tryCache(); got != nil {
				return got
			}
		case <-ticker.C:
			if got := s.tryCache(); got != nil {
				return got
			}
		case <-deadline.C:
			// Timed out: take whatever is there, matching or not loaded.
			s.tryCache()
			return s.Voices()
		case <-ctx.Done():
			return s.Voices()
		}
	}
}

// tryCache filters the current voice list by language prefix and caches a
// non-empty result. Returns nil when nothing matched yet.
func (s *Speaker) tryCache() []Voice {
	var matched []Voice
	for _, v := range s.synth.Voices() {
		if strings.HasPrefix(strings.ToLower(v.Lang), s.langPrefix) {
			matched = append(matched, v)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	s.mu.Lock()
	s.voices = matched
	s.loaded = true
	s.mu.Unlock()
	return matched
}

// WarmUp issues a near-silent utterance to coax lazy engines into
// readiness. It resolves on the completion event or the timeout, whichever
// comes first, and never blocks past the timeout.
func (s *Speaker) WarmUp(timeout time.Duration) bool {
	if s.synth == nil {
		return false
	}
	done := make(chan error, 1)
	s.synth.Speak(Utterance{Text: " ", Lang: s.lang, Volume: 0}, func(err error) {
		select {
		case done <- err:
		default:
		}
	})
	select {
	case err := <-done:
		return err == nil
	case <-time.After(timeout):
		return true
	}
}

// Speak synthesizes text in the target language, preferring the first
// cached matching voice. Any in-flight utterance is cancelled first, so at
// most one utterance plays system-wide.
func (s *Speaker) Speak(text string) {
	if s.synth == nil {
		return
	}
	u := Utterance{Text: text, Lang: s.lang, Volume: 1}
	s.mu.Lock()
	if s.loaded && len(s.voices) > 0 {
		v := s.voices[0]
		u.Voice = &v
	}
	s.mu.Unlock()

	s.synth.Cancel()
	s.synth.Speak(u, nil)
}
