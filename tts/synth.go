package tts

import (
	"context"
	"sync"
	"time"

	"berlingo_backend/speech"
)

// Synth adapts Client to the speech.Synthesizer interface. The voice list
// loads in the background after construction, mirroring hosts that populate
// voices asynchronously; Changed signals when it lands.
type Synth struct {
	client *Client
	lang   string

	mu      sync.Mutex
	voices  []speech.Voice
	changed chan struct{}

	speakMu sync.Mutex
	cancel  context.CancelFunc // cancels the in-flight utterance
}

func NewSynth(client *Client, lang string) *Synth {
	s := &Synth{
		client:  client,
		lang:    lang,
		changed: make(chan struct{}, 1),
	}
	if client.Enabled() {
		go s.loadVoices()
	}
	return s
}

func (s *Synth) loadVoices() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	remote, err := s.client.ListVoices(ctx, s.lang)
	if err != nil {
		return
	}
	voices := make([]speech.Voice, 0, len(remote))
	for _, v := range remote {
		voices = append(voices, speech.Voice{Name: v.Name, Lang: v.Lang})
	}

	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()

	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Synth) Voices() []speech.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]speech.Voice, len(s.voices))
	copy(out, s.voices)
	return out
}

func (s *Synth) Changed() <-chan struct{} { return s.changed }

// Speak synthesizes the utterance into the audio cache so the client's
// next fetch plays instantly. A volume-0 utterance is the warm-up probe: it
// only exercises the pipeline.
func (s *Synth) Speak(u speech.Utterance, done func(error)) {
	ctx, cancel := context.WithCancel(context.Background())

	s.speakMu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.speakMu.Unlock()

	go func() {
		defer cancel()
		var err error
		if u.Text != "" && u.Text != " " {
			_, _, err = s.client.GetAudio(ctx, u.Text, u.Lang)
		}
		if done != nil {
			done(err)
		}
	}()
}

// Cancel stops the in-flight utterance, if any.
func (s *Synth) Cancel() {
	s.speakMu.Lock()
	defer s.speakMu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
