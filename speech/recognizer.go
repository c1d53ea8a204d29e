package speech

import "context"

// Recognizer is the external speech-to-text capability used by pronounce
// exercises. It is optional: callers probe for nil before offering the
// microphone control. There is no cancel; a started attempt runs until a
// result or an error.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, encoding string) (string, error)
}
