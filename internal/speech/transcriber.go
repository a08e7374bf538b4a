// Package speech turns voice clips into text through a Whisper-compatible
// HTTP endpoint. The transcript is handed to the quick-add parser like any
// typed message.
package speech

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable means no transcription backend is configured. The bot
// degrades to a "voice unavailable" reply instead of failing the update.
var ErrUnavailable = errors.New("transcription unavailable")

// Transcriber converts an audio stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Disabled is the stub used when no speech backend is configured.
type Disabled struct{}

// Transcribe always reports ErrUnavailable.
func (Disabled) Transcribe(_ context.Context, _ io.Reader, _ string) (string, error) {
	return "", ErrUnavailable
}
