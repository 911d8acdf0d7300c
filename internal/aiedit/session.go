// Package aiedit runs the conversational image-edit loop: one image
// and one instruction per turn, a linear undoable history of results,
// and a transcript of what happened.
package aiedit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"arteideas-backend/internal/photo"
)

type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

const (
	greetingText = `Hola, soy tu asistente creativo. Dime qué quieres cambiar de la foto (ej: "Ponle un sombrero", "Cambia el fondo a una playa").`
	confirmText  = "¡He actualizado la imagen según tus instrucciones!"
	noImageText  = "Lo siento, no pude generar la imagen. Intenta con otra instrucción."
	errorText    = "Ocurrió un error al procesar tu solicitud."
)

// ImageEditor is the narrow boundary to the image-generation service.
// A nil image with a nil error means the service answered without an
// image, which the session treats as a soft failure.
type ImageEditor interface {
	EditImage(ctx context.Context, img photo.Image, instruction string) (*photo.Image, error)
}

type Message struct {
	Role string // "user" or "model"
	Text string
}

// Session holds one edit conversation. History is append-only and
// index 0 is always the image the session started from; selecting an
// older entry never truncates it.
type Session struct {
	mu         sync.Mutex
	editor     ImageEditor
	timeout    time.Duration
	state      State
	history    []photo.Image
	transcript []Message
	current    int
}

func NewSession(editor ImageEditor, initial photo.Image, timeout time.Duration) *Session {
	return &Session{
		editor:     editor,
		timeout:    timeout,
		state:      StateIdle,
		history:    []photo.Image{initial},
		transcript: []Message{{Role: "model", Text: greetingText}},
		current:    0,
	}
}

// Send runs one edit turn. It reports false, without any observable
// effect, when the instruction is blank or a request is already in
// flight. Otherwise it blocks until the turn resolves; every failure
// path resolves back to Idle with a transcript entry, so the session
// stays usable.
func (s *Session) Send(ctx context.Context, instruction string) bool {
	s.mu.Lock()
	if s.state == StateSending || isBlank(instruction) {
		s.mu.Unlock()
		return false
	}
	s.state = StateSending
	s.transcript = append(s.transcript, Message{Role: "user", Text: instruction})
	img := s.history[s.current]
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	edited, err := s.editor.EditImage(ctx, img, instruction)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	switch {
	case err != nil:
		s.transcript = append(s.transcript, Message{Role: "model", Text: errorText})
	case edited == nil:
		s.transcript = append(s.transcript, Message{Role: "model", Text: noImageText})
	default:
		s.history = append(s.history, *edited)
		s.current = len(s.history) - 1
		s.transcript = append(s.transcript, Message{Role: "model", Text: confirmText})
	}
	return true
}

// SelectHistory makes history[index] the active image for the next
// turn. History itself is untouched.
func (s *Session) SelectHistory(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.history) {
		return fmt.Errorf("history index %d out of range [0, %d)", index, len(s.history))
	}
	s.current = index
	return nil
}

// Commit returns the active image for reintegration into the
// customizer.
func (s *Session) Commit() photo.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[s.current]
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) HistorySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
