// Package tutor runs a tutoring conversation about a set of cards.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/quizgpt/internal/inference"
	"github.com/at-ishikawa/quizgpt/internal/prompt"
	"github.com/at-ishikawa/quizgpt/internal/studyset"
	"github.com/google/uuid"
)

const (
	DefaultStudentName = "Student"

	MessageAIDisabled     = "AI features are currently disabled."
	MessageNoCards        = "No cards to tutor on."
	MessageNoStarredCards = "No starred cards found."
	replyPlaceholder      = "..."
)

var (
	ErrBusy  = errors.New("tutor is waiting for a reply")
	ErrStale = errors.New("tutor session was ended")
)

type Message struct {
	ID        string
	Text      string
	IsUser    bool
	Timestamp time.Time
}

type State struct {
	Messages  []Message
	IsLoading bool
	// Error is a message for the student. Messages are kept when it is set.
	Error string
}

func (s State) clone() State {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}

type Session struct {
	client inference.Client
	now    func() time.Time
	newID  func() string

	mu         sync.Mutex
	state      State
	chat       inference.Chat
	generation uint64
}

func New(client inference.Client) *Session {
	return &Session{
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// IsActive reports whether a conversation is open.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat != nil
}

func (s *Session) message(text string, isUser bool) Message {
	return Message{
		ID:        s.newID(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: s.now(),
	}
}

// Start opens a new conversation and sends the material as its first turn.
// The reply of the model becomes the first message.
func (s *Session) Start(ctx context.Context, cards []studyset.Card, studentName string, starredOnly bool) error {
	s.mu.Lock()
	if s.state.IsLoading {
		s.mu.Unlock()
		return ErrBusy
	}

	if strings.TrimSpace(studentName) == "" {
		studentName = DefaultStudentName
	}
	text, err := s.prepare(cards, studentName, starredOnly)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	chat := s.client.NewChat()
	s.generation++
	token := s.generation
	s.chat = chat
	s.state = State{IsLoading: true}
	s.mu.Unlock()

	reply, err := chat.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		slog.Default().Debug("discard tutor greeting after the session ended", "generation", token)
		return ErrStale
	}
	if err != nil && !errors.Is(err, inference.ErrEmptyResponse) {
		s.chat = nil
		s.state = State{Error: "Failed to start tutor: " + err.Error()}
		return fmt.Errorf("chat.Send > %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = fmt.Sprintf("Hello %s! Ready to study? Let's begin.", studentName)
	}
	s.state = State{Messages: []Message{s.message(reply, false)}}
	return nil
}

// prepare validates the cards and builds the opening prompt. The caller holds the lock.
func (s *Session) prepare(cards []studyset.Card, studentName string, starredOnly bool) (string, error) {
	if inference.IsDisabled(s.client) {
		s.chat = nil
		s.state = State{Error: MessageAIDisabled}
		return "", inference.ErrDisabled
	}
	selected, err := studyset.SelectCards(cards, starredOnly)
	if err != nil {
		s.chat = nil
		if errors.Is(err, studyset.ErrNoStarredCards) {
			s.state = State{Error: MessageNoStarredCards}
		} else {
			s.state = State{Error: MessageNoCards}
		}
		return "", err
	}
	return prompt.TutorSystem(selected, studentName)
}

// SendMessage appends the student's message right away and then the reply.
// Blank text, or a session without an open conversation, is ignored.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	if strings.TrimSpace(text) == "" || s.chat == nil {
		s.mu.Unlock()
		return nil
	}
	if s.state.IsLoading {
		s.mu.Unlock()
		return ErrBusy
	}
	next := s.state.clone()
	next.Messages = append(next.Messages, s.message(text, true))
	next.IsLoading = true
	s.state = next
	token := s.generation
	chat := s.chat
	s.mu.Unlock()

	reply, err := chat.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		slog.Default().Debug("discard tutor reply after the session ended", "generation", token)
		return ErrStale
	}
	next = s.state.clone()
	next.IsLoading = false
	if err != nil && !errors.Is(err, inference.ErrEmptyResponse) {
		next.Error = "Error: " + err.Error()
		s.state = next
		return fmt.Errorf("chat.Send > %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = replyPlaceholder
	}
	next.Error = ""
	next.Messages = append(next.Messages, s.message(reply, false))
	s.state = next
	return nil
}

// End closes the conversation. A reply still in flight is discarded.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.chat = nil
	s.state = State{}
}
