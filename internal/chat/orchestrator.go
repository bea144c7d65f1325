package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is one entry in a session's ordered log.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LLM is the collaborator answering laundry questions.
type LLM interface {
	AskLaundryBot(ctx context.Context, question string) (string, error)
	AnalyzeClothingImage(ctx context.Context, imageDataURI string) (string, error)
}

// session holds one resident's conversation. Logs live in memory only
// and vanish on restart.
type session struct {
	mu       sync.Mutex
	inFlight bool
	messages []Message
}

// Orchestrator owns the per-session message logs. A session is either
// idle or awaiting a reply; a send while awaiting is rejected with
// ErrExchangeInFlight, and every accepted send appends exactly one
// assistant message, even on failure.
type Orchestrator struct {
	mu       sync.Mutex
	sessions map[string]*session
	llm      LLM
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given collaborator.
func NewOrchestrator(llm LLM, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		sessions: make(map[string]*session),
		llm:      llm,
		logger:   logger,
	}
}

// session returns the log for the id, creating it with the welcome
// message on first use.
func (o *Orchestrator) session(id string) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		s = &session{messages: []Message{{
			ID:        uuid.NewString(),
			Text:      WelcomeMessage,
			IsUser:    false,
			CreatedAt: time.Now().UTC(),
		}}}
		o.sessions[id] = s
	}
	return s
}

// SendText forwards a question to the model and returns the appended
// assistant message.
func (o *Orchestrator) SendText(ctx context.Context, sessionID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s := o.session(sessionID)
	if err := s.begin(Message{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    true,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return Message{}, err
	}

	reply, err := o.llm.AskLaundryBot(ctx, text)
	if err != nil {
		o.logger.Warn("laundry bot request failed",
			zap.String("session", sessionID), zap.Error(err))
		reply = failureReply(err, false)
	}
	return s.finish(reply), nil
}

// SendImage forwards a garment photo for analysis and returns the
// appended assistant message.
func (o *Orchestrator) SendImage(ctx context.Context, sessionID, imageDataURI string) (Message, error) {
	if strings.TrimSpace(imageDataURI) == "" {
		return Message{}, ErrEmptyMessage
	}

	s := o.session(sessionID)
	if err := s.begin(Message{
		ID:        uuid.NewString(),
		IsUser:    true,
		Image:     imageDataURI,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return Message{}, err
	}

	reply, err := o.llm.AnalyzeClothingImage(ctx, imageDataURI)
	if err != nil {
		o.logger.Warn("image analysis failed",
			zap.String("session", sessionID), zap.Error(err))
		reply = failureReply(err, true)
	}
	return s.finish(reply), nil
}

// Messages returns a copy of the session's ordered log.
func (o *Orchestrator) Messages(sessionID string) []Message {
	s := o.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// begin moves the session to awaiting-reply and appends the user
// message, or reports that an exchange is already running.
func (s *session) begin(userMsg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrExchangeInFlight
	}
	s.inFlight = true
	s.messages = append(s.messages, userMsg)
	return nil
}

// finish appends the assistant reply and returns the session to idle.
func (s *session) finish(reply string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Text:      reply,
		IsUser:    false,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.inFlight = false
	s.mu.Unlock()
	return msg
}

// failureReply picks the user-visible text for a failed exchange.
func failureReply(err error, image bool) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Class {
		case FailureAuthentication:
			return "The laundry assistant isn't set up correctly right now. Please try again later."
		case FailureMalformedInput:
			if image {
				return "I couldn't analyze the image. Please ensure it's a clear picture of clothing and try again."
			}
			return "I couldn't make sense of that request. Please rephrase your question and try again."
		}
	}
	if image {
		return "I'm having trouble analyzing this image. Please check your internet connection and try again, " +
			"or make sure the image clearly shows a clothing item."
	}
	return "I'm having trouble getting an answer right now. Please check your internet connection and try again."
}
