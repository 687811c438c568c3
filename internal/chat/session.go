// internal/chat/session.go
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/common/metrics"

	"github.com/google/uuid"
)

const greeting = "Hello! I'm your AI business assistant. I can help you validate ideas, analyze markets, create business models, and provide strategic guidance. What would you like to explore today?"

var greetingSuggestions = []string{
	"Analyze my eco-packaging idea",
	"What's the market size for language learning apps?",
	"Help me create a business model",
	"Show me competitor analysis",
}

// Previewer resolves a local preview reference for a staged attachment and
// releases it when the attachment is unstaged or the session closes.
type Previewer interface {
	Resolve(file FileMeta) string
	Release(ref string)
}

type defaultPreviewer struct{}

func (defaultPreviewer) Resolve(file FileMeta) string { return "preview://" + uuid.NewString() }
func (defaultPreviewer) Release(ref string)           {}

// Config carries session construction options.
type Config struct {
	// SeedPrompt, when set, is sent exactly once shortly after Start so the
	// greeting renders first. Remounts never re-trigger it.
	SeedPrompt string
	SeedDelay  time.Duration
	// SimulatedLatency is the pause before the assistant reply appears.
	SimulatedLatency time.Duration
	Previewer        Previewer
}

// Session maintains one ordered chat conversation. Sessions are
// independent per mounting context: two sessions share nothing and have no
// ordering relationship. Within a session the assistant reply always
// follows its triggering user message.
type Session struct {
	mu sync.Mutex

	cfg       Config
	responder Responder
	logger    logger.Logger

	messages []Message
	draft    string
	busy     bool
	sent     int
	pending  []PendingImage

	seedOnce sync.Once
	closed   bool
	inflight sync.WaitGroup
}

func NewSession(cfg Config, responder Responder, log logger.Logger) *Session {
	if cfg.Previewer == nil {
		cfg.Previewer = defaultPreviewer{}
	}
	s := &Session{
		cfg:       cfg,
		responder: responder,
		logger:    log.WithFields(map[string]interface{}{"component": "chat"}),
	}
	s.messages = []Message{{
		ID:          uuid.NewString(),
		Sender:      SenderAssistant,
		Content:     greeting,
		Timestamp:   time.Now(),
		Suggestions: append([]string(nil), greetingSuggestions...),
	}}
	return s
}

// Start arms the one-shot auto-seed. Calling it again (a remount with the
// same prompt value) never re-triggers the seed.
func (s *Session) Start() {
	if s.cfg.SeedPrompt == "" {
		return
	}
	s.seedOnce.Do(func() {
		s.inflight.Add(1)
		time.AfterFunc(s.cfg.SeedDelay, func() {
			defer s.inflight.Done()
			s.Send(context.Background(), s.cfg.SeedPrompt)
		})
	})
}

// SetDraft updates the current input text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the current input text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SendDraft sends whatever is currently typed.
func (s *Session) SendDraft(ctx context.Context) {
	s.Send(ctx, s.Draft())
}

// Send appends a user message carrying any staged attachments, clears the
// draft and staged list, and schedules one assistant reply after the
// simulated latency. Blank text with nothing staged is a no-op.
func (s *Session) Send(ctx context.Context, text string) {
	content := strings.TrimSpace(text)

	s.mu.Lock()
	if s.closed || (content == "" && len(s.pending) == 0) {
		s.mu.Unlock()
		return
	}

	images := make([]MessageImage, 0, len(s.pending))
	for _, p := range s.pending {
		images = append(images, MessageImage{ID: p.ID, URL: p.URL, FileName: p.FileName})
	}

	s.messages = append(s.messages, Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Content:   content,
		Timestamp: time.Now(),
		Images:    images,
	})
	s.draft = ""
	s.pending = nil
	s.busy = true
	s.sent++
	s.mu.Unlock()

	metrics.ChatMessagesTotal.WithLabelValues(string(SenderUser)).Inc()

	s.inflight.Add(1)
	time.AfterFunc(s.cfg.SimulatedLatency, func() {
		defer s.inflight.Done()
		s.appendReply(content)
	})
}

// appendReply produces the assistant turn. A session closed while the
// latency timer was pending discards the reply instead of mutating state.
func (s *Session) appendReply(userInput string) {
	reply, err := s.responder.Respond(context.Background(), userInput)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.busy = false
	if err != nil {
		s.logger.Warn("assistant turn failed", map[string]interface{}{"error": err.Error()})
		return
	}

	s.messages = append(s.messages, Message{
		ID:          uuid.NewString(),
		Sender:      SenderAssistant,
		Content:     reply.Content,
		Timestamp:   time.Now(),
		Suggestions: reply.Suggestions,
	})
	metrics.ChatMessagesTotal.WithLabelValues(string(SenderAssistant)).Inc()
}

// StageAttachment stages a picked file. Files whose media type is not an
// image are silently skipped.
func (s *Session) StageAttachment(file FileMeta) {
	if !strings.HasPrefix(file.MediaType, "image/") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, PendingImage{
		ID:       uuid.NewString(),
		URL:      s.cfg.Previewer.Resolve(file),
		FileName: file.Name,
	})
}

// Unstage removes a staged attachment and releases its preview reference.
func (s *Session) Unstage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p.ID == id {
			s.cfg.Previewer.Release(p.URL)
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Close marks the hosting view unmounted. Pending timers and in-flight
// replies are discarded rather than mutating a dead session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, p := range s.pending {
		s.cfg.Previewer.Release(p.URL)
	}
	s.pending = nil
}

// Messages returns a snapshot of the conversation in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending returns a snapshot of staged attachments.
func (s *Session) Pending() []PendingImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingImage, len(s.pending))
	copy(out, s.pending)
	return out
}

// Busy reports whether an assistant reply is pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SentCount returns how many user messages this session has sent.
func (s *Session) SentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Wait blocks until every scheduled timer and reply has settled. Test
// hook; production callers never need it.
func (s *Session) Wait() {
	s.inflight.Wait()
}
