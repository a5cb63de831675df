package session

import "sync"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    Role
	Content string
}

// Session holds the state of one user's interaction: the chat
// transcript and the questions retrieval could not answer. It lives
// only for the process; nothing is persisted. The mutex exists because
// the chat surface reads the transcript while the answer pipeline
// appends to it from a streaming goroutine.
type Session struct {
	mu         sync.Mutex
	messages   []Message
	unanswered []string
}

func New() *Session {
	return &Session{}
}

func (s *Session) AppendMessage(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: role, Content: content})
}

func (s *Session) AppendUnanswered(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unanswered = append(s.unanswered, question)
}

// Clear resets the transcript and the unanswered list.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.unanswered = nil
}

// Messages returns a copy of the transcript in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Unanswered returns a copy of the unanswered questions in append order.
func (s *Session) Unanswered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.unanswered))
	copy(out, s.unanswered)
	return out
}
