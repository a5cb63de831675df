package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptOrder(t *testing.T) {
	s := New()
	s.AppendMessage(RoleUser, "hi")
	s.AppendMessage(RoleAssistant, "hello")
	s.AppendMessage(RoleUser, "what can you do?")

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{RoleUser, "hi"}, msgs[0])
	assert.Equal(t, Message{RoleAssistant, "hello"}, msgs[1])
	assert.Equal(t, Message{RoleUser, "what can you do?"}, msgs[2])
}

func TestClearResetsBoth(t *testing.T) {
	s := New()
	s.AppendMessage(RoleUser, "hi")
	s.AppendUnanswered("unknown thing")

	s.Clear()

	assert.Empty(t, s.Messages())
	assert.Empty(t, s.Unanswered())
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := New()
	s.AppendMessage(RoleUser, "hi")
	s.AppendUnanswered("q")

	msgs := s.Messages()
	msgs[0].Content = "mutated"
	unanswered := s.Unanswered()
	unanswered[0] = "mutated"

	assert.Equal(t, "hi", s.Messages()[0].Content)
	assert.Equal(t, "q", s.Unanswered()[0])
}
