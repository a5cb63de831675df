package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptContainsAllParts(t *testing.T) {
	instructions := Instructions("Alex", "alex@example.com")
	prompt, err := BuildPrompt(instructions, "what did you build?", "Built a search engine", "Alex", "alex@example.com")
	require.NoError(t, err)

	assert.Contains(t, prompt, "what did you build?")
	assert.Contains(t, prompt, "Built a search engine")
	assert.Contains(t, prompt, "representing Alex")
	assert.Contains(t, prompt, "alex@example.com")
	assert.Contains(t, prompt, "ONLY the information above")
}

func TestBuildPromptRejectsBlankParts(t *testing.T) {
	instructions := Instructions("Alex", "alex@example.com")

	_, err := BuildPrompt("", "q", "k", "Alex", "alex@example.com")
	assert.Error(t, err)
	_, err = BuildPrompt(instructions, "  ", "k", "Alex", "alex@example.com")
	assert.Error(t, err)
	_, err = BuildPrompt(instructions, "q", "\n\t", "Alex", "alex@example.com")
	assert.Error(t, err)
}

func TestInstructionsCarryGroundingConstraint(t *testing.T) {
	instructions := Instructions("Alex", "alex@example.com")
	assert.Contains(t, instructions, "using only the information provided")
}
