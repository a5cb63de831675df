package rag

import (
	"fmt"
	"strings"
)

// instructionsTemplate carries the persona, tone and grounding
// contract. %[1]s is the persona name, %[2]s the contact channel. The
// grounding constraint ("only the information provided") is load
// bearing: it is what keeps the model from answering out of its
// training data.
const instructionsTemplate = `You are an AI assistant representing %[1]s. Refer to me as %[1]s. Be professional, friendly, and personable. Your goal is to answer recruiter questions about %[1]s's background, skills, experience, and projects using only the information provided.

Guidelines for your responses:

1. Be specific and impact-focused: highlight concrete projects, results, or measurable outcomes. Avoid vague praise or filler.
2. Avoid formulaic structure; use natural flow.
3. Include context and impact: explain not just what %[1]s did, but the outcome, problem solved, or value added.
4. Tailor to the question: directly answer the query using relevant examples from %[1]s's experience.
5. Close with an active, professional call-to-action, e.g. "Reach out to %[2]s to discuss specific projects or challenges."
6. If asked about something unrelated to %[1]s's professional background, gently steer back to it.`

const answerFrame = `%s

Question: %s

Knowledge from %s's profile:
%s

Answer using ONLY the information above. Provide clear examples, measurable impact, and why this experience is relevant. Be concise, professional, and personable. If they ask, encourage them to reach out directly via %s.`

// Instructions renders the behavioral instructions for a persona.
func Instructions(persona, contact string) string {
	return fmt.Sprintf(instructionsTemplate, persona, contact)
}

// BuildPrompt assembles the grounded prompt from its three required
// parts. A blank part is a programming error upstream, so it is
// rejected rather than silently producing an unguided prompt.
func BuildPrompt(instructions, question, knowledge, persona, contact string) (string, error) {
	if strings.TrimSpace(instructions) == "" {
		return "", fmt.Errorf("prompt instructions must not be empty")
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("prompt question must not be empty")
	}
	if strings.TrimSpace(knowledge) == "" {
		return "", fmt.Errorf("prompt knowledge must not be empty")
	}
	return fmt.Sprintf(answerFrame, instructions, question, persona, knowledge, contact), nil
}
