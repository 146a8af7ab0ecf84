// Package prompts holds the instruction templates sent to the completion
// provider. The wording is part of the assistant's observable behavior:
// answers must come only from the supplied context, and InsufficientContext
// is the exact sentence used when the context does not support an answer.
package prompts

import (
	"fmt"
	"strings"

	"rulebot/internal/domain"
)

// InsufficientContext is the fixed sentence the model is instructed to
// return when the retrieved context cannot answer the question.
const InsufficientContext = "I don't have enough information to answer that question based on the provided context."

const answerSystem = `You are an expert NFL rulebook assistant specializing in concise, accurate answers.
Your primary function is to provide clear and precise responses to questions about NFL rules and regulations.
Key Instructions:
1. Analyze the provided context carefully.
2. Use only the given context to formulate your answer. Do not rely on external knowledge.
3. If the context doesn't contain sufficient information to answer the question, respond with '%s'
4. Limit your response to a maximum of three sentences.
5. Prioritize clarity and accuracy over exhaustive explanations.
6. If relevant, cite the specific NFL rule or section number.
7. Avoid speculation or personal opinions.

Context:
%s`

const rewriteSystem = `You are an AI assistant specializing in contextual analysis and question reformulation for an NFL rulebook system. Your task is to:

1. Carefully analyze the provided chat history and the latest user question.
2. Identify any contextual references or implied information from the chat history that are relevant to the latest question.
3. Reformulate the question into a standalone format that incorporates all necessary context.
4. Ensure the reformulated question can be fully understood without access to the chat history.
5. If the original question is already standalone and doesn't require additional context, return it unchanged.

Key Instructions:
- Focus solely on reformulation; do not attempt to answer the question.
- Maintain the original intent and scope of the question.
- Use clear, concise language appropriate for an NFL rulebook context.
- Include specific NFL terminology or references if they were part of the original context.

Example:
Original: "What's the penalty for that?"
Reformulated: "What is the specific penalty for defensive pass interference in the NFL?"

Output: Provide only the reformulated question or the original question if no reformulation is needed. Do not include any explanations or additional commentary.`

// ContextBlock joins retrieved chunk texts into the grounded context block.
func ContextBlock(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	return strings.Join(texts, "\n")
}

// AnswerMessages builds the grounded-answer conversation: the instruction
// system prompt with the context block filled in, the session history, and
// the question as the final user message.
func AnswerMessages(contextBlock, question string, history []domain.Message) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(answerSystem, InsufficientContext, contextBlock),
	})
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: question})
	return messages
}

// RewriteMessages builds the question-reformulation conversation.
func RewriteMessages(question string, history []domain.Message) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: rewriteSystem})
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: question})
	return messages
}
