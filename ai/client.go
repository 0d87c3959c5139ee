// Package ai wraps the language-model API behind the portal's three
// assistance operations: report summarization, FAQ chat, and medical term
// explanation.
package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Assistant is the surface the handlers depend on, kept narrow so tests can
// stub it.
type Assistant interface {
	SummarizeReport(ctx context.Context, reportText, reportType string) (string, error)
	Chat(ctx context.Context, message, chatContext string) (string, error)
	ExplainTerms(ctx context.Context, terms []string) (string, error)
}

// Client calls an OpenAI-compatible chat-completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient returns a client for the given API key, or nil when no key is
// configured so callers can surface "service unavailable" instead of failing
// requests downstream.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: openai.GPT3Dot5Turbo,
	}
}

// NewClientWithConfig returns a client against a custom endpoint. Used by
// tests and OpenAI-compatible proxies.
func NewClientWithConfig(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: openai.GPT3Dot5Turbo,
	}
}

// SummarizeReport rewrites a medical report in patient-friendly language.
func (c *Client) SummarizeReport(ctx context.Context, reportText, reportType string) (string, error) {
	return c.complete(ctx, nil, summaryPrompt(reportText, reportType), 500, 0.3)
}

// Chat answers a patient FAQ message.
func (c *Client) Chat(ctx context.Context, message, chatContext string) (string, error) {
	return c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt(chatContext)},
	}, message, 300, 0.7)
}

// ExplainTerms explains a list of medical terms in simple language.
func (c *Client) ExplainTerms(ctx context.Context, terms []string) (string, error) {
	return c.complete(ctx, nil, explainTermsPrompt(terms), 400, 0.3)
}

func (c *Client) complete(ctx context.Context, system []openai.ChatCompletionMessage, user string, maxTokens int, temperature float32) (string, error) {
	messages := append(system, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func summaryPrompt(reportText, reportType string) string {
	if reportType == "" {
		reportType = "medical"
	}
	return fmt.Sprintf(`Please summarize the following %s report in patient-friendly language.
Focus on key findings, recommendations, and any important medical terms that need explanation:

%s

Please provide:
1. A clear summary of the main findings
2. Any recommendations or next steps
3. Explanation of any complex medical terms`, reportType, reportText)
}

func chatSystemPrompt(chatContext string) string {
	if chatContext == "" {
		chatContext = "General medical inquiry"
	}
	return fmt.Sprintf(`You are a helpful medical assistant for MediPulse.
Provide helpful, accurate, and patient-friendly responses to medical questions.
Always remind users to consult with healthcare professionals for serious concerns.
Context: %s`, chatContext)
}

func explainTermsPrompt(terms []string) string {
	return fmt.Sprintf(`Please explain the following medical terms in simple, patient-friendly language:
%s

For each term, provide:
1. A simple definition
2. What it means for the patient
3. Any related information that might be helpful`, strings.Join(terms, ", "))
}
