package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ptaero/aerosite/internal/i18n"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider translates through the OpenAI chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider with the given key and
// model name.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Translate implements Provider.
func (p *OpenAIProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	system := fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Return only the translation, with no commentary and no quotes.",
		languageName(source), languageName(target))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai translate: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// languageName spells out a provider language code for the prompt.
func languageName(code string) string {
	switch strings.ToLower(code) {
	case "zh-cn":
		return "Simplified Chinese"
	default:
		return i18n.Label(strings.ToLower(code))
	}
}
