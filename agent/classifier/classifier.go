// Package classifier assigns one of the fixed support intents to each
// incoming customer message using an LLM call.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
	promptx "github.com/techmart/support-chat/agent/prompt"
)

type Config struct {
	MaxTokens   int64   `envconfig:"MAX_TOKENS" split_words:"true" default:"150"`
	Temperature float64 `envconfig:"TEMPERATURE" split_words:"true" default:"0.1"`
}

// ChatCompleter is the slice of the OpenAI SDK the classifier needs.
// *openaisdk.ChatCompletionService satisfies it.
type ChatCompleter interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

type Classifier struct {
	completions  ChatCompleter
	model        string
	maxTokens    int64
	temperature  float64
	systemPrompt string
}

var _ contractx.Classifier = (*Classifier)(nil)

func New(completions ChatCompleter, model string, cfg Config) (*Classifier, error) {
	if completions == nil {
		return nil, fmt.Errorf("%w: chat completions client is required", contractx.ErrValidation)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}

	return &Classifier{
		completions:  completions,
		model:        model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		systemPrompt: promptx.IntentClassifier(),
	}, nil
}

// Classify never fails past its boundary: any transport or schema problem
// degrades to the OTHER fallback so callers can treat classification as
// always available.
func (c *Classifier) Classify(ctx context.Context, message, customerID string) contractx.ClassificationResult {
	userPrompt := fmt.Sprintf("Customer: %s\nMessage: %s", customerID, message)

	resp, err := c.completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(c.systemPrompt),
			openaisdk.UserMessage(userPrompt),
		},
		MaxTokens:   openaisdk.Int(c.maxTokens),
		Temperature: openaisdk.Float(c.temperature),
	})
	if err != nil {
		log.Warn().
			Err(fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)).
			Str("customer", customerID).
			Msg("intent classification failed")
		return fallbackResult()
	}
	if len(resp.Choices) == 0 {
		log.Warn().Str("customer", customerID).Msg("intent classification returned no choices")
		return fallbackResult()
	}

	log.Debug().
		Int64("prompt_tokens", resp.Usage.PromptTokens).
		Int64("completion_tokens", resp.Usage.CompletionTokens).
		Msg("classification token usage")

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn().Err(err).Str("customer", customerID).Msg("intent verdict rejected")
		return fallbackResult()
	}

	log.Info().
		Str("intent", string(verdict.Intent)).
		Float64("confidence", verdict.Confidence).
		Strs("entities", verdict.Entities).
		Msg("intent classified")
	return verdict
}

// parseVerdict expects the entire completion to be a single JSON object
// with the four verdict fields. Labels outside the closed category set and
// confidences outside [0,1] are rejected rather than passed through.
func parseVerdict(content string) (contractx.ClassificationResult, error) {
	var verdict contractx.ClassificationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &verdict); err != nil {
		return contractx.ClassificationResult{}, fmt.Errorf("%w: decode verdict: %v", contractx.ErrSchemaViolation, err)
	}
	if !verdict.Intent.Valid() {
		return contractx.ClassificationResult{}, fmt.Errorf("%w: unknown category %q", contractx.ErrSchemaViolation, verdict.Intent)
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return contractx.ClassificationResult{}, fmt.Errorf("%w: confidence %v out of range", contractx.ErrSchemaViolation, verdict.Confidence)
	}
	if verdict.Entities == nil {
		verdict.Entities = []string{}
	}
	return verdict, nil
}

func fallbackResult() contractx.ClassificationResult {
	return contractx.ClassificationResult{
		Intent:     contractx.IntentOther,
		Confidence: 0.5,
		Entities:   []string{},
		Reasoning:  "Classification failed",
	}
}
