// Package tagging labels text chunks with a chat model: a short summary
// plus yes/no content tags used to locate prospectus and SAI sections.
package tagging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/sloppycoder/sec-doc-tool/config"
)

// MaxTextLength caps the prompt sent to the model. Abnormally large chunks
// are usually the product of upstream bugs and would blow the API token
// limit, so they are truncated instead.
const MaxTextLength = 4000

// ErrNotConfigured indicates tagging was invoked without a model set.
var ErrNotConfigured = errors.New("tagging model is not configured")

// Tagger labels chunks through an OpenAI-compatible chat endpoint.
type Tagger struct {
	client openai.Client
	model  string
}

// NewTagger builds a Tagger from config. The API base may point at any
// OpenAI-compatible server, including a local vLLM instance.
func NewTagger(cfg *config.Config) (*Tagger, error) {
	if cfg.TaggingModel == "" {
		return nil, ErrNotConfigured
	}

	var opts []option.RequestOption
	if cfg.TaggingAPIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.TaggingAPIKey))
	}
	if cfg.TaggingAPIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.TaggingAPIBase))
	}

	return &Tagger{
		client: openai.NewClient(opts...),
		model:  cfg.TaggingModel,
	}, nil
}

// Tag sends one chunk to the model and parses the response. Temperature is
// pinned to zero so repeated runs tag identically.
func (t *Tagger) Tag(ctx context.Context, text string) (Result, error) {
	formatted := strings.Replace(prompt, textPlaceholder, text, 1)
	if len(formatted) > MaxTextLength {
		log.Warn("text chunk truncated for tagging",
			"len", len(formatted), "head", formatted[:100])
		formatted = formatted[:MaxTextLength]
	}

	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(formatted),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return Result{}, fmt.Errorf("tagging chunk: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("tagging chunk: empty completion")
	}

	return ParseResponse(resp.Choices[0].Message.Content), nil
}
