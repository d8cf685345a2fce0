// Package tokenizer estimates how many LLM tokens a rendered tree occupies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

var (
	encodingForModel = tiktoken.EncodingForModel
	encodingByName   = tiktoken.GetEncoding
)

// NewCounter returns a Counter for the requested model together with the name of the encoding in use.
// Models unknown to tiktoken fall back to the cl100k_base encoding.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultModel
	}

	encoding, modelError := encodingForModel(model)
	if modelError == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: model}, model, nil
	}

	fallback, fallbackError := encodingByName(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	if fallback == nil {
		return nil, "", errors.New("initialize fallback tokenizer: nil encoding")
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}
