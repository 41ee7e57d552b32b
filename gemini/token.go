package gemini

import (
	"context"

	"github.com/fwojciec/webextract"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ webextract.TokenCounter = (*TokenCounter)(nil)

// TokenCounter estimates prompt sizes with the local Gemini tokenizer, so
// scrape statistics can report tokens without calling the API.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model. Models
// the local tokenizer does not know return an error.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return tc.count(text)
}

// CountPrompt counts the tokens of the full extraction prompt built for
// content and instruction.
func (tc *TokenCounter) CountPrompt(_ context.Context, content, instruction string) (int, error) {
	return tc.count(BuildUserPrompt(content, instruction))
}

func (tc *TokenCounter) count(text string) (int, error) {
	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
