package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/webextract"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ProviderRetryAfter is reported with EQUOTA errors raised by the provider,
// which does not say when the limit resets.
const ProviderRetryAfter = time.Minute

// Ensure Asker implements webextract.Asker at compile time.
var _ webextract.Asker = (*Asker)(nil)

// Asker implements webextract.Asker using Google Gemini.
type Asker struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// Option configures an Asker.
type Option func(*Asker)

// WithModel sets the Gemini model name.
func WithModel(name string) Option {
	return func(a *Asker) {
		if name != "" {
			a.model = name
		}
	}
}

// WithMinInterval spaces consecutive calls at least d apart. Waiting is
// bounded by the call's context. Zero disables pacing.
func WithMinInterval(d time.Duration) Option {
	return func(a *Asker) {
		if d > 0 {
			a.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			a.limiter = nil
		}
	}
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, opts ...Option) *Asker {
	a := &Asker{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the configured model name.
func (a *Asker) Model() string {
	return a.model
}

// Ask sends content and instruction to Gemini and returns the raw answer.
// Provider rate limiting is reported as EQUOTA; other failures are
// returned unchanged for the caller to classify.
func (a *Asker) Ask(ctx context.Context, content, instruction string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", webextract.Errorf(webextract.EEMPTY, "content required")
	}
	if strings.TrimSpace(instruction) == "" {
		return "", webextract.Errorf(webextract.EINVALID, "instruction required")
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(content, instruction)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		if IsQuotaError(err) {
			return "", &webextract.Error{
				Code:       webextract.EQUOTA,
				Message:    "model provider rate limit reached, try again later",
				RetryAfter: ProviderRetryAfter,
				Err:        err,
			}
		}
		return "", err
	}
	if result == nil {
		return "", webextract.Errorf(webextract.EMODEL, "gemini returned nil result")
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", webextract.Errorf(webextract.EMODEL, "gemini blocked the prompt: %s", fb.BlockReason)
	}

	return result.Text(), nil
}

// IsQuotaError reports whether err carries the provider's rate limit
// response (HTTP 429, status RESOURCE_EXHAUSTED).
func IsQuotaError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
}

// BuildConfig returns the GenerateContentConfig for extraction calls. Low
// temperature keeps answers stable for identical inputs, which the
// response cache relies on.
func BuildConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an expert data extractor. You extract exactly the information the user asks for from web page content and reply with that information only.",
			}},
		},
		Temperature:     genai.Ptr[float32](0.1),
		TopP:            genai.Ptr[float32](0.8),
		TopK:            genai.Ptr[float32](20),
		MaxOutputTokens: 2048,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}
}

// BuildUserPrompt builds the extraction prompt for content and instruction.
func BuildUserPrompt(content, instruction string) string {
	var sb strings.Builder
	sb.WriteString("Extract information from the following content:\n\n")
	sb.WriteString("<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>\n\n")
	sb.WriteString("Follow these instructions carefully:\n\n")
	fmt.Fprintf(&sb, "1. Objective: extract exactly what is described here: %s\n\n", instruction)
	sb.WriteString("2. Output format: if the description asks for a format (list, Markdown table, plain text), even conversationally, answer in that format. Do not add explanations, commentary or notes.\n\n")
	sb.WriteString("3. No duplicates: list each unique item once.\n\n")
	sb.WriteString("4. Links and images appear as [HYPERLINK: text -> url] and IMAGE_ASSET: alt | Source: url markers. Report their URLs when asked for links or images.\n\n")
	sb.WriteString("5. No additional text: reply with the extracted information only.\n\n")
	sb.WriteString("6. No match: if nothing matches, reply with an empty string ('').")
	return sb.String()
}
