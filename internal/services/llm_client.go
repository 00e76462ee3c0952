package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"marketlens/backend-go/internal/config"
)

// LLMClient is a thin completion client. Prompt construction stays with the
// caller; this only carries the request to the provider under the standard
// retry policy.
type LLMClient struct {
	cfg     config.Config
	fetcher *Fetcher
	policy  Policy
}

func NewLLMClient(cfg config.Config, clock clockwork.Clock) *LLMClient {
	return &LLMClient{
		cfg:     cfg,
		fetcher: NewFetcher("llm", cfg.LLMTimeout, clock),
		policy: Policy{
			MaxRetries: cfg.FetchMaxRetries,
			RetryDelay: cfg.FetchRetryDelay,
			Backoff:    BackoffExponential,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.LLMAPIKey == "" {
		return "", errors.Wrap(ErrMissingCredential, "llm provider")
	}
	payload, err := json.Marshal(chatRequest{
		Model:    c.cfg.LLMModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/v1/chat/completions", strings.TrimRight(c.cfg.LLMBaseURL, "/"))
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.LLMAPIKey)

	var out chatResponse
	if err := c.fetcher.PostJSON(ctx, endpoint, payload, header, c.policy, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("llm response had no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
