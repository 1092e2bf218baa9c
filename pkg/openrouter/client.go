package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Fixed identification headers sent with every completion request.
const (
	refererHeader = "https://lavagna-ai.github.io"
	titleHeader   = "Lavagna AI"
)

// Client talks to an OpenRouter-compatible completion service. It is
// stateless: every call carries the full message history and is
// independently authenticated with the configured key.
type Client struct {
	httpClient *http.Client
	apiKey     string
	BaseURL    string
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.BaseURL = baseURL
	}
}

func NewClient(apiKey string, options ...ClientOption) *Client {
	ret := &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		BaseURL:    DefaultBaseURL,
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)
}

// GetCredits queries the key's balance and usage. It is best-effort:
// any failure collapses to zeroed credits, logged at debug level, so a
// broken credits endpoint never disturbs the caller.
func (c *Client) GetCredits(ctx context.Context) Credits {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/key", nil)
	if err != nil {
		log.Debug().Err(err).Msg("could not build credits request")
		return Credits{}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("credits request failed")
		return Credits{}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("credits request returned non-success status")
		return Credits{}
	}

	var body struct {
		Data struct {
			Limit float64 `json:"limit"`
			Usage float64 `json:"usage"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Debug().Err(err).Msg("could not decode credits response")
		return Credits{}
	}

	return Credits{
		Balance: body.Data.Limit,
		Usage:   body.Data.Usage,
		Limit:   body.Data.Limit,
	}
}

// CreateChatCompletion sends a single-shot, non-streaming completion
// request and returns the full response.
func (c *Client) CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(remoteErrorMessage(respBody))
	}

	var successResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &successResp); err != nil {
		return nil, err
	}

	return &successResp, nil
}

// remoteErrorMessage extracts the remote-provided error message from a
// non-success response body, falling back to a generic message.
func remoteErrorMessage(body []byte) string {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
		return errorResp.Error.Message
	}
	return "API request failed"
}
