package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"visioai/internal/domain"
	"visioai/internal/model"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// request types mirror the OpenAI chat completions API structure.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Messages  []message `json:"messages"`
	Stream    bool      `json:"stream,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content []part `json:"content"`
}

type part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type Client struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

func NewClient(apiKey, modelID string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   modelID,
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: defaultAPIURL,
	}
}

// buildMessages constructs the chat completions payload. Images travel as a
// base64 data URL content part alongside the instruction text.
func buildMessages(req model.Request) []message {
	parts := []part{{Type: "text", Text: req.Instruction}}
	if len(req.Image) > 0 {
		parts = append(parts, part{
			Type: "image_url",
			ImageURL: &imageURL{
				URL: fmt.Sprintf("data:%s;base64,%s",
					req.MimeType, base64.StdEncoding.EncodeToString(req.Image)),
			},
		})
	}
	return []message{{Role: "user", Content: parts}}
}

// newHTTPRequest creates an authenticated POST request to the OpenAI API.
func (c *Client) newHTTPRequest(ctx context.Context, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

func (c *Client) do(ctx context.Context, body request) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderOpenAI, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := c.newHTTPRequest(ctx, payload)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderOpenAI, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderOpenAI, Err: fmt.Errorf("call openai: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &domain.ProviderError{
			Provider: domain.ProviderOpenAI,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(errBody))),
		}
	}
	return resp, nil
}

func (c *Client) Generate(ctx context.Context, req model.Request) (string, error) {
	resp, err := c.do(ctx, request{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  buildMessages(req),
	})
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close openai response body", "error", err)
		}
	}()

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", &domain.ProviderError{Provider: domain.ProviderOpenAI, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(respBody.Choices) == 0 {
		return "", &domain.ProviderError{Provider: domain.ProviderOpenAI, Err: fmt.Errorf("response contained no choices")}
	}
	return respBody.Choices[0].Message.Content, nil
}

// GenerateStream implements model.StreamGenerator using the chat completions
// SSE stream. Each "data:" line carries a JSON chunk with a content delta;
// the stream ends with "data: [DONE]".
func (c *Client) GenerateStream(ctx context.Context, req model.Request) (<-chan model.StreamEvent, error) {
	resp, err := c.do(ctx, request{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  buildMessages(req),
		Stream:    true,
	})
	if err != nil {
		return nil, err
	}

	// Buffer of 16 keeps the reader goroutine from blocking between chunk
	// emissions while the caller is flushing to the browser.
	ch := make(chan model.StreamEvent, 16)

	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Error("failed to close openai stream body", "error", err)
			}
		}()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := line[6:]
			if data == "[DONE]" {
				return
			}
			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			ch <- model.StreamEvent{Text: chunk.Choices[0].Delta.Content}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			ch <- model.StreamEvent{Err: &domain.ProviderError{
				Provider: domain.ProviderOpenAI,
				Err:      fmt.Errorf("read stream: %w", err),
			}}
		}
	}()

	return ch, nil
}
