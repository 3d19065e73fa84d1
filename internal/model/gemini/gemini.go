package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// request types mirror the Gemini generateContent API structure.
type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
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
		baseURL: defaultBaseURL,
	}
}

func buildContents(req model.Request) []content {
	parts := []part{{Text: req.Instruction}}
	if len(req.Image) > 0 {
		parts = append(parts, part{
			InlineData: &inlineData{
				MimeType: req.MimeType,
				Data:     base64.StdEncoding.EncodeToString(req.Image),
			},
		})
	}
	return []content{{Parts: parts}}
}

// do posts the payload to the given model method (generateContent or
// streamGenerateContent). The API key travels as a query parameter.
func (c *Client) do(ctx context.Context, method, extraQuery string, body request) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderGemini, Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:%s?key=%s%s", c.baseURL, c.model, method, c.apiKey, extraQuery)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderGemini, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderGemini, Err: fmt.Errorf("call gemini: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &domain.ProviderError{
			Provider: domain.ProviderGemini,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(errBody))),
		}
	}
	return resp, nil
}

func (c *Client) Generate(ctx context.Context, req model.Request) (string, error) {
	resp, err := c.do(ctx, "generateContent", "", request{Contents: buildContents(req)})
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close gemini response body", "error", err)
		}
	}()

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", &domain.ProviderError{Provider: domain.ProviderGemini, Err: fmt.Errorf("decode response: %w", err)}
	}
	return flattenText(respBody)
}

func flattenText(respBody response) (string, error) {
	if len(respBody.Candidates) == 0 {
		return "", &domain.ProviderError{Provider: domain.ProviderGemini, Err: fmt.Errorf("response contained no candidates")}
	}
	var sb strings.Builder
	for _, p := range respBody.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// GenerateStream implements model.StreamGenerator via streamGenerateContent
// with alt=sse. Each SSE data line is a full response object carrying a text
// delta in its first candidate.
func (c *Client) GenerateStream(ctx context.Context, req model.Request) (<-chan model.StreamEvent, error) {
	resp, err := c.do(ctx, "streamGenerateContent", "&alt=sse", request{Contents: buildContents(req)})
	if err != nil {
		return nil, err
	}

	ch := make(chan model.StreamEvent, 16)

	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Error("failed to close gemini stream body", "error", err)
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
			var chunk response
			if err := json.Unmarshal([]byte(line[6:]), &chunk); err != nil {
				continue
			}
			text, err := flattenText(chunk)
			if err != nil || text == "" {
				continue
			}
			ch <- model.StreamEvent{Text: text}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			ch <- model.StreamEvent{Err: &domain.ProviderError{
				Provider: domain.ProviderGemini,
				Err:      fmt.Errorf("read stream: %w", err),
			}}
		}
	}()

	return ch, nil
}
