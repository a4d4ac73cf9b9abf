package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// DefaultHTTPTimeout bounds a single POST when the caller does not supply a
// client.
const DefaultHTTPTimeout = 10 * time.Second

const maxErrorBody = 512

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sink: endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("sink: endpoint returned %d: %s", e.StatusCode, e.Body)
}

// HTTP posts each submission as JSON: the raw values plus, for the default
// form, the typed application record.
type HTTP struct {
	URL    string
	Client *http.Client
	Header http.Header
}

var _ wizard.Sink = (*HTTP)(nil)

// HTTPOption configures an HTTP sink.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.Client = client
		}
	}
}

// WithHeader adds a request header to every POST.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.Header.Add(key, value)
	}
}

// NewHTTP returns a sink posting to url.
func NewHTTP(url string, options ...HTTPOption) (*HTTP, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("sink: http url is required")
	}
	h := &HTTP{
		URL:    url,
		Client: &http.Client{Timeout: DefaultHTTPTimeout},
		Header: make(http.Header),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// httpPayload is the POST body. Application is set when the values form a
// complete record of the default form.
type httpPayload struct {
	wizard.Submission
	Application *model.Application `json:"application,omitempty"`
}

func newHTTPPayload(sub wizard.Submission) httpPayload {
	body := httpPayload{Submission: sub}
	if app, err := sub.Application(); err == nil {
		body.Application = &app
	}
	return body
}

// Submit implements wizard.Sink.
func (h *HTTP) Submit(ctx context.Context, sub wizard.Submission) error {
	payload, err := json.Marshal(newHTTPPayload(sub))
	if err != nil {
		return fmt.Errorf("sink: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sink: build request: %w", err)
	}
	for key, values := range h.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID)

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: post submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
