// Package analysis is the client for the remote analysis, spam-check,
// description-generation and sharing functions. It shapes requests and
// decodes responses; none of the analysis itself happens here.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"densitydesk/internal/config"
	"densitydesk/internal/models"
)

// Observer is notified after every remote call.
type Observer func(op, outcome string, elapsed time.Duration)

// Client calls the remote functions over JSON POST.
type Client struct {
	endpoints  config.Endpoints
	httpClient *http.Client
	observe    Observer
	policy     *bluemonday.Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a call observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// New creates a client for the given endpoints. No request timeout is set;
// calls end when the remote answers or ctx is done.
func New(endpoints config.Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{},
		policy:     bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateRequest is the body of the description generator.
type GenerateRequest struct {
	ExtensionName    string   `json:"extension_name"`
	ShortDescription string   `json:"short_description"`
	MainKeywords     []string `json:"main_keywords"`
	ExtraKeywords    []string `json:"extra_keywords"`
	UserPrompt       string   `json:"user_prompt"`
}

// NewGenerateRequest builds a generator request from workspace state.
// Only non-empty keyword keys are sent.
func NewGenerateRequest(s models.AppState) GenerateRequest {
	return GenerateRequest{
		ExtensionName:    s.ExtensionName,
		ShortDescription: s.ShortDescription,
		MainKeywords:     keys(s.MainKeywords),
		ExtraKeywords:    keys(s.ExtraKeywords),
		UserPrompt:       s.UserPrompt,
	}
}

func keys(records []models.KeywordRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if r.Key != "" {
			out = append(out, r.Key)
		}
	}
	return out
}

type textRequest struct {
	Text string `json:"text"`
}

type idRequest struct {
	ID string `json:"id"`
}

type generateResponse struct {
	Description string `json:"description"`
}

type saveResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze computes keyword density for text.
func (c *Client) Analyze(ctx context.Context, text string) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := c.post(ctx, OpAnalyze, c.endpoints.AnalyzeText, textRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckSpamRisk scores text for keyword stuffing. A response without
// success set is an error even when the HTTP call succeeded.
func (c *Client) CheckSpamRisk(ctx context.Context, text string) (*models.SpamRiskResult, error) {
	var result models.SpamRiskResult
	if err := c.post(ctx, OpSpamCheck, c.endpoints.CheckSpamRisk, textRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, newRemoteError(OpSpamCheck, 0, result.Error, ErrSpamCheckFailed)
	}
	return &result, nil
}

// GenerateDescription asks the generator for a store description. Markup
// in the answer is stripped; the text itself is kept verbatim.
func (c *Client) GenerateDescription(ctx context.Context, req GenerateRequest) (string, error) {
	var resp generateResponse
	if err := c.post(ctx, OpGenerate, c.endpoints.GenerateDescription, req, &resp); err != nil {
		return "", err
	}
	return html.UnescapeString(c.policy.Sanitize(resp.Description)), nil
}

// SaveAnalysis stores a bundle and returns its share ID.
func (c *Client) SaveAnalysis(ctx context.Context, bundle models.SavedAnalysis) (string, error) {
	var resp saveResponse
	if err := c.post(ctx, OpSave, c.endpoints.SaveAnalysis, bundle, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", newRemoteError(OpSave, 0, "", ErrEmptyID)
	}
	return resp.ID, nil
}

// GetAnalysis fetches a previously saved bundle.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*models.SavedAnalysis, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var bundle models.SavedAnalysis
	if err := c.post(ctx, OpGet, c.endpoints.GetAnalysis, idRequest{ID: id}, &bundle); err != nil {
		return nil, err
	}
	if bundle.ID == "" {
		bundle.ID = id
	}
	return &bundle, nil
}

func (c *Client) post(ctx context.Context, op, url string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observe == nil {
			return
		}
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.observe(op, outcome, time.Since(start))
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newRemoteError(op, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newRemoteError(op, resp.StatusCode, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		return newRemoteError(op, resp.StatusCode, e.Error, nil)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return newRemoteError(op, resp.StatusCode, "", err)
	}
	return nil
}
