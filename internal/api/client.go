// internal/api/client.go
// Package api provides the typed HTTP client for the evaluation backend. It
// is the application's only point of network I/O: every operation issues one
// round trip, decodes the JSON payload, and normalizes failures into
// RequestError values. There are no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mfuller/evalview/internal/appconfig"
	"github.com/mfuller/evalview/internal/logging"
)

// RequestError describes a failed backend request. Message carries the
// response body's detail field when the backend supplied one.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client issues requests against the evaluation backend.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// New constructs a Client configured with the application's backend URL and
// request timeout.
func New(cfg *appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		baseURL: cfg.BaseURL(),
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// do performs one round trip. A non-nil out receives the decoded response
// body; pass nil for endpoints whose body the caller does not need.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var reqBody io.Reader
	var logged []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
		logged = data
	}
	logging.LogRequest("EVALVIEW->API", c.baseURL, fmt.Sprintf("%s %s", method, path), logged)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	logging.LogRequest("API->EVALVIEW", c.baseURL, fmt.Sprintf("%s %s", method, path), body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func newRequestError(status int, body []byte) *RequestError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return &RequestError{Status: status, Message: eb.Detail}
	}
	return &RequestError{Status: status, Message: "An error occurred"}
}

// Input set operations.

// ListInputSets returns all input sets.
func (c *Client) ListInputSets(ctx context.Context) ([]InputSet, error) {
	var sets []InputSet
	err := c.do(ctx, http.MethodGet, "/input-sets/", nil, &sets)
	return sets, err
}

// CreateInputSet creates a named input set.
func (c *Client) CreateInputSet(ctx context.Context, name, description string) (InputSet, error) {
	var set InputSet
	err := c.do(ctx, http.MethodPost, "/input-sets/", map[string]string{
		"name":        name,
		"description": description,
	}, &set)
	return set, err
}

// GetInputSet returns one input set together with its inputs.
func (c *Client) GetInputSet(ctx context.Context, id int64) (InputSetDetail, error) {
	var set InputSetDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/input-sets/%d", id), nil, &set)
	return set, err
}

// UpdateInputSet updates an input set's name or description.
func (c *Client) UpdateInputSet(ctx context.Context, id int64, name, description string) (InputSet, error) {
	var set InputSet
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/input-sets/%d", id), map[string]string{
		"name":        name,
		"description": description,
	}, &set)
	return set, err
}

// DeleteInputSet deletes an input set. The backend cascades the delete to the
// set's inputs.
func (c *Client) DeleteInputSet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/input-sets/%d", id), nil, nil)
}

// Input operations.

// ListInputs returns all inputs.
func (c *Client) ListInputs(ctx context.Context) ([]Input, error) {
	var inputs []Input
	err := c.do(ctx, http.MethodGet, "/inputs/", nil, &inputs)
	return inputs, err
}

// CreateInput creates a standalone input.
func (c *Client) CreateInput(ctx context.Context, text, name string) (Input, error) {
	var input Input
	err := c.do(ctx, http.MethodPost, "/inputs/", map[string]string{
		"text": text,
		"name": name,
	}, &input)
	return input, err
}

// AddInputToSet creates an input inside the given set.
func (c *Client) AddInputToSet(ctx context.Context, setID int64, text, name string) (Input, error) {
	var input Input
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/input-sets/%d/inputs", setID), map[string]string{
		"text": text,
		"name": name,
	}, &input)
	return input, err
}

// ListInputsInSet returns the inputs belonging to a set.
func (c *Client) ListInputsInSet(ctx context.Context, setID int64) ([]Input, error) {
	var inputs []Input
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/input-sets/%d/inputs", setID), nil, &inputs)
	return inputs, err
}

// GetInput returns one input.
func (c *Client) GetInput(ctx context.Context, id int64) (Input, error) {
	var input Input
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/inputs/%d", id), nil, &input)
	return input, err
}

// UpdateInput updates an input's name or text.
func (c *Client) UpdateInput(ctx context.Context, id int64, text, name string) (Input, error) {
	var input Input
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/inputs/%d", id), map[string]string{
		"text": text,
		"name": name,
	}, &input)
	return input, err
}

// DeleteInput deletes an input.
func (c *Client) DeleteInput(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/inputs/%d", id), nil, nil)
}

// InputHistory returns every recorded output for one input.
func (c *Client) InputHistory(ctx context.Context, inputID int64) (History, error) {
	var history History
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/inputs/%d/history", inputID), nil, &history)
	return history, err
}

// Model operations.

// ListModels returns all registered models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	err := c.do(ctx, http.MethodGet, "/models/", nil, &models)
	return models, err
}

// CreateModel registers a model with the backend.
func (c *Client) CreateModel(ctx context.Context, name, description string) (Model, error) {
	var model Model
	err := c.do(ctx, http.MethodPost, "/models/", map[string]string{
		"name":        name,
		"description": description,
	}, &model)
	return model, err
}

// Prompt operations.

// ListPrompts returns all prompts.
func (c *Client) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var prompts []Prompt
	err := c.do(ctx, http.MethodGet, "/prompts/", nil, &prompts)
	return prompts, err
}

// CreatePrompt creates a prompt with its first version.
func (c *Client) CreatePrompt(ctx context.Context, name, template, description string) (Prompt, error) {
	var prompt Prompt
	err := c.do(ctx, http.MethodPost, "/prompts/", map[string]string{
		"name":        name,
		"template":    template,
		"description": description,
	}, &prompt)
	return prompt, err
}

// GetPrompt returns one prompt together with its version list.
func (c *Client) GetPrompt(ctx context.Context, id int64) (PromptDetail, error) {
	var prompt PromptDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prompts/%d", id), nil, &prompt)
	return prompt, err
}

// UpdatePrompt updates a prompt's name or description.
func (c *Client) UpdatePrompt(ctx context.Context, id int64, name, description string) (Prompt, error) {
	var prompt Prompt
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/prompts/%d", id), map[string]string{
		"name":        name,
		"description": description,
	}, &prompt)
	return prompt, err
}

// DeletePrompt deletes a prompt. Historical outputs keep referring to the
// prompt id; the backend does not delete them.
func (c *Client) DeletePrompt(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/prompts/%d", id), nil, nil)
}

// ListPromptVersions returns every version of a prompt, oldest first.
func (c *Client) ListPromptVersions(ctx context.Context, promptID int64) ([]PromptVersion, error) {
	var versions []PromptVersion
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prompts/%d/versions", promptID), nil, &versions)
	return versions, err
}

// CreatePromptVersion appends a new version to a prompt. Prior versions are
// left untouched.
func (c *Client) CreatePromptVersion(ctx context.Context, promptID int64, template, systemPrompt string) (PromptVersion, error) {
	var version PromptVersion
	payload := map[string]string{"template": template}
	if systemPrompt != "" {
		payload["system_prompt"] = systemPrompt
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/prompts/%d/versions", promptID), payload, &version)
	return version, err
}

// GetPromptVersion returns one prompt version by its own id.
func (c *Client) GetPromptVersion(ctx context.Context, versionID int64) (PromptVersion, error) {
	var version PromptVersion
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prompt-versions/%d", versionID), nil, &version)
	return version, err
}

// Processing operations.

// processPayload is the request body shared by the process and batch paths.
type processPayload struct {
	Text             string          `json:"text,omitempty"`
	Texts            []string        `json:"texts,omitempty"`
	InputIDs         []int64         `json:"input_ids,omitempty"`
	ModelIDs         []int64         `json:"model_ids"`
	PromptIDs        []int64         `json:"prompt_ids"`
	PromptVersionIDs map[int64]int64 `json:"prompt_version_ids,omitempty"`
}

// Process runs one text through every selected model and prompt.
func (c *Client) Process(ctx context.Context, text string, modelIDs, promptIDs []int64, versionIDs map[int64]int64) (Bundle, error) {
	var bundle Bundle
	err := c.do(ctx, http.MethodPost, "/process/", processPayload{
		Text:             text,
		ModelIDs:         modelIDs,
		PromptIDs:        promptIDs,
		PromptVersionIDs: versionIDs,
	}, &bundle)
	return bundle, err
}

// BatchProcess runs several raw texts through every selected model and prompt.
func (c *Client) BatchProcess(ctx context.Context, texts []string, modelIDs, promptIDs []int64, versionIDs map[int64]int64) ([]Bundle, error) {
	var bundles []Bundle
	err := c.do(ctx, http.MethodPost, "/batch-process/", processPayload{
		Texts:            texts,
		ModelIDs:         modelIDs,
		PromptIDs:        promptIDs,
		PromptVersionIDs: versionIDs,
	}, &bundles)
	return bundles, err
}

// ComparePrompts runs stored inputs through every selected model and prompt.
// This is the preferred bulk path: one round trip covers the whole
// input × model × prompt cross product.
func (c *Client) ComparePrompts(ctx context.Context, inputIDs, promptIDs, modelIDs []int64, versionIDs map[int64]int64) ([]Bundle, error) {
	var bundles []Bundle
	err := c.do(ctx, http.MethodPost, "/compare-prompts/", processPayload{
		InputIDs:         inputIDs,
		ModelIDs:         modelIDs,
		PromptIDs:        promptIDs,
		PromptVersionIDs: versionIDs,
	}, &bundles)
	return bundles, err
}

// Evaluation operations.

// CreateEvaluation records a quality judgment for an output. Submitting a
// second evaluation for the same output overwrites the first.
func (c *Client) CreateEvaluation(ctx context.Context, outputID int64, quality Quality, notes string) (Evaluation, error) {
	if !quality.Valid() {
		return Evaluation{}, fmt.Errorf("api: invalid quality %q", quality)
	}
	var eval Evaluation
	err := c.do(ctx, http.MethodPost, "/evaluations/", map[string]any{
		"output_id": outputID,
		"quality":   quality,
		"notes":     notes,
	}, &eval)
	return eval, err
}

// ListEvaluations returns all recorded evaluations.
func (c *Client) ListEvaluations(ctx context.Context) ([]Evaluation, error) {
	var evals []Evaluation
	err := c.do(ctx, http.MethodGet, "/evaluations/", nil, &evals)
	return evals, err
}
