// Raw API explorer for arbitrary YouTube Data API endpoints.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIService performs raw GET requests against the YouTube Data API. It
// shares the typed client's rate limiter and quota budget so exploratory
// calls count against the same spending as regular operations, but it skips
// retries and error mapping: the point is to see exactly what came back.
type APIService struct {
	yt *YouTubeClient
}

// NewAPIService creates an explorer backed by an existing client.
func NewAPIService(yt *YouTubeClient) *APIService {
	return &APIService{yt: yt}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// endpointCost estimates the quota cost of an arbitrary endpoint. Search is
// the only expensive read; everything else reachable by GET costs one unit.
func endpointCost(endpoint string) int {
	if strings.HasPrefix(strings.TrimPrefix(endpoint, "/"), "search") {
		return CostSearchList
	}
	return CostVideosList
}

// Get performs a GET request to the specified endpoint and returns the raw
// response. Non-2xx statuses are not an error here; the caller inspects the
// status code.
func (a *APIService) Get(ctx context.Context, endpoint string, params url.Values) (*APIResponse, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if err := a.yt.budget.Charge(endpointCost(endpoint)); err != nil {
		return nil, err
	}
	if err := a.yt.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := a.yt.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.yt.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
