// ABOUTME: HTTP client for the document matching API
// ABOUTME: Wraps auth, credit, scan, and admin endpoints with error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Client is the API client for the document matching backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookie     string
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSessionCookie attaches a stored session cookie to subsequent requests.
// The backend issues the cookie at login; profile and admin endpoints need it.
func (c *Client) SetSessionCookie(cookie string) {
	c.cookie = cookie
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// Profile represents the /user/profile endpoint response
type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Credits  int    `json:"credits"`
}

// LoginResult represents a successful /auth/login response plus the
// session cookie the backend set alongside it
type LoginResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Credits  int    `json:"credits"`
	Cookie   string `json:"-"`
}

// Match is a single similarity result from the matching service.
// SimilarityScore arrives pre-formatted (e.g. "87.32%") and is rendered verbatim.
type Match struct {
	DocumentName    string `json:"document_name"`
	SimilarityScore string `json:"similarity_score"`
	DocumentExcerpt string `json:"document_excerpt"`
	Insight         string `json:"insight"`
}

// MatchResult wraps the match list inside a scan record
type MatchResult struct {
	Matches []Match `json:"matches"`
}

// ScanRecord is one stored scan in a user's history
type ScanRecord struct {
	Username string      `json:"username"`
	Result   MatchResult `json:"result"`
}

// CreditRequest is a pending credit top-up request
type CreditRequest struct {
	Username string `json:"username"`
	Credits  int    `json:"credits"`
}

// Analytics represents the /admin/analytics endpoint response
type Analytics struct {
	ScansPerUser         map[string]int `json:"scans_per_user"`
	MostScannedDocuments map[string]int `json:"most_scanned_documents"`
	MostScannedTopics    []string       `json:"most_scanned_topics"`
	CreditUsage          map[string]int `json:"credit_usage"`
}

// StatusError reports a non-2xx response from a scan pipeline endpoint,
// keeping the numeric status code available to callers
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d", e.Op, e.Code)
}

// ErrSessionExpired is returned when the profile endpoint rejects the session
var ErrSessionExpired = fmt.Errorf("session expired")

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, username, password, role string) error {
	body := map[string]string{"username": username, "password": password, "role": role}
	resp, err := c.postJSON(ctx, "/auth/register", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}
	return nil
}

// Login calls POST /auth/login and captures the session cookie
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.postJSON(ctx, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "session" {
			result.Cookie = fmt.Sprintf("%s=%s", ck.Name, ck.Value)
		}
	}
	c.cookie = result.Cookie
	return &result, nil
}

// Logout calls POST /auth/logout with the session cookie
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postJSON(ctx, "/auth/logout", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Profile calls GET /user/profile. A non-2xx status means the session is
// no longer valid and the caller should send the user back to login.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	resp, err := c.get(ctx, "/user/profile")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrSessionExpired
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &profile, nil
}

// Balance calls GET /credits/get. Zero is a valid balance; a response
// without a numeric credits field is malformed.
func (c *Client) Balance(ctx context.Context, username string) (int, error) {
	resp, err := c.get(ctx, "/credits/get?username="+url.QueryEscape(username))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("failed to fetch credits: status %d", resp.StatusCode)
	}

	var body struct {
		Credits *int `json:"credits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("invalid response from backend: %w", err)
	}
	if body.Credits == nil {
		return 0, fmt.Errorf("invalid response format: 'credits' field missing")
	}
	return *body.Credits, nil
}

// RequestCredits calls POST /credits/request and returns the server message
func (c *Client) RequestCredits(ctx context.Context, username string, credits int) (string, error) {
	body := map[string]interface{}{"username": username, "credits": credits}
	resp, err := c.postJSON(ctx, "/credits/request", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.handleErrorResponse(resp)
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return result.Message, nil
}

// PendingRequests calls GET /admin/credits
func (c *Client) PendingRequests(ctx context.Context) ([]CreditRequest, error) {
	resp, err := c.get(ctx, "/admin/credits")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp)
	}

	var body struct {
		Requests []CreditRequest `json:"requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return body.Requests, nil
}

// Decide calls POST /credits/approve. The backend encodes denial as
// approve=false on the same endpoint; there is no separate deny route.
func (c *Client) Decide(ctx context.Context, admin, username string, approve bool) (string, error) {
	body := map[string]interface{}{"admin": admin, "username": username, "approve": approve}
	resp, err := c.postJSON(ctx, "/credits/approve", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.handleErrorResponse(resp)
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return result.Message, nil
}

// Analytics calls GET /admin/analytics
func (c *Client) Analytics(ctx context.Context) (*Analytics, error) {
	resp, err := c.get(ctx, "/admin/analytics")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp)
	}

	var analytics Analytics
	if err := json.NewDecoder(resp.Body).Decode(&analytics); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &analytics, nil
}

// Upload calls POST /upload with the document as a multipart payload and
// returns the extracted text
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload payload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.attachCookie(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Op: "Upload", Code: resp.StatusCode}
	}

	var body struct {
		ExtractedText string `json:"extracted_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return body.ExtractedText, nil
}

// Match calls POST /scan/match with extracted text. An empty match list
// is a valid result, not an error.
func (c *Client) Match(ctx context.Context, text string) ([]Match, error) {
	resp, err := c.postJSON(ctx, "/scan/match", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: "Matching", Code: resp.StatusCode}
	}

	var body MatchResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return body.Matches, nil
}

// Deduct calls POST /credits/deduct to debit one credit after a scan
func (c *Client) Deduct(ctx context.Context, username string) error {
	resp, err := c.postJSON(ctx, "/credits/deduct", map[string]string{"username": username})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deduction failed: status %d", resp.StatusCode)
	}
	return nil
}

// History calls GET /scan/history for the given user
func (c *Client) History(ctx context.Context, username string) ([]ScanRecord, error) {
	resp, err := c.get(ctx, "/scan/history?username="+url.QueryEscape(username))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp)
	}

	var body struct {
		History []ScanRecord `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return body.History, nil
}

// get issues a GET request with the session cookie attached
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.attachCookie(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// postJSON issues a POST request with a JSON body and the session cookie
func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachCookie(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// attachCookie replays the stored session cookie, if any
func (c *Client) attachCookie(req *http.Request) {
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
