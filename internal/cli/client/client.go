package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client represents an HTTP client for the ProgTrack API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. Requests carry the bearer token from
// creds and a 401 on a protected endpoint invalidates the session.
func New(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newAuthTransport(nil, creds),
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the server URL this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError represents a non-2xx response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// StatusOf returns the HTTP status of err when it is an APIError, 0 otherwise
func StatusOf(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status
	}
	return 0
}

// errorBody is the shape of the server's failure responses
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return &APIError{Status: status, Message: parsed.Error}
		}
		if parsed.Message != "" {
			return &APIError{Status: status, Message: parsed.Message}
		}
	}
	return &APIError{Status: status, Message: string(bytes.TrimSpace(body))}
}

// do sends a request and decodes the response body into out (when non-nil)
func (c *Client) do(method, path string, reqBody, out any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login authenticates the user and returns a JWT token
func (c *Client) Login(emailOrUsername, password string) (*LoginResponse, error) {
	reqBody := LoginRequest{
		EmailOrUsername: emailOrUsername,
		Password:        password,
	}

	var loginResp LoginResponse
	if err := c.do("POST", "/api/auth/login", reqBody, &loginResp); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// Register creates a new account and triggers a verification email
func (c *Client) Register(req RegisterRequest) (*RegisterResponse, error) {
	var regResp RegisterResponse
	if err := c.do("POST", "/api/auth/register", req, &regResp); err != nil {
		return nil, err
	}
	return &regResp, nil
}

// VerifyEmail confirms an email address with a verification token
func (c *Client) VerifyEmail(token string) (*VerificationResponse, error) {
	var verifyResp VerificationResponse
	path := "/api/auth/verify?token=" + url.QueryEscape(token)
	if err := c.do("GET", path, nil, &verifyResp); err != nil {
		return nil, err
	}
	return &verifyResp, nil
}

// ResendVerification requests a fresh verification email
func (c *Client) ResendVerification(email string) (*ApiResponse, error) {
	reqBody := map[string]string{"email": email}

	var resendResp ApiResponse
	if err := c.do("POST", "/api/auth/resend-verification", reqBody, &resendResp); err != nil {
		return nil, err
	}
	return &resendResp, nil
}

// Me returns the profile of the signed-in user
func (c *Client) Me() (*UserInfo, error) {
	var user UserInfo
	if err := c.do("GET", "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPrograms returns the full program catalog
func (c *Client) ListPrograms() ([]Program, error) {
	var programs []Program
	if err := c.do("GET", "/api/programs", nil, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// SearchPrograms returns catalog programs matching the given filters
func (c *Client) SearchPrograms(params SearchParams) ([]Program, error) {
	query := url.Values{}
	if params.Equipment != "" {
		query.Set("equipment", params.Equipment)
	}
	if params.Level != "" {
		query.Set("level", params.Level)
	}
	if params.Goal != "" {
		query.Set("goal", params.Goal)
	}
	if params.MaxDuration > 0 {
		query.Set("maxDuration", strconv.Itoa(params.MaxDuration))
	}

	path := "/api/programs/search"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var programs []Program
	if err := c.do("GET", path, nil, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// GetProgram returns a single program by ID
func (c *Client) GetProgram(id string) (*Program, error) {
	var program Program
	if err := c.do("GET", "/api/programs/"+url.PathEscape(id), nil, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

// GetWeeklyPlan returns a program's weekly schedule
func (c *Client) GetWeeklyPlan(programID string) (*WeeklyPlan, error) {
	var plan WeeklyPlan
	path := "/api/programs/" + url.PathEscape(programID) + "/weekly-plan"
	if err := c.do("GET", path, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreateProgram adds a new program to the catalog
func (c *Client) CreateProgram(req ProgramRequest) (*Program, error) {
	var program Program
	if err := c.do("POST", "/api/programs", req, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

// UpdateProgram modifies an existing program
func (c *Client) UpdateProgram(id string, req ProgramRequest) (*Program, error) {
	var program Program
	if err := c.do("PUT", "/api/programs/"+url.PathEscape(id), req, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

// DeleteProgram removes a program from the catalog
func (c *Client) DeleteProgram(id string) error {
	return c.do("DELETE", "/api/programs/"+url.PathEscape(id), nil, nil)
}
