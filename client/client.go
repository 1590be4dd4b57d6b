// Package client is a Go consumer of the Student Manager REST API with
// the same token lifecycle the original browser client had: it stores
// the credential locally, decides from the unverified claims whether it
// is still logged in, and drops the credential the moment the server
// answers 401/403.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sthmu/Student-Manager/models"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired, please log in again")
)

// APIError carries the server's message for any non-auth failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      *CredentialStore

	nowFunc func() time.Time
}

func New(baseURL string, store *CredentialStore) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Store:      store,
		nowFunc:    time.Now,
	}
}

// AuthResult is the success shape of login and register.
type AuthResult struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// StudentRequest is the write payload for create and update.
type StudentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Course        string `json:"course,omitempty"`
	EnrolmentDate string `json:"enrolment_date,omitempty"` // YYYY-MM-DD
}

/* ===== session state ===== */

// token returns the stored token if it still looks alive. An absent,
// unparsable or expired credential is cleared and reported as not
// authenticated.
func (c *Client) token() (string, error) {
	creds, err := c.Store.Load()
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrNotAuthenticated
	}
	claims, err := ParseToken(creds.Token)
	if err != nil || claims.Expired(c.nowFunc()) {
		_ = c.Store.Clear()
		return "", ErrNotAuthenticated
	}
	return creds.Token, nil
}

func (c *Client) IsAuthenticated() bool {
	_, err := c.token()
	return err == nil
}

// CurrentUser returns the stored public projection of the logged-in user.
func (c *Client) CurrentUser() (*models.PublicUser, error) {
	if _, err := c.token(); err != nil {
		return nil, err
	}
	creds, err := c.Store.Load()
	if err != nil || creds == nil {
		return nil, ErrNotAuthenticated
	}
	return &creds.User, nil
}

// TokenExpiringSoon reports whether a re-login prompt is in order.
func (c *Client) TokenExpiringSoon() bool {
	creds, err := c.Store.Load()
	if err != nil || creds == nil {
		return false
	}
	claims, err := ParseToken(creds.Token)
	if err != nil {
		return false
	}
	return claims.ExpiringSoon(c.nowFunc())
}

/* ===== auth endpoints ===== */

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &res, false)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(Credentials{Token: res.Token, User: res.User}); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, username, email, password, adminCode string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  username,
		"email":     email,
		"password":  password,
		"adminCode": adminCode,
	}, &res, false)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(Credentials{Token: res.Token, User: res.User}); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the server (a stateless no-op) and discards the local
// credential either way.
func (c *Client) Logout(ctx context.Context) error {
	_ = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, false)
	return c.Store.Clear()
}

/* ===== student endpoints ===== */

type studentsResponse struct {
	Students []models.Student `json:"students"`
	Count    int              `json:"count"`
}

type studentResponse struct {
	Message string         `json:"message"`
	Student models.Student `json:"student"`
}

func (c *Client) ListStudents(ctx context.Context, status string) ([]models.Student, error) {
	path := "/api/students"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var res studentsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res, true); err != nil {
		return nil, err
	}
	return res.Students, nil
}

func (c *Client) SearchStudents(ctx context.Context, query string) ([]models.Student, int, error) {
	var res studentsResponse
	path := "/api/students/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &res, true); err != nil {
		return nil, 0, err
	}
	return res.Students, res.Count, nil
}

func (c *Client) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	var res studentResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil, &res, true); err != nil {
		return nil, err
	}
	return &res.Student, nil
}

func (c *Client) CreateStudent(ctx context.Context, req StudentRequest) (*models.Student, error) {
	var res studentResponse
	if err := c.do(ctx, http.MethodPost, "/api/students", req, &res, true); err != nil {
		return nil, err
	}
	return &res.Student, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id uint, req StudentRequest) (*models.Student, error) {
	var res studentResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/students/%d", id), req, &res, true); err != nil {
		return nil, err
	}
	return &res.Student, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, nil, true)
}

func (c *Client) DeleteStudents(ctx context.Context, ids []uint) (int64, error) {
	var res struct {
		Message string `json:"message"`
		Count   int64  `json:"count"`
	}
	err := c.do(ctx, http.MethodPost, "/api/students/delete-multiple", map[string]any{"ids": ids}, &res, true)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

/* ===== transport ===== */

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		token, err := c.token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		// Server no longer accepts the token; forget it.
		_ = c.Store.Clear()
		return ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
