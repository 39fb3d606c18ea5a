package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Varun5711/attendly/internal/models"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
)

// ErrUnauthorized means the session cookie is missing or no longer valid.
var ErrUnauthorized = errors.New("session expired, please log in again")

// APIError is a non-2xx response with the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the attendance API. The session cookie lives in the
// client's jar, so Login and Signup authenticate every later call.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *Client) Signup(ctx context.Context, email, password, name string) error {
	req := usermodel.SignupRequest{Email: email, Password: password, Name: name}
	return c.do(ctx, http.MethodPost, "/api/auth/signup", req, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	req := usermodel.LoginRequest{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/api/auth/login", req, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*usermodel.Profile, error) {
	var profile usermodel.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Record(ctx context.Context, t models.AttendanceType, tasks []models.Task) error {
	req := models.AttendanceRequest{Type: t, Tasks: tasks}
	return c.do(ctx, http.MethodPost, "/api/attendance", req, nil)
}

func (c *Client) List(ctx context.Context, filters models.AttendanceFilters) (*models.ListAttendanceResponse, error) {
	q := url.Values{}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.StartDate != "" {
		q.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		q.Set("endDate", filters.EndDate)
	}
	if filters.Page > 0 {
		q.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}

	path := "/api/attendance"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res models.ListAttendanceResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/attendance/"+url.PathEscape(id), nil, nil)
}

// Report returns the plain-text daily report for one side of a record.
func (c *Client) Report(ctx context.Context, id string, t models.AttendanceType) (string, error) {
	path := "/api/attendance/" + url.PathEscape(id) + "/report?type=" + url.QueryEscape(string(t))

	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return string(text), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send returns the response only for 2xx statuses; the caller closes it.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var apiErr models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
		apiErr.Error = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized && apiErr.Error == "Unauthorized" {
		return nil, ErrUnauthorized
	}
	return nil, &APIError{Status: resp.StatusCode, Message: apiErr.Error}
}
