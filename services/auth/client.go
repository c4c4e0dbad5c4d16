// Package authsvc talks to the EduTrack authentication API.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/session"
)

// Client implements session.Authenticator over the REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ session.Authenticator = (*Client)(nil) // interface compliance check

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.API.Timeout},
	}
}

func (c *Client) Login(ctx context.Context, creds session.Credentials) (session.Session, error) {
	var sess session.Session
	if err := c.post(ctx, "/auth/login", "", creds, &sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.Session, error) {
	payload := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}

	var sess session.Session
	if err := c.post(ctx, "/auth/refresh-token", "", payload, &sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (c *Client) Logout(ctx context.Context, userID int, refreshToken, accessToken string) error {
	payload := struct {
		UserID       int    `json:"userId"`
		RefreshToken string `json:"refreshToken"`
	}{userID, refreshToken}

	return c.post(ctx, "/auth/logout", accessToken, payload, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, fp session.ForgotPassword) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/auth/forgot-password", "", fp, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ChangePassword(ctx context.Context, accessToken string, userID int, cp session.ChangePassword) (string, error) {
	payload := struct {
		UserID          int    `json:"userId"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{userID, cp.CurrentPassword, cp.NewPassword}

	var resp messageResponse
	if err := c.post(ctx, "/auth/change-password", accessToken, payload, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type apiError struct {
	Message    string              `json:"message"`
	StatusCode int                 `json:"statusCode"`
	Errors     map[string][]string `json:"errors"`
}

func (c *Client) post(ctx context.Context, path, bearer string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshalling %s request", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "building %s request", path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.NetworkError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding %s response", path)
		}
	}
	return nil
}

// decodeError maps an API error response to the client error taxonomy.
func decodeError(resp *http.Response) error {
	var apiErr apiError
	if data, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(data, &apiErr) // best-effort; fall back to status text
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := apiErr.Message
		if msg == "" {
			msg = "invalid data, check the information entered"
		}
		var flds []core.FieldError
		for field, msgs := range apiErr.Errors {
			for _, m := range msgs {
				flds = append(flds, core.FieldError{Field: field, Error: m})
			}
		}
		return core.NewValidationError(errors.New(msg), flds...)
	case http.StatusUnauthorized:
		msg := apiErr.Message
		if msg == "" {
			msg = "incorrect username or password"
		}
		return core.AuthenticationError{Message: msg}
	case http.StatusForbidden:
		return errors.New("you do not have permission to perform this action")
	case http.StatusNotFound:
		return errors.New("service not found, contact the administrator")
	case http.StatusServiceUnavailable:
		return errors.New("service temporarily unavailable")
	default:
		if apiErr.Message != "" {
			return errors.Errorf("server error: %s", apiErr.Message)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}
}
