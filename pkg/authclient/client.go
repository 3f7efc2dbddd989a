package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/market/pkg/identity"
)

// ErrRejected means the auth service refused the refresh token.
var ErrRejected = errors.New("refresh rejected")

const maxBody = 64 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is a refreshed token pair and the caller it was issued to.
type Session struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	UserID       uuid.UUID
	Role         identity.Role
}

func (s *Session) Identity() identity.Identity {
	return identity.Identity{UserID: s.UserID, Role: s.Role}
}

type refreshBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

func (b refreshBody) session() (*Session, error) {
	if b.AccessToken == "" || b.RefreshToken == "" {
		return nil, errors.New("response is missing tokens")
	}
	uid, err := uuid.Parse(b.UserID)
	if err != nil {
		return nil, fmt.Errorf("user_id: %w", err)
	}
	role, err := identity.ParseRole(b.Role)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		AccessExp:    time.Unix(b.AccessExp, 0),
		RefreshExp:   time.Unix(b.RefreshExp, 0),
		UserID:       uid,
		Role:         role,
	}, nil
}

// Refresh calls POST {base}/auth/refresh with both tokens as cookies. A 401 or
// 403 from the auth service is reported as ErrRejected.
func (c *Client) Refresh(ctx context.Context, refreshToken, accessToken string) (*Session, error) {
	endpoint, err := url.JoinPath(c.baseURL, "auth", "refresh")
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: accessToken})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrRejected)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("refresh failed with status: %d", resp.StatusCode)
	}

	var body refreshBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	s, err := body.session()
	if err != nil {
		return nil, fmt.Errorf("invalid refresh response: %w", err)
	}
	return s, nil
}
