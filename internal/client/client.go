// Package client 는 커뮤니티 API 용 타입이 있는 HTTP 클라이언트다.
// access token 을 자동으로 붙이고, 401 이 오면 refresh token 으로
// 한 번만 갱신을 시도한 뒤 원래 요청을 재시도한다. 동시에 발생한
// 401 들은 singleflight 로 하나의 갱신 요청으로 합쳐진다.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"golang.org/x/sync/singleflight"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	refreshGroup singleflight.Group
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError 는 서버의 실패 봉투다.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Path       string `json:"path"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// SetSession 은 저장해 둔 토큰 쌍으로 세션을 복원할 때 쓴다.
func (c *Client) SetSession(accessToken, refreshToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.mu.Unlock()
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
}

func (c *Client) tokens() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

// Register 는 계정을 만들고 세션을 연다.
func (c *Client) Register(ctx context.Context, loginID, password, name string) (*service.AuthResult, error) {
	var resp service.AuthResult
	body := map[string]string{"loginId": loginID, "password": password, "name": name}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	c.SetSession(resp.AccessToken, resp.RefreshToken)
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, loginID, password string) (*service.AuthResult, error) {
	var resp service.AuthResult
	body := map[string]string{"loginId": loginID, "password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	c.SetSession(resp.AccessToken, resp.RefreshToken)
	return &resp, nil
}

// Logout 은 서버의 refresh token 을 지우고 로컬 세션을 비운다.
func (c *Client) Logout(ctx context.Context) error {
	_, rt := c.tokens()
	defer c.clearSession()
	if rt == "" {
		return nil
	}
	return c.doRequest(ctx, http.MethodPost, "/auth/logout", map[string]string{"refreshToken": rt}, nil)
}

func (c *Client) ListPosts(ctx context.Context) ([]service.PostDTO, error) {
	var posts []service.PostDTO
	if err := c.doRequest(ctx, http.MethodGet, "/posts/all", nil, &posts); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id uint) (*service.PostDTO, error) {
	var post service.PostDTO
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, in service.PostInput) (*service.PostDTO, error) {
	var post service.PostDTO
	if err := c.doRequest(ctx, http.MethodPost, "/posts", in, &post); err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

func (c *Client) ToggleCommentLike(ctx context.Context, commentID uint) (*service.CommentDTO, error) {
	var comment service.CommentDTO
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/comments/%d/like", commentID), nil, &comment); err != nil {
		return nil, fmt.Errorf("toggle like request failed: %w", err)
	}
	return &comment, nil
}

// doRequest 는 요청을 한 번 보내고, 401 이면 갱신 후 딱 한 번 재시도한다.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	status, err := c.doOnce(ctx, method, path, body, result)
	if err == nil || status != http.StatusUnauthorized {
		return err
	}
	if refreshErr := c.refresh(ctx); refreshErr != nil {
		// 갱신 실패는 세션 종료다. 원래의 401 을 그대로 알린다.
		c.clearSession()
		return err
	}
	_, err = c.doOnce(ctx, method, path, body, result)
	return err
}

// refresh 는 동시 호출을 하나의 서버 요청으로 합친다.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		_, rt := c.tokens()
		if rt == "" {
			return nil, fmt.Errorf("no refresh token")
		}
		var resp service.RefreshResult
		if _, err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": rt}, &resp); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.accessToken = resp.AccessToken
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, result interface{}) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if at, _ := c.tokens(); at != "" {
		req.Header.Set("Authorization", "Bearer "+at)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var envelope APIError
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			envelope.StatusCode = resp.StatusCode
			apiErr = &envelope
		}
		return resp.StatusCode, apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
