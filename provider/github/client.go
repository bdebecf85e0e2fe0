package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/chad-area/area/provider"
)

const DefaultBaseURL = "https://api.github.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: provider.NewHttpClient(),
		baseURL:    DefaultBaseURL,
	}
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: provider.NewHttpClient(),
		baseURL:    baseURL,
	}
}

type Hook struct {
	Id     int64      `json:"id"`
	Config HookConfig `json:"config"`
}

type HookConfig struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	InsecureSSL string `json:"insecure_ssl"`
}

type createHookRequest struct {
	Name   string     `json:"name"`
	Active bool       `json:"active"`
	Events []string   `json:"events"`
	Config HookConfig `json:"config"`
}

// CreateHook registers a push webhook on owner/repo pointing at callbackURL.
func (c *Client) CreateHook(ctx context.Context, token, owner, repo, callbackURL string) error {
	body, err := json.Marshal(createHookRequest{
		Name:   "web",
		Active: true,
		Events: []string{"push"},
		Config: HookConfig{
			URL:         callbackURL,
			ContentType: "json",
			InsecureSSL: "0",
		},
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/repos/%s/%s/hooks", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req)
	return err
}

func (c *Client) ListHooks(ctx context.Context, token, owner, repo string) ([]Hook, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/hooks", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var hooks []Hook
	if err := json.Unmarshal(body, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (c *Client) DeleteHook(ctx context.Context, token, owner, repo string, hookId int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/hooks/%d", c.baseURL, owner, repo, hookId)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, provider.StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return body, nil
}
