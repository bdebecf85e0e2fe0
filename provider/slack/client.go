package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/chad-area/area/provider"
)

const DefaultBaseURL = "https://slack.com/api"

// Client wraps the Slack Web API. Slack reports most failures with HTTP 200
// and ok=false, so errors carry the API error code rather than a status.
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

// APIError is a Slack ok=false response.
type APIError struct {
	Code string
}

func (e APIError) Error() string {
	return fmt.Sprintf("slack api error: %s", e.Code)
}

func IsAPIError(err error, codes ...string) bool {
	ae, ok := err.(APIError)
	if !ok {
		return false
	}
	for _, code := range codes {
		if ae.Code == code {
			return true
		}
	}
	return false
}

type Message struct {
	Type  string `json:"type"`
	User  string `json:"user"`
	Text  string `json:"text"`
	Ts    string `json:"ts"`
	BotId string `json:"bot_id"`
}

type UserInfo struct {
	Name     string
	RealName string
}

type conversationsHistoryResponse struct {
	Ok       bool      `json:"ok"`
	Error    string    `json:"error"`
	Messages []Message `json:"messages"`
}

type conversationsInfoResponse struct {
	Ok      bool   `json:"ok"`
	Error   string `json:"error"`
	Channel struct {
		Name string `json:"name"`
	} `json:"channel"`
}

type usersInfoResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
	User  struct {
		Name     string `json:"name"`
		RealName string `json:"real_name"`
	} `json:"user"`
}

// ConversationsInfo probes that a channel exists and the bot can see it.
// Returns the channel name on success.
func (c *Client) ConversationsInfo(ctx context.Context, token, channelId string) (string, error) {
	body, err := c.post(ctx, token, "/conversations.info", map[string]any{"channel": channelId})
	if err != nil {
		return "", err
	}
	var res conversationsInfoResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}
	if !res.Ok {
		return "", APIError{Code: res.Error}
	}
	return res.Channel.Name, nil
}

// ConversationsHistory returns the most recent channel messages, newest
// first, with bot messages and non-user events filtered out.
func (c *Client) ConversationsHistory(ctx context.Context, token, channelId string, limit int) ([]Message, error) {
	body, err := c.post(ctx, token, "/conversations.history", map[string]any{"channel": channelId, "limit": limit})
	if err != nil {
		return nil, err
	}
	var res conversationsHistoryResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	if !res.Ok {
		return nil, APIError{Code: res.Error}
	}
	messages := make([]Message, 0, len(res.Messages))
	for _, msg := range res.Messages {
		if msg.Type == "message" && msg.BotId == "" && msg.User != "" {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// UsersInfo resolves a Slack user id to display names. Failures degrade to
// the raw id so a missing profile never blocks a trigger.
func (c *Client) UsersInfo(ctx context.Context, token, userId string) UserInfo {
	body, err := c.post(ctx, token, "/users.info", map[string]any{"user": userId})
	if err != nil {
		return UserInfo{Name: userId, RealName: "Unknown User"}
	}
	var res usersInfoResponse
	if err := json.Unmarshal(body, &res); err != nil || !res.Ok {
		return UserInfo{Name: userId, RealName: "Unknown User"}
	}
	realName := res.User.RealName
	if realName == "" {
		realName = res.User.Name
	}
	return UserInfo{Name: res.User.Name, RealName: realName}
}

func (c *Client) post(ctx context.Context, token, path string, payload map[string]any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
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
