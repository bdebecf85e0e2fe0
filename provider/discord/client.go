package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chad-area/area/provider"
)

const DefaultBaseURL = "https://discord.com/api/v10"

// Client talks to the Discord REST API as the Area bot. All calls are
// authenticated with the single bot token, not per-user OAuth tokens.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

func NewClient(botToken string) *Client {
	return &Client{
		httpClient: provider.NewHttpClient(),
		baseURL:    DefaultBaseURL,
		botToken:   botToken,
	}
}

func NewClientWithBaseURL(botToken, baseURL string) *Client {
	c := NewClient(botToken)
	c.baseURL = baseURL
	return c
}

type Channel struct {
	Id string `json:"id"`
}

type Role struct {
	Id string `json:"id"`
}

func (c *Client) SendMessage(ctx context.Context, channelId, content string) error {
	path := fmt.Sprintf("/channels/%s/messages", channelId)
	_, err := c.do(ctx, http.MethodPost, path, map[string]any{"content": content}, nil)
	return err
}

// CreateDM opens (or reuses) the DM channel with a Discord user.
func (c *Client) CreateDM(ctx context.Context, discordUserId string) (*Channel, error) {
	body, err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]any{"recipient_id": discordUserId}, nil)
	if err != nil {
		return nil, err
	}
	var channel Channel
	if err := json.Unmarshal(body, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *Client) CreateChannel(ctx context.Context, guildId, name string, channelType int) (*Channel, error) {
	path := fmt.Sprintf("/guilds/%s/channels", guildId)
	body, err := c.do(ctx, http.MethodPost, path, map[string]any{"name": name, "type": channelType}, nil)
	if err != nil {
		return nil, err
	}
	var channel Channel
	if err := json.Unmarshal(body, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *Client) AddRole(ctx context.Context, guildId, discordUserId, roleId string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildId, discordUserId, roleId)
	_, err := c.do(ctx, http.MethodPut, path, nil, nil)
	return err
}

func (c *Client) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s", channelId, messageId)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func (c *Client) EditMessage(ctx context.Context, channelId, messageId, content string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s", channelId, messageId)
	_, err := c.do(ctx, http.MethodPatch, path, map[string]any{"content": content}, nil)
	return err
}

func (c *Client) AddReaction(ctx context.Context, channelId, messageId, emoji string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s/reactions/%s/@me", channelId, messageId, url.PathEscape(emoji))
	_, err := c.do(ctx, http.MethodPut, path, nil, nil)
	return err
}

func (c *Client) KickMember(ctx context.Context, guildId, discordUserId, reason string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s", guildId, discordUserId)
	_, err := c.do(ctx, http.MethodDelete, path, nil, map[string]string{"X-Audit-Log-Reason": reason})
	return err
}

func (c *Client) BanMember(ctx context.Context, guildId, discordUserId, reason string, deleteMessageDays int) error {
	path := fmt.Sprintf("/guilds/%s/bans/%s", guildId, discordUserId)
	payload := map[string]any{"delete_message_days": deleteMessageDays}
	_, err := c.do(ctx, http.MethodPut, path, payload, map[string]string{"X-Audit-Log-Reason": reason})
	return err
}

func (c *Client) CreateRole(ctx context.Context, guildId, name string, color int64, permissions string) (*Role, error) {
	path := fmt.Sprintf("/guilds/%s/roles", guildId)
	payload := map[string]any{
		"name":        name,
		"color":       color,
		"permissions": permissions,
		"hoist":       false,
		"mentionable": true,
	}
	body, err := c.do(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := json.Unmarshal(body, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
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

// ParseColor converts a hex color string like "FF0000" or "#FF0000" to the
// integer Discord expects; "0" or empty means no color.
func ParseColor(colorHex string) (int64, error) {
	colorHex = strings.TrimPrefix(colorHex, "#")
	if colorHex == "" || colorHex == "0" {
		return 0, nil
	}
	return strconv.ParseInt(colorHex, 16, 64)
}
