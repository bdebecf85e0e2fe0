package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chad-area/area/provider"
)

const DefaultBaseURL = "https://oauth.reddit.com"
const userAgent = "Area-App/1.0.0"

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

type Post struct {
	Id          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

func (p Post) CreatedAt() time.Time {
	return time.Unix(int64(p.CreatedUTC), 0)
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// AboutSubreddit probes that a subreddit exists and is readable.
func (c *Client) AboutSubreddit(ctx context.Context, token, subreddit string) error {
	url := fmt.Sprintf("%s/r/%s/about", c.baseURL, subreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)
	_, err = c.do(req)
	return err
}

// NewPosts lists the most recent posts of a subreddit, newest first.
func (c *Client) NewPosts(ctx context.Context, token, subreddit string, limit int) ([]Post, error) {
	url := fmt.Sprintf("%s/r/%s/new?limit=%d", c.baseURL, subreddit, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, token)
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
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
