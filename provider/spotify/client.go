package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chad-area/area/provider"
)

const DefaultBaseURL = "https://api.spotify.com/v1"

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

type Track struct {
	Id      string
	Name    string
	Artists []string
	Album   string
	AddedAt time.Time
}

func (t Track) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

type savedTracksResponse struct {
	Items []struct {
		AddedAt time.Time `json:"added_at"`
		Track   struct {
			Id      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name string `json:"name"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}

// SavedTracks lists the user's saved tracks, most recently added first.
func (c *Client) SavedTracks(ctx context.Context, token string, limit int) ([]Track, error) {
	url := fmt.Sprintf("%s/me/tracks?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
	var parsed savedTracksResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	tracks := make([]Track, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		track := Track{
			Id:      item.Track.Id,
			Name:    item.Track.Name,
			Album:   item.Track.Album.Name,
			AddedAt: item.AddedAt,
		}
		for _, artist := range item.Track.Artists {
			track.Artists = append(track.Artists, artist.Name)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
