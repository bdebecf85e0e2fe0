package reaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/provider/discord"
	"github.com/chad-area/area/registry"
	"github.com/stretchr/testify/require"
)

type memLogDao struct {
	entries []model.LogEntry
}

func (d *memLogDao) Append(ctx context.Context, entry model.LogEntry) error {
	d.entries = append(d.entries, entry)
	return nil
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func discordFixture(t *testing.T) (*DiscordReactions, *memLogDao, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		requests = append(requests, rec)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "999"}`))
	}))
	t.Cleanup(srv.Close)

	logs := &memLogDao{}
	d := NewDiscordReactions(discord.NewClientWithBaseURL("bot-tok", srv.URL), logs)
	return d, logs, &requests
}

func TestRegisterAllCoversEveryReaction(t *testing.T) {
	d, _, _ := discordFixture(t)
	reg := registry.New()
	require.NoError(t, d.RegisterAll(reg))

	for id := model.REACTION_DISCORD_MESSAGE; id <= model.REACTION_DISCORD_CREATE_ROLE; id++ {
		_, ok := reg.Reaction(id)
		require.True(t, ok, "reaction %d has no executor", id)
	}
}

func TestSendMessage(t *testing.T) {
	d, logs, requests := discordFixture(t)
	err := d.sendMessage(context.Background(), "u1", []string{"chan-1", "hello"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/channels/chan-1/messages", req.Path)
	require.Equal(t, "hello", req.Body["content"])

	require.Len(t, logs.entries, 1)
	require.Equal(t, "Discord Reaction", logs.entries[0].Context)
}

func TestSendMessageArity(t *testing.T) {
	d, _, requests := discordFixture(t)
	err := d.sendMessage(context.Background(), "u1", []string{"chan-1"})
	require.Error(t, err)
	require.Empty(t, *requests)
}

func TestSendDMOpensChannelFirst(t *testing.T) {
	d, _, requests := discordFixture(t)
	err := d.sendDM(context.Background(), "u1", []string{"discord-user", "psst"})
	require.NoError(t, err)

	require.Len(t, *requests, 2)
	require.Equal(t, "/users/@me/channels", (*requests)[0].Path)
	require.Equal(t, "/channels/999/messages", (*requests)[1].Path)
}

func TestKickMemberDefaultsReason(t *testing.T) {
	d, _, requests := discordFixture(t)
	err := d.kickMember(context.Background(), "u1", []string{"guild-1", "member-1"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	require.Equal(t, http.MethodDelete, (*requests)[0].Method)
	require.Equal(t, "/guilds/guild-1/members/member-1", (*requests)[0].Path)
}

func TestBanMemberParsesDeleteDays(t *testing.T) {
	d, _, requests := discordFixture(t)
	err := d.banMember(context.Background(), "u1", []string{"guild-1", "member-1", "spam", "7"})
	require.NoError(t, err)
	require.Len(t, *requests, 1)

	err = d.banMember(context.Background(), "u1", []string{"guild-1", "member-1", "spam", "lots"})
	require.Error(t, err)
}

func TestCreateRoleParsesColor(t *testing.T) {
	d, _, requests := discordFixture(t)
	err := d.createRole(context.Background(), "u1", []string{"guild-1", "mods", "#FF0000"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	require.Equal(t, "/guilds/guild-1/roles", (*requests)[0].Path)
	require.Equal(t, float64(0xFF0000), (*requests)[0].Body["color"])

	err = d.createRole(context.Background(), "u1", []string{"guild-1", "mods", "not-a-color"})
	require.Error(t, err)
}
