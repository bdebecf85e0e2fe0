package trigger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/provider/github"
	"github.com/stretchr/testify/require"
)

const workflowURL = "https://area.example.com"

func githubFixture(t *testing.T, handler http.Handler) *GithubPushHandler {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dao := newFakeWorkflowDao(model.Workflow{
		Id: "wf-1", UserId: "u1", ActionId: model.ACTION_GITHUB_PUSH,
		ActionData: []string{"octocat", "hello-world"},
	})
	users := &fakeUserServiceDao{grants: map[int]*model.UserService{
		model.SERVICE_GITHUB: {UserId: "u1", ServiceId: model.SERVICE_GITHUB, Token: "ghp_tok"},
	}}
	return NewGithubPushHandler(dao, users, github.NewClientWithBaseURL(srv.URL), workflowURL)
}

func TestGithubCreateRegistersHook(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	h := githubFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1}`))
	}))

	err := h.Create(context.Background(), "wf-1", []string{"octocat", "hello-world"})
	require.NoError(t, err)
	require.Equal(t, "POST /repos/octocat/hello-world/hooks", gotPath)

	config := gotBody["config"].(map[string]any)
	require.Equal(t, workflowURL+"/webhook/github/wf-1", config["url"])
	require.Equal(t, []any{"push"}, gotBody["events"])
}

func TestGithubCreateValidatesArity(t *testing.T) {
	h := githubFixture(t, http.NotFoundHandler())
	err := h.Create(context.Background(), "wf-1", []string{"octocat"})
	require.Error(t, err)
}

func TestGithubCreateWithoutToken(t *testing.T) {
	h := githubFixture(t, http.NotFoundHandler())
	h.userServices = &fakeUserServiceDao{grants: map[int]*model.UserService{}}
	err := h.Create(context.Background(), "wf-1", []string{"octocat", "hello-world"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "logged in with github")
}

func TestGithubDeleteRemovesMatchingHook(t *testing.T) {
	var deletedPath string
	h := githubFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]github.Hook{
				{Id: 7, Config: github.HookConfig{URL: "https://other.example.com/hook"}},
				{Id: 9, Config: github.HookConfig{URL: workflowURL + "/webhook/github/wf-1"}},
			})
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	err := h.Delete(context.Background(), "wf-1", []string{"octocat", "hello-world"})
	require.NoError(t, err)
	require.Equal(t, "/repos/octocat/hello-world/hooks/9", deletedPath)
}

func TestGithubDeleteTolerance(t *testing.T) {
	for scenario, handler := range map[string]http.HandlerFunc{
		"repository gone": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"access revoked": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		"hook removed manually": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]github.Hook{})
		},
		"hook deleted concurrently": func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode([]github.Hook{
					{Id: 9, Config: github.HookConfig{URL: workflowURL + "/webhook/github/wf-1"}},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			h := githubFixture(t, handler)
			err := h.Delete(context.Background(), "wf-1", []string{"octocat", "hello-world"})
			require.NoError(t, err)
		})
	}
}

func TestGithubDeletePropagatesServerErrors(t *testing.T) {
	h := githubFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	err := h.Delete(context.Background(), "wf-1", []string{"octocat", "hello-world"})
	require.Error(t, err)
}
