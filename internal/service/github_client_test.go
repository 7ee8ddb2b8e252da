package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcgen/svcgen/internal/logger"
)

func newGitHubTestServer(t *testing.T, login string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		switch {
		case r.Method == "GET" && r.URL.Path == "/user":
			fmt.Fprintf(w, `{"login": %q}`, login)
		case r.Method == "POST" && r.URL.Path == "/user/repos":
			var payload struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"full_name": "%s/%s", "html_url": "https://github.com/%s/%s", "ssh_url": "git@github.com:%s/%s.git"}`,
				login, payload.Name, login, payload.Name, login, payload.Name)
		case r.Method == "POST" && r.URL.Path == "/orgs/acme/repos":
			var payload struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"full_name": "acme/%s", "ssh_url": "git@github.com:acme/%s.git"}`,
				payload.Name, payload.Name)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newGitHubTestServer(t, "alice")

	client := NewGitHubClient(srv.URL, "test-token", logger.NewNop())
	login, err := client.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
}

func TestCreateRepositoryForUser(t *testing.T) {
	srv := newGitHubTestServer(t, "alice")

	client := NewGitHubClient(srv.URL, "test-token", logger.NewNop())
	repo, err := client.CreateRepository(context.Background(), "alice", "demo", "a demo", false)
	require.NoError(t, err)

	assert.Equal(t, "alice/demo", repo.FullName)
	assert.Equal(t, "git@github.com:alice/demo.git", repo.SSHURL)
}

func TestCreateRepositoryForOrg(t *testing.T) {
	srv := newGitHubTestServer(t, "alice")

	client := NewGitHubClient(srv.URL, "test-token", logger.NewNop())
	repo, err := client.CreateRepository(context.Background(), "acme", "demo", "", true)
	require.NoError(t, err)

	assert.Equal(t, "acme/demo", repo.FullName)
}

func TestCreateRepositoryNoToken(t *testing.T) {
	client := NewGitHubClient("http://unused", "", logger.NewNop())
	_, err := client.CreateRepository(context.Background(), "alice", "demo", "", false)
	assert.Error(t, err)
}

func TestCreateRepositoryConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user" {
			fmt.Fprint(w, `{"login": "alice"}`)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "name already exists on this account"}`)
	}))
	defer srv.Close()

	client := NewGitHubClient(srv.URL, "test-token", logger.NewNop())
	_, err := client.CreateRepository(context.Background(), "alice", "demo", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已存在")
}

func TestCreateRepositoryBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer srv.Close()

	client := NewGitHubClient(srv.URL, "bad-token", logger.NewNop())
	_, err := client.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "令牌无效")
}
