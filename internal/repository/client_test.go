// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

const projectsJSON = `[
	{"id": 1, "title": "One", "status": "published", "technologies": "Go, SQL ,", "tags": ["web"]},
	{"id": 2, "title": "Two", "status": "draft", "technologies": ["Go", "Redis"]},
	{"id": 3, "title": "Three", "status": "completed", "technologies": []}
]`

func newTestClient(t *testing.T, handler http.Handler, policy FallbackPolicy) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Policy: policy})
	require.NoError(t, err)
	return c
}

func deadServerURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestList_Visibility(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/", r.URL.Path)
		_, _ = w.Write([]byte(projectsJSON))
	}), PolicyPropagate)
	ctx := context.Background()

	all, err := c.List(ctx, VisibilityAdmin)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.Technologies{"Go", "SQL"}, all[0].Technologies)
	assert.Equal(t, model.Technologies{"Go", "Redis"}, all[1].Technologies)

	public, err := c.List(ctx, VisibilityPublic)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, int64(1), public[0].ID)
	assert.Equal(t, int64(3), public[1].ID)
}

func TestGet_HiddenDraftIsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(projectsJSON))
	}), PolicyPropagate)
	ctx := context.Background()

	_, err := c.Get(ctx, 2, VisibilityPublic)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := c.Get(ctx, 2, VisibilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Two", p.Title)
}

func TestList_Caches(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(projectsJSON))
	}), PolicyPropagate)
	ctx := context.Background()

	_, err := c.List(ctx, VisibilityPublic)
	require.NoError(t, err)
	_, err = c.List(ctx, VisibilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	c.Invalidate(ctx)
	_, err = c.List(ctx, VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestList_PropagatePolicy(t *testing.T) {
	c, err := New(Options{BaseURL: deadServerURL(), Policy: PolicyPropagate})
	require.NoError(t, err)

	_, err = c.List(context.Background(), VisibilityPublic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestList_FallbackPolicy(t *testing.T) {
	c, err := New(Options{BaseURL: deadServerURL(), Policy: PolicyFallback})
	require.NoError(t, err)

	projects, err := c.List(context.Background(), VisibilityPublic)
	require.NoError(t, err)
	assert.NotEmpty(t, projects)
	for _, p := range projects {
		assert.True(t, p.IsPublic(), "project %d should be public", p.ID)
	}
}

func TestList_FallbackIgnoresRemoteErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "database is locked"}`))
	}), PolicyFallback)

	_, err := c.List(context.Background(), VisibilityPublic)
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, "database is locked", re.Message)
}

func TestMutations_RequireToken(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}), PolicyPropagate)
	ctx := context.Background()

	_, err := c.Create(ctx, model.Project{Title: "x"}, "")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.ErrorIs(t, c.Update(ctx, 1, model.Project{Title: "x"}, ""), ErrMissingToken)
	assert.ErrorIs(t, c.Delete(ctx, 1, ""), ErrMissingToken)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCreate_SendsBearerAndPayload(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/", func(w http.ResponseWriter, _ *http.Request) {
		listCalls.Add(1)
		_, _ = w.Write([]byte(projectsJSON))
	})
	mux.HandleFunc("POST /api/admin/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello World", body["title"])
		assert.Equal(t, "hello-world", body["slug"])
		assert.Equal(t, []any{"Go", "HTML"}, body["technologies"])
		assert.Contains(t, body["content"], `"type":"heading"`)
		assert.NotContains(t, body, "media", "an absent gallery must not be sent as null")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Project created successfully", "project": {"id": 42, "slug": "hello-world"}}`))
	})
	c := newTestClient(t, mux, PolicyPropagate)
	ctx := context.Background()

	_, err := c.List(ctx, VisibilityAdmin)
	require.NoError(t, err)

	created, err := c.Create(ctx, model.Project{
		Title:        "Hello World",
		Technologies: model.Technologies{"Go", "HTML"},
		Status:       model.ProjectStatusDraft,
		Blocks:       []model.Block{{ID: "1", Type: model.BlockHeading, Content: "Hi"}},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	_, err = c.List(ctx, VisibilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load(), "create should invalidate the list cache")
}

func TestUpdate_RemoteErrorMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/projects/7", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Title is required"}`))
	}), PolicyPropagate)

	err := c.Update(context.Background(), 7, model.Project{}, "tok")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Title is required", re.Message)
	assert.Equal(t, "Title is required", Message(err))
}

func TestDelete_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Token is invalid or expired"}`))
	}), PolicyPropagate)

	err := c.Delete(context.Background(), 3, "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginAndVerify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Invalid password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token": "abc", "message": "Login successful"}`))
	})
	mux.HandleFunc("GET /api/admin/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, mux, PolicyPropagate)
	ctx := context.Background()

	token, err := c.Login(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = c.Login(ctx, "wrong")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid password", re.Message)

	assert.NoError(t, c.Verify(ctx, "abc"))
	assert.ErrorIs(t, c.Verify(ctx, "nope"), ErrUnauthorized)
	assert.ErrorIs(t, c.Verify(ctx, ""), ErrMissingToken)
}

func TestFavorites(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"films": {"A-Tier": [{"title": "Memento"}], "S-Tier": [{"title": "Oldboy"}]}, "athletes": {}}`))
	}), PolicyPropagate)

	fav, err := c.Favorites(context.Background())
	require.NoError(t, err)
	require.Len(t, fav.Films, 2)
	assert.Equal(t, "S-Tier", fav.Films[0].Name)
	assert.Equal(t, "Oldboy", fav.Films[0].Items[0].DisplayName())
	assert.Empty(t, fav.Sports)
}

func TestFavorites_FallsBackToBundled(t *testing.T) {
	c, err := New(Options{BaseURL: deadServerURL()})
	require.NoError(t, err)

	fav, err := c.Favorites(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, fav.Films)
	assert.NotEmpty(t, fav.Sports)
}

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(nil))
	assert.Contains(t, Message(ErrUnavailable), "unreachable")
	assert.Contains(t, Message(ErrMissingToken), "log in")
	assert.Contains(t, Message(errors.New("boom")), "went wrong")
	assert.Equal(t, "Project not found.", Message(&RemoteError{Status: http.StatusNotFound}))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPropagate, p)

	p, err = ParsePolicy(" Fallback ")
	require.NoError(t, err)
	assert.Equal(t, PolicyFallback, p)

	_, err = ParsePolicy("retry")
	assert.Error(t, err)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
