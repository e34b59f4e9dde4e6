// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// remote talks to the project service over HTTP.
type remote struct {
	baseURL string
	http    *http.Client
}

// projectPayload is the body of create and update requests. The service
// stores blocks as encoded text in content, so both forms are sent.
type projectPayload struct {
	Title            string        `json:"title"`
	Slug             string        `json:"slug,omitempty"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description"`
	Technologies     []string      `json:"technologies"`
	Status           string        `json:"status"`
	ImageURL         string        `json:"image_url"`
	DemoURL          string        `json:"demo_url"`
	GithubURL        string        `json:"github_url"`
	Blocks           []model.Block `json:"blocks"`
	Content          string        `json:"content"`
	Media            []model.Media `json:"media,omitempty"`
	Tags             []string      `json:"tags"`
	Featured         bool          `json:"featured"`
}

func newProjectPayload(p model.Project) (projectPayload, error) {
	blocks := p.Blocks
	if blocks == nil {
		blocks = []model.Block{}
	}
	content, err := json.Marshal(blocks)
	if err != nil {
		return projectPayload{}, fmt.Errorf("encoding blocks: %w", err)
	}
	techs := []string(p.Technologies)
	if techs == nil {
		techs = []string{}
	}
	return projectPayload{
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.Description,
		Technologies:     techs,
		Status:           p.Status,
		ImageURL:         p.ImageURL,
		DemoURL:          p.DemoURL,
		GithubURL:        p.GithubURL,
		Blocks:           blocks,
		Content:          string(content),
		Media:            p.Media,
		Tags:             p.Tags,
		Featured:         p.Featured,
	}, nil
}

// mutationResponse is the service's reply to create and update.
type mutationResponse struct {
	Message string `json:"message"`
	Project struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	} `json:"project"`
}

func (r *remote) listProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.do(ctx, http.MethodGet, "/api/projects/", "", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *remote) createProject(ctx context.Context, p model.Project, token string) (model.Project, error) {
	body, err := newProjectPayload(p)
	if err != nil {
		return p, err
	}
	var resp mutationResponse
	if err := r.do(ctx, http.MethodPost, "/api/admin/projects", token, body, &resp); err != nil {
		return p, err
	}
	p.ID = resp.Project.ID
	if resp.Project.Slug != "" {
		p.Slug = resp.Project.Slug
	}
	return p, nil
}

func (r *remote) updateProject(ctx context.Context, id int64, p model.Project, token string) error {
	body, err := newProjectPayload(p)
	if err != nil {
		return err
	}
	return r.do(ctx, http.MethodPut, "/api/admin/projects/"+strconv.FormatInt(id, 10), token, body, nil)
}

func (r *remote) deleteProject(ctx context.Context, id int64, token string) error {
	return r.do(ctx, http.MethodDelete, "/api/admin/projects/"+strconv.FormatInt(id, 10), token, nil, nil)
}

func (r *remote) login(ctx context.Context, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"password": password}
	if err := r.do(ctx, http.MethodPost, "/api/admin/login", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return resp.Token, nil
}

func (r *remote) verify(ctx context.Context, token string) error {
	return r.do(ctx, http.MethodGet, "/api/admin/verify", token, nil, nil)
}

func (r *remote) favorites(ctx context.Context) (model.Favorites, error) {
	var fav model.Favorites
	err := r.do(ctx, http.MethodGet, "/api/favorites/", "", nil, &fav)
	return fav, err
}

// do sends a JSON request and decodes a JSON reply into out when out is
// non-nil. Transport failures wrap ErrUnavailable; non-2xx replies become
// *RemoteError.
func (r *remote) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func remoteError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(data, &payload); err == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" && !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		msg = strings.TrimSpace(string(data))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}
