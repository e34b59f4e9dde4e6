// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/olegiv/folio/internal/model"
)

// DemoTokenTTL matches the lifetime of tokens issued by the project service.
const DemoTokenTTL = 24 * time.Hour

// argon2id parameters for the demo password (m=19 MiB, t=2, p=1).
const (
	demoArgonTime    = 2
	demoArgonMemory  = 19 * 1024
	demoArgonThreads = 1
	demoArgonKeyLen  = 32
	demoSaltLen      = 16
)

// demoSecret is the salted argon2id key of the demo password. The plain
// password is never kept.
type demoSecret struct {
	salt []byte
	key  []byte
}

func newDemoSecret(password string) (demoSecret, error) {
	salt := make([]byte, demoSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return demoSecret{}, fmt.Errorf("generating salt: %w", err)
	}
	return demoSecret{salt: salt, key: deriveDemoKey(password, salt)}, nil
}

func deriveDemoKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, demoArgonTime, demoArgonMemory, demoArgonThreads, demoArgonKeyLen)
}

func (s demoSecret) matches(password string) bool {
	return subtle.ConstantTimeCompare(deriveDemoKey(password, s.salt), s.key) == 1
}

// DemoStore is the in-memory project store used in offline mode. It is
// seeded with the bundled dataset and answers the same operations as the
// project service, including login with a demo password.
type DemoStore struct {
	mu       sync.RWMutex
	projects []model.Project
	nextID   int64
	favs     model.Favorites
	secret   demoSecret
	tokens   map[string]time.Time // token -> expiry
	now      func() time.Time
}

// NewDemoStore creates a store seeded with the bundled projects and
// favorites. password is the demo admin password.
func NewDemoStore(password string) (*DemoStore, error) {
	if password == "" {
		return nil, fmt.Errorf("demo password is required")
	}
	projects, err := BundledProjects()
	if err != nil {
		return nil, err
	}
	favs, err := BundledFavorites()
	if err != nil {
		return nil, err
	}
	secret, err := newDemoSecret(password)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, p := range projects {
		maxID = max(maxID, p.ID)
	}

	return &DemoStore{
		projects: projects,
		nextID:   maxID + 1,
		favs:     favs,
		secret:   secret,
		tokens:   make(map[string]time.Time),
		now:      time.Now,
	}, nil
}

func (s *DemoStore) listProjects(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = cloneProject(p)
	}
	return out, nil
}

func (s *DemoStore) createProject(_ context.Context, p model.Project, token string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTokenLocked(token); err != nil {
		return p, err
	}
	if p.Title == "" {
		return p, &RemoteError{Status: http.StatusBadRequest, Message: "Title is required"}
	}

	now := s.now().UTC()
	p.ID = s.nextID
	s.nextID++
	if s.slugTakenLocked(p.Slug, 0) {
		p.Slug = fmt.Sprintf("%s-%d", p.Slug, now.Unix())
	}
	p.CreatedAt = &now
	p.UpdatedAt = &now

	s.projects = append([]model.Project{cloneProject(p)}, s.projects...)
	return p, nil
}

func (s *DemoStore) updateProject(_ context.Context, id int64, p model.Project, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTokenLocked(token); err != nil {
		return err
	}
	i := s.indexLocked(id)
	if i < 0 {
		return &RemoteError{Status: http.StatusNotFound, Message: "Project not found"}
	}

	now := s.now().UTC()
	existing := s.projects[i]
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = &now
	if p.Slug == "" || s.slugTakenLocked(p.Slug, id) {
		p.Slug = existing.Slug
	}
	s.projects[i] = cloneProject(p)
	return nil
}

func (s *DemoStore) deleteProject(_ context.Context, id int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTokenLocked(token); err != nil {
		return err
	}
	i := s.indexLocked(id)
	if i < 0 {
		return &RemoteError{Status: http.StatusNotFound, Message: "Project not found"}
	}
	s.projects = slices.Delete(s.projects, i, i+1)
	return nil
}

func (s *DemoStore) login(_ context.Context, password string) (string, error) {
	if password == "" {
		return "", &RemoteError{Status: http.StatusBadRequest, Message: "Password is required"}
	}
	if !s.secret.matches(password) {
		return "", &RemoteError{Status: http.StatusUnauthorized, Message: "Invalid password"}
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.pruneTokensLocked()
	s.tokens[token] = s.now().Add(DemoTokenTTL)
	s.mu.Unlock()
	return token, nil
}

func (s *DemoStore) verify(_ context.Context, token string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkTokenLocked(token)
}

func (s *DemoStore) favorites(_ context.Context) (model.Favorites, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favs, nil
}

// checkTokenLocked needs at least a read lock.
func (s *DemoStore) checkTokenLocked(token string) error {
	if token == "" {
		return &RemoteError{Status: http.StatusUnauthorized, Message: "Token is missing"}
	}
	expiry, ok := s.tokens[token]
	if !ok || s.now().After(expiry) {
		return &RemoteError{Status: http.StatusUnauthorized, Message: "Token is invalid or expired"}
	}
	return nil
}

func (s *DemoStore) pruneTokensLocked() {
	now := s.now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}

func (s *DemoStore) indexLocked(id int64) int {
	return slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
}

func (s *DemoStore) slugTakenLocked(slug string, exceptID int64) bool {
	if slug == "" {
		return false
	}
	return slices.ContainsFunc(s.projects, func(p model.Project) bool {
		return p.Slug == slug && p.ID != exceptID
	})
}

func cloneProject(p model.Project) model.Project {
	p.Technologies = slices.Clone(p.Technologies)
	p.Tags = slices.Clone(p.Tags)
	p.Media = slices.Clone(p.Media)
	p.Blocks = slices.Clone(p.Blocks)
	for i := range p.Blocks {
		p.Blocks[i].Images = slices.Clone(p.Blocks[i].Images)
		p.Blocks[i].Metadata = maps.Clone(p.Blocks[i].Metadata)
	}
	return p
}
