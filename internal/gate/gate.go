// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate tracks whether the current visitor is the signed-in admin.
// The admin is represented only by an opaque bearer token issued by the
// project service and kept in the visitor's session.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/repository"
)

// State is the authentication state of a session.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Authenticator exchanges passwords for tokens and checks tokens.
// *repository.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, token string) error
}

// TokenStore persists the token for one visitor.
type TokenStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string)
	// VerifiedBoot returns the boot ID recorded by MarkVerified.
	VerifiedBoot(ctx context.Context) string
	MarkVerified(ctx context.Context, bootID string)
	Clear(ctx context.Context)
	// Renew rotates the session identifier after a privilege change.
	Renew(ctx context.Context) error
}

// Result is the outcome of a login attempt. Error is empty when OK.
type Result struct {
	OK    bool
	Error string
}

// Login failure messages.
const (
	MsgPasswordRequired = "Password is required."
	MsgInvalidPassword  = "Invalid password."
	MsgUnavailable      = "Cannot reach the server. Please try again later."
	MsgLoginFailed      = "Login failed. Please try again."
)

// Gate guards admin views. One Gate serves all requests; per-visitor state
// lives in the TokenStore.
type Gate struct {
	auth          Authenticator
	store         TokenStore
	bootID        string
	verifyTimeout time.Duration
}

// New creates a Gate. Each Gate gets a fresh boot ID, so tokens stored
// before the process started are verified once more before being trusted.
func New(auth Authenticator, store TokenStore) *Gate {
	return &Gate{
		auth:          auth,
		store:         store,
		bootID:        uuid.NewString(),
		verifyTimeout: 5 * time.Second,
	}
}

// Init resolves the state of the current session. A stored token that has
// not been verified since startup is checked with the project service; if it
// is rejected or the service cannot be reached the token is cleared.
func (g *Gate) Init(ctx context.Context) State {
	token := g.store.Token(ctx)
	if token == "" {
		return Unauthenticated
	}
	if g.store.VerifiedBoot(ctx) == g.bootID {
		return Authenticated
	}

	vctx, cancel := context.WithTimeout(ctx, g.verifyTimeout)
	defer cancel()

	if err := g.auth.Verify(vctx, token); err != nil {
		slog.Warn("stored admin token rejected, signing out",
			"category", model.EventCategoryAuth, "error", err)
		g.store.Clear(ctx)
		return Unauthenticated
	}
	g.store.MarkVerified(ctx, g.bootID)
	return Authenticated
}

// IsAuthenticated reports whether Init resolves to Authenticated.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	return g.Init(ctx) == Authenticated
}

// Login exchanges password for a token and stores it. It never returns an
// error; failures are reported in Result.Error as readable text.
func (g *Gate) Login(ctx context.Context, password string) Result {
	if password == "" {
		return Result{Error: MsgPasswordRequired}
	}

	slog.Debug("gate transition", "from", Unauthenticated, "to", Authenticating)

	token, err := g.auth.Login(ctx, password)
	if err != nil {
		slog.Debug("gate transition", "from", Authenticating, "to", Unauthenticated)
		return Result{Error: loginMessage(err)}
	}
	if token == "" {
		return Result{Error: MsgLoginFailed}
	}

	if err := g.store.Renew(ctx); err != nil {
		slog.Error("failed to renew session on login", "error", err)
		return Result{Error: MsgLoginFailed}
	}
	g.store.SetToken(ctx, token)
	g.store.MarkVerified(ctx, g.bootID)

	slog.Debug("gate transition", "from", Authenticating, "to", Authenticated)
	return Result{OK: true}
}

// Logout clears the stored token.
func (g *Gate) Logout(ctx context.Context) {
	g.store.Clear(ctx)
	if err := g.store.Renew(ctx); err != nil {
		slog.Warn("failed to renew session on logout", "error", err)
	}
}

// Token returns the bearer token for admin mutations, or "" when signed out.
func (g *Gate) Token(ctx context.Context) string {
	return g.store.Token(ctx)
}

func loginMessage(err error) string {
	var re *repository.RemoteError
	switch {
	case errors.Is(err, repository.ErrUnavailable):
		return MsgUnavailable
	case errors.Is(err, repository.ErrUnauthorized):
		return MsgInvalidPassword
	case errors.As(err, &re) && re.Message != "":
		return re.Message
	}
	return MsgLoginFailed
}
