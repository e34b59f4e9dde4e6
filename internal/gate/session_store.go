// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gate

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// Session keys
const (
	SessionKeyToken    = "auth_token"
	SessionKeyVerified = "auth_verified_boot"
)

// SessionStore keeps the token in an scs session. The request context must
// have been loaded by the session manager's LoadAndSave middleware.
type SessionStore struct {
	sm *scs.SessionManager
}

// NewSessionStore creates a TokenStore on sm.
func NewSessionStore(sm *scs.SessionManager) *SessionStore {
	return &SessionStore{sm: sm}
}

func (s *SessionStore) Token(ctx context.Context) string {
	return s.sm.GetString(ctx, SessionKeyToken)
}

func (s *SessionStore) SetToken(ctx context.Context, token string) {
	s.sm.Put(ctx, SessionKeyToken, token)
}

func (s *SessionStore) VerifiedBoot(ctx context.Context) string {
	return s.sm.GetString(ctx, SessionKeyVerified)
}

func (s *SessionStore) MarkVerified(ctx context.Context, bootID string) {
	s.sm.Put(ctx, SessionKeyVerified, bootID)
}

func (s *SessionStore) Clear(ctx context.Context) {
	s.sm.Remove(ctx, SessionKeyToken)
	s.sm.Remove(ctx, SessionKeyVerified)
}

func (s *SessionStore) Renew(ctx context.Context) error {
	return s.sm.RenewToken(ctx)
}

var _ TokenStore = (*SessionStore)(nil)
