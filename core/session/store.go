package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
)

var (
	// ErrSuperseded is returned when a login/refresh response arrives after
	// a logout has intentionally cleared the session; the late response is
	// discarded instead of resurrecting the session.
	ErrSuperseded = errors.New("session intent superseded")

	errNoSession      = core.AuthenticationError{Message: "not authenticated"}
	errNoRefreshToken = core.AuthenticationError{Message: "no refresh token available"}
)

type (
	// Authenticator is the remote authentication collaborator.
	Authenticator interface {
		Login(ctx context.Context, creds Credentials) (Session, error)
		Refresh(ctx context.Context, refreshToken string) (Session, error)
		// Logout notifies the server that the session ended; best-effort.
		Logout(ctx context.Context, userID int, refreshToken, accessToken string) error
		ForgotPassword(ctx context.Context, fp ForgotPassword) (string, error)
		ChangePassword(ctx context.Context, accessToken string, userID int, cp ChangePassword) (string, error)
	}

	// Storage is the durable local key-value store holding the serialized
	// session and the remembered username. The Store is its single writer.
	Storage interface {
		ReadSession() (Session, bool, error)
		WriteSession(Session) error
		ClearSession() error
		ReadRemembered() (string, error)
		WriteRemembered(name string) error
		ClearRemembered() error
	}

	// State is published to subscribers on every session change.
	State struct {
		Authenticated bool
		Session       Session // zero value when unauthenticated
	}

	// Store is the single authority on "who is logged in and with what
	// session". All mutations write through to Storage before the
	// in-memory state is swapped, so a restart observes consistent state.
	Store struct {
		api     Authenticator
		storage Storage
		logger  core.Logger

		mu     sync.Mutex
		cur    *Session
		gen    uint64 // bumped on logout; in-flight responses carrying a stale gen are dropped
		subs   map[chan State]struct{}
		closed bool
	}
)

// NewStore restores any persisted session and returns a ready Store.
func NewStore(api Authenticator, storage Storage, logger core.Logger) *Store {
	s := &Store{
		api:     api,
		storage: storage,
		logger:  logger,
		subs:    make(map[chan State]struct{}),
	}
	if sess, ok, err := storage.ReadSession(); err != nil {
		logger.Warn("session: restoring persisted session", err)
	} else if ok {
		s.cur = &sess
	}
	return s
}

// Login authenticates against the remote collaborator and, on success,
// persists the new session and publishes the state change.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	sess, err := s.api.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.gen != gen {
		return Session{}, ErrSuperseded
	}
	if err := s.storage.WriteSession(sess); err != nil {
		return Session{}, errors.Wrap(err, "persisting session")
	}
	if creds.RememberMe {
		if err := s.storage.WriteRemembered(sess.Employee.FullName); err != nil {
			s.logger.Warn("session: remembering username", err)
		}
	} else if err := s.storage.ClearRemembered(); err != nil {
		s.logger.Warn("session: clearing remembered username", err)
	}
	s.cur = &sess
	s.publishLocked(State{Authenticated: true, Session: sess.clone()})
	return sess.clone(), nil
}

// Logout clears the persisted and in-memory session unconditionally, then
// notifies the server best-effort. A late-arriving login or refresh
// response cannot resurrect the session afterwards.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	cur := s.cur
	s.gen++
	s.cur = nil
	if err := s.storage.ClearSession(); err != nil {
		s.logger.Error("session: clearing persisted session", err)
	}
	s.publishLocked(State{})
	s.mu.Unlock()

	if cur != nil {
		if err := s.api.Logout(ctx, cur.UserID, cur.RefreshToken, cur.AccessToken); err != nil {
			s.logger.Warn("session: remote logout", err)
		}
	}
}

// Refresh exchanges the stored refresh token for a new session. A failed
// exchange clears the local session like Logout and surfaces the error.
func (s *Store) Refresh(ctx context.Context) (Session, error) {
	s.mu.Lock()
	cur := s.cur
	gen := s.gen
	s.mu.Unlock()

	if cur == nil {
		return Session{}, errNoSession
	}
	if cur.RefreshToken == "" {
		return Session{}, errNoRefreshToken
	}

	sess, err := s.api.Refresh(ctx, cur.RefreshToken)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.gen != gen {
		return Session{}, ErrSuperseded
	}
	if err != nil {
		s.gen++
		s.cur = nil
		if cErr := s.storage.ClearSession(); cErr != nil {
			s.logger.Error("session: clearing persisted session", cErr)
		}
		s.publishLocked(State{})
		return Session{}, err
	}
	if err := s.storage.WriteSession(sess); err != nil {
		return Session{}, errors.Wrap(err, "persisting session")
	}
	s.cur = &sess
	s.publishLocked(State{Authenticated: true, Session: sess.clone()})
	return sess.clone(), nil
}

// IsAuthenticated reports whether a session is present and its access
// token's exp claim is in the future. It never fails: a missing or
// malformed token reads as false.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	cur := s.cur
	s.mu.Unlock()

	if cur == nil {
		return false
	}
	exp, err := decodeExpiry(cur.AccessToken)
	if err != nil {
		return false
	}
	return exp.After(nowFunc())
}

// Current returns a read-only snapshot of the in-memory session.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Session{}, false
	}
	return s.cur.clone(), true
}

// RememberedUsername returns the persisted remember-me name, if any.
func (s *Store) RememberedUsername() string {
	name, err := s.storage.ReadRemembered()
	if err != nil {
		s.logger.Warn("session: reading remembered username", err)
		return ""
	}
	return name
}

// ForgotPassword requests a password-reset email; no session required.
func (s *Store) ForgotPassword(ctx context.Context, fp ForgotPassword) (string, error) {
	if err := fp.Validate(); err != nil {
		return "", err
	}
	return s.api.ForgotPassword(ctx, fp)
}

// ChangePassword replaces the current user's password; requires an
// authenticated session for the bearer token.
func (s *Store) ChangePassword(ctx context.Context, cp ChangePassword) (string, error) {
	if err := cp.Validate(); err != nil {
		return "", err
	}
	cur, ok := s.Current()
	if !ok {
		return "", errNoSession
	}
	return s.api.ChangePassword(ctx, cur.AccessToken, cur.UserID, cp)
}

// Subscribe registers interest in session state changes. Each change is
// delivered at most once per subscriber; slow subscribers only see the
// latest state. The channel is closed on Unsubscribe or Close.
func (s *Store) Subscribe() <-chan State {
	ch := make(chan State, 1)
	s.mu.Lock()
	if s.closed {
		close(ch)
	} else {
		s.subs[ch] = struct{}{}
	}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch <-chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if (<-chan State)(sub) == ch {
			delete(s.subs, sub)
			close(sub)
			return
		}
	}
}

// Close tears the store down: pending subscriptions are all closed at once
// and any in-flight login/refresh response is discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	for sub := range s.subs {
		close(sub)
		delete(s.subs, sub)
	}
}

func (s *Store) publishLocked(st State) {
	for sub := range s.subs {
		// drop a stale undelivered state so the send never blocks
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- st:
		default:
		}
	}
}
