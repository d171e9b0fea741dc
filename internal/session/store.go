package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
)

const bootstrapTimeout = 10 * time.Second

// ErrEmailTaken marks a sign-up conflict (duplicate email). Distinguished
// by HTTP status, never by message text.
var ErrEmailTaken = errors.New("email already in use")

// AuthAPI is what the store needs from the auth backend client.
type AuthAPI interface {
	Login(ctx context.Context, creds restapi.Credentials) error
	Register(ctx context.Context, reg restapi.Registration) error
	Me(ctx context.Context) (*restapi.MeResponse, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, update restapi.ProfileUpdate) (*restapi.MeResponse, error)
	ClearCredentials()
}

// Store holds the current session. Invariant: authenticated exactly when
// user is non-nil. loading is true only during the one-time bootstrap
// check that runs at construction.
type Store struct {
	api AuthAPI

	mu       sync.Mutex
	user     *domain.UserProfile
	loading  bool
	lastErr  string
	ready    chan struct{}
	readyOne sync.Once

	sfg singleflight.Group
}

// NewStore creates the store and kicks off the session bootstrap: one
// CheckAuth resolving the durable credential to a user, or to anonymous.
func NewStore(api AuthAPI) *Store {
	s := &Store{
		api:     api,
		loading: true,
		ready:   make(chan struct{}),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()
		_, _ = s.CheckAuth(ctx)
	}()

	return s
}

// CheckAuth asks the backend who the credential belongs to. Roles are
// normalized to the canonical uppercase set here, once, so every downstream
// check works on the same tokens. A 401/403 is the benign anonymous case:
// the credential is cleared and nothing is logged as unexpected. The
// loading flag resolves regardless of outcome.
func (s *Store) CheckAuth(ctx context.Context) (*domain.UserProfile, error) {
	v, err, _ := s.sfg.Do("check-auth", func() (interface{}, error) {
		defer s.finishBootstrap()

		me, errMe := s.api.Me(ctx)
		if errMe != nil {
			if !restapi.IsAuthError(errMe) {
				log.Printf("unexpected session check failure: %v", errMe)
			}
			s.api.ClearCredentials()
			s.setUser(nil)
			return nil, errMe
		}

		user := &domain.UserProfile{
			ID:    me.ID,
			Name:  me.Name,
			Email: me.Email,
			Roles: domain.NormalizeRoles(me.RoleNames()),
		}
		s.setUser(user)
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.UserProfile), nil
}

// Login authenticates and then re-checks the session: the /auth/me response
// is the source of truth for profile and roles, not the login response.
func (s *Store) Login(ctx context.Context, creds restapi.Credentials) (*domain.UserProfile, error) {
	if err := s.api.Login(ctx, creds); err != nil {
		s.setError(restapi.ErrorMessage(err))
		s.setUser(nil)
		return nil, err
	}

	s.setError("")
	return s.CheckAuth(ctx)
}

// Register creates the account and resolves the fresh session. A 409 from
// the backend maps to ErrEmailTaken.
func (s *Store) Register(ctx context.Context, reg restapi.Registration) (*domain.UserProfile, error) {
	if err := s.api.Register(ctx, reg); err != nil {
		if restapi.IsConflict(err) {
			s.setError(ErrEmailTaken.Error())
			return nil, ErrEmailTaken
		}
		s.setError(restapi.ErrorMessage(err))
		return nil, err
	}

	s.setError("")
	return s.CheckAuth(ctx)
}

// Logout invalidates the backend session best-effort and always clears the
// local one.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		log.Printf("logout request failed: %v", err)
	}
	s.api.ClearCredentials()
	s.setUser(nil)
	s.setError("")
}

// UpdateProfile pushes name/email changes and refreshes the cached user.
func (s *Store) UpdateProfile(ctx context.Context, update restapi.ProfileUpdate) (*domain.UserProfile, error) {
	me, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		s.setError(restapi.ErrorMessage(err))
		return nil, err
	}

	user := &domain.UserProfile{
		ID:    me.ID,
		Name:  me.Name,
		Email: me.Email,
		Roles: domain.NormalizeRoles(me.RoleNames()),
	}
	s.setUser(user)
	return user, nil
}

func (s *Store) User() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Ready is closed once the bootstrap session check has resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) setUser(user *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

func (s *Store) finishBootstrap() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.readyOne.Do(func() { close(s.ready) })
}
