package session

import (
	"encoding/json"
	"net/url"
	"sync"

	"github.com/progtrack-dev/progtrack/internal/cli/auth"
	"github.com/progtrack-dev/progtrack/internal/cli/client"
	"github.com/progtrack-dev/progtrack/internal/cli/userconfig"
)

// Admin is the role required by the admin-only guard
const Admin = "ADMIN"

// State is an immutable snapshot of the session. All fields are
// replaced together on every transition, so an observer never sees a
// half-updated session.
type State struct {
	Authenticated bool
	User          *client.UserInfo
	Token         string
	Loading       bool
	Err           string
}

// Store owns the session state for the lifetime of the process. It
// persists credentials across restarts (token in the OS keyring, user
// profile on disk) and rehydrates them on construction. Reads return
// snapshots, never references to internal state.
type Store struct {
	mu       sync.Mutex
	state    State
	watchers []chan State

	api      *client.Client
	host     string
	tokens   auth.TokenStore
	profiles userconfig.ProfileStore
	navigate func(route string)
}

// Option configures a Store
type Option func(*Store)

// WithTokenStore overrides the keyring-backed token storage
func WithTokenStore(tokens auth.TokenStore) Option {
	return func(s *Store) { s.tokens = tokens }
}

// WithProfileStore overrides the on-disk profile storage
func WithProfileStore(profiles userconfig.ProfileStore) Option {
	return func(s *Store) { s.profiles = profiles }
}

// WithNavigator sets the callback invoked when the store requests a
// navigation, e.g. to the root route after logout
func WithNavigator(navigate func(route string)) Option {
	return func(s *Store) { s.navigate = navigate }
}

// New creates a session store for the given server and rehydrates any
// persisted session. A token without a stored user (or the reverse) is
// treated as corrupt: both are cleared and the store starts signed out.
func New(baseURL string, opts ...Option) *Store {
	s := &Store{
		tokens:   auth.Default,
		profiles: userconfig.Default,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.host = hostOf(baseURL)
	s.api = client.New(baseURL, s)
	s.rehydrate()

	return s
}

func hostOf(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return baseURL
	}
	return parsed.Host
}

// API returns the HTTP client bound to this session. Requests made
// through it carry the session token and evict the session on 401.
func (s *Store) API() *client.Client {
	return s.api
}

func (s *Store) rehydrate() {
	token, err := s.tokens.LoadToken(s.host)
	if err != nil {
		token = ""
	}
	profile, err := s.profiles.LoadProfile()
	if err != nil {
		profile = nil
	}

	var user *client.UserInfo
	if profile != nil && len(profile.User) > 0 {
		user = &client.UserInfo{}
		if err := json.Unmarshal(profile.User, user); err != nil {
			user = nil
		}
	}

	if token == "" || user == nil {
		// Partial or unreadable leftovers; clear them rather than
		// resume a session we cannot trust
		if token != "" || profile != nil {
			s.clearPersisted()
		}
		return
	}

	s.state = State{Authenticated: true, User: user, Token: token}
}

func (s *Store) clearPersisted() {
	_ = s.tokens.DeleteToken(s.host)
	_ = s.profiles.DeleteProfile()
}

// setState replaces the snapshot and notifies watchers. Caller must
// hold s.mu.
func (s *Store) setState(next State) {
	s.state = next
	for _, ch := range s.watchers {
		// Keep only the latest snapshot per watcher; a slow reader
		// sees the newest state, not a backlog
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

func (s *Store) beginOperation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Loading = true
	next.Err = ""
	s.setState(next)
}

// failOperation records the classified message and returns the original
// error so the caller can act on it directly
func (s *Store) failOperation(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Loading = false
	next.Err = Classify(err)
	s.setState(next)
	return err
}

func (s *Store) settleOperation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Loading = false
	next.Err = ""
	s.setState(next)
}

// Login authenticates against the server and, on success, persists the
// token and user so the session survives restarts. On failure the store
// stays signed out and records the classified message. No two requests
// are sequenced against each other; when logins race, the last response
// to arrive determines the final state.
func (s *Store) Login(emailOrUsername, password string, rememberMe bool) (*client.UserInfo, error) {
	s.beginOperation()

	resp, err := s.api.Login(emailOrUsername, password)
	if err != nil {
		return nil, s.failOperation(err)
	}

	rawUser, err := json.Marshal(resp.User)
	if err != nil {
		return nil, s.failOperation(err)
	}
	if err := s.tokens.SaveToken(s.host, resp.Token); err != nil {
		return nil, s.failOperation(err)
	}
	if err := s.profiles.SaveProfile(&userconfig.Profile{User: rawUser, RememberMe: rememberMe}); err != nil {
		// Token alone is useless without the user; roll it back
		_ = s.tokens.DeleteToken(s.host)
		return nil, s.failOperation(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setState(State{
		Authenticated: true,
		User:          resp.User,
		Token:         resp.Token,
	})
	return resp.User, nil
}

// Register creates an account. It never authenticates: the caller must
// verify the email and log in afterwards.
func (s *Store) Register(req client.RegisterRequest) (*client.RegisterResponse, error) {
	s.beginOperation()

	resp, err := s.api.Register(req)
	if err != nil {
		return nil, s.failOperation(err)
	}

	s.settleOperation()
	return resp, nil
}

// VerifyEmail confirms an email address. Verification does not sign the
// user in.
func (s *Store) VerifyEmail(token string) (*client.VerificationResponse, error) {
	s.beginOperation()

	resp, err := s.api.VerifyEmail(token)
	if err != nil {
		return nil, s.failOperation(err)
	}

	s.settleOperation()
	return resp, nil
}

// ResendVerification requests a fresh verification email
func (s *Store) ResendVerification(email string) (*client.ApiResponse, error) {
	s.beginOperation()

	resp, err := s.api.ResendVerification(email)
	if err != nil {
		return nil, s.failOperation(err)
	}

	s.settleOperation()
	return resp, nil
}

// Logout clears the persisted token and user, resets the session to the
// signed-out default and navigates to the root route. Logging out while
// already signed out leaves the same end state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clearPersisted()
	s.setState(State{})
	navigate := s.navigate
	s.mu.Unlock()

	if navigate != nil {
		navigate("/")
	}
}

// Token returns the current access token, or "" when signed out. Part
// of the client.CredentialSource contract.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// InvalidateSession evicts the session after the server rejected its
// token. Part of the client.CredentialSource contract.
func (s *Store) InvalidateSession() {
	s.Logout()
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a user is signed in
func (s *Store) IsAuthenticated() bool {
	return s.State().Authenticated
}

// CurrentUser returns the signed-in user, or nil
func (s *Store) CurrentUser() *client.UserInfo {
	return s.State().User
}

// HasRole reports whether the signed-in user has the given role
func (s *Store) HasRole(role string) bool {
	user := s.CurrentUser()
	return user != nil && user.Role == role
}

// IsAdmin reports whether the signed-in user is an administrator
func (s *Store) IsAdmin() bool {
	return s.HasRole(Admin)
}

// IsVerified reports whether the signed-in user confirmed their email
func (s *Store) IsVerified() bool {
	user := s.CurrentUser()
	return user != nil && user.Verified
}

// Watch returns a channel that receives the current snapshot
// immediately and the newest snapshot after every transition.
// Intermediate states may be skipped; the latest always arrives.
func (s *Store) Watch() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	ch <- s.state
	s.watchers = append(s.watchers, ch)
	return ch
}
