package services

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// Transition is emitted whenever the session changes state or identity.
type Transition struct {
	From models.SessionState
	To   models.SessionState
	User *models.User
}

// AuthResult is the outcome of a session operation. Expected failures are
// reported here rather than as errors.
type AuthResult struct {
	Success    bool         `json:"success"`
	User       *models.User `json:"user,omitempty"`
	Message    string       `json:"message,omitempty"`
	Error      string       `json:"error,omitempty"`
	Token      string       `json:"-"`
	StatusCode int          `json:"-"`
}

func failed(serr *ServiceError) AuthResult {
	return AuthResult{Success: false, Error: serr.Message, StatusCode: serr.StatusCode}
}

// Session tracks who one client is signed in as.
type Session struct {
	auth   AuthService
	logger *zap.Logger

	mu          sync.Mutex
	state       models.SessionState
	user        *models.User
	token       string
	checked     string
	subscribers []func(context.Context, Transition)
}

func NewSession(auth AuthService, logger *zap.Logger) *Session {
	return &Session{auth: auth, logger: logger, state: models.SessionLoading}
}

// Subscribe registers fn to receive every transition. Subscribers run
// synchronously on the goroutine that caused the transition.
func (s *Session) Subscribe(fn func(context.Context, Transition)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == models.SessionAuthenticated
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// UserID returns the signed-in user's id, or "".
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// set swaps the identity and emits a transition to every subscriber.
func (s *Session) set(ctx context.Context, state models.SessionState, user *models.User, token string) {
	s.mu.Lock()
	from := s.state
	s.state = state
	s.user = user
	s.token = token
	subs := s.subscribers
	s.mu.Unlock()

	t := Transition{From: from, To: state}
	if user != nil {
		cp := *user
		t.User = &cp
	}
	for _, fn := range subs {
		fn(ctx, t)
	}
}

// Check resolves the identity behind token. Any failure leaves the session
// anonymous.
func (s *Session) Check(ctx context.Context, token string) AuthResult {
	s.mu.Lock()
	s.checked = token
	s.mu.Unlock()

	if token == "" {
		s.set(ctx, models.SessionAnonymous, nil, "")
		return failed(errUnauthorized)
	}
	user, serr := s.auth.Me(ctx, token)
	if serr != nil {
		if serr.StatusCode >= http.StatusInternalServerError {
			s.logger.Warn("Identity check failed", zap.String("error", serr.Message))
		}
		s.set(ctx, models.SessionAnonymous, nil, "")
		return failed(serr)
	}
	s.set(ctx, models.SessionAuthenticated, user, token)
	return AuthResult{Success: true, User: user, Token: token}
}

// Sync runs an identity check when the presented token no longer matches
// the session: on first contact, after a cookie change, or when it expires.
func (s *Session) Sync(ctx context.Context, token string) {
	s.mu.Lock()
	state, current, checked := s.state, s.token, s.checked
	s.mu.Unlock()

	if state == models.SessionAnonymous && (token == "" || token == checked) {
		return
	}
	if state == models.SessionAuthenticated && token == current {
		return
	}
	s.Check(ctx, token)
}

func (s *Session) Login(ctx context.Context, req models.LoginRequest) AuthResult {
	user, token, serr := s.auth.Login(ctx, req)
	if serr != nil {
		return failed(serr)
	}
	s.set(ctx, models.SessionAuthenticated, user, token)
	return AuthResult{Success: true, User: user, Token: token}
}

func (s *Session) Register(ctx context.Context, req models.RegisterRequest) AuthResult {
	user, token, serr := s.auth.Register(ctx, req)
	if serr != nil {
		return failed(serr)
	}
	s.set(ctx, models.SessionAuthenticated, user, token)
	return AuthResult{Success: true, User: user, Token: token, Message: "Account created successfully! Welcome!"}
}

// Logout always ends anonymous.
func (s *Session) Logout(ctx context.Context) AuthResult {
	s.set(ctx, models.SessionAnonymous, nil, "")
	return AuthResult{Success: true, Message: "Signed out successfully"}
}

// UpdateProfile changes the signed-in user's record. The session state is
// not changed and no transition is emitted.
func (s *Session) UpdateProfile(ctx context.Context, patch models.ProfilePatch) AuthResult {
	token := s.Token()
	if !s.IsAuthenticated() {
		return failed(errUnauthorized)
	}
	user, newToken, serr := s.auth.UpdateProfile(ctx, token, patch)
	if serr != nil {
		return failed(serr)
	}

	s.mu.Lock()
	if s.token == token {
		s.user = user
		if newToken != "" {
			s.token = newToken
		}
	}
	current := s.token
	s.mu.Unlock()

	return AuthResult{Success: true, User: user, Token: current, Message: "Profile updated successfully"}
}
