package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/auth/policy"
	"fuel-delivery-service/internal/auth/token"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

const minPasswordLen = 8

// dummyHash is verified against when the email is unknown so both login
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234"

// errBadCredentials is the single login failure seen by callers.
var errBadCredentials = apperr.WithMessage(apperr.ErrUnauthenticated, "invalid email or password")

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

// LoginResult is a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Service coordinates account registration and authentication.
type Service struct {
	repo             UserRepository
	hasher           PasswordHasher
	tokens           TokenIssuer
	operationTimeout time.Duration
	logger           logx.Logger
	loginFailures    prometheus.Counter
	now              func() time.Time
	newID            func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLoginFailuresCounter counts rejected logins.
func WithLoginFailuresCounter(c prometheus.Counter) Option {
	return func(s *Service) { s.loginFailures = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides user ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates and configures a user Service.
func NewService(r UserRepository, h PasswordHasher, t TokenIssuer, timeout time.Duration, logger logx.Logger, opts ...Option) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Service{
		repo:             r,
		hasher:           h,
		tokens:           t,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Register creates a self-service account. Only clients and drivers may register;
// an empty role defaults to client.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleClient
	}
	if !in.Role.SelfService() {
		return domain.User{}, apperr.Invalid("role", "must be client or driver")
	}
	return s.create(ctx, in, "")
}

// CreateUser provisions an account with any role on behalf of an owner or admin.
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, in RegisterInput) (domain.User, error) {
	if !policy.Allowed(actor.Role, policy.UserCreate) {
		return domain.User{}, apperr.ErrForbidden
	}
	return s.create(ctx, in, actor.ID)
}

func (s *Service) create(ctx context.Context, in RegisterInput, createdBy string) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	switch {
	case !domain.ValidateEmail(email):
		return domain.User{}, apperr.Invalid("email", "is not a valid address")
	case name == "":
		return domain.User{}, apperr.Invalid("name", "is required")
	case !in.Role.Valid():
		return domain.User{}, apperr.Invalid("role", "is unknown")
	case len(in.Password) < minPasswordLen:
		return domain.User{}, apperr.Invalid("password", "must be at least 8 characters")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	u := domain.User{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		Role:         in.Role,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Create(ctx, u); err != nil {
		return domain.User{}, err
	}

	fields := []logx.Field{
		logx.String("event", "user_registered"),
		logx.String("user_id", u.ID),
		logx.String("role", string(u.Role)),
	}
	if createdBy != "" {
		fields = append(fields, logx.String("created_by", createdBy))
	}
	s.logger.Info("user registered", fields...)
	return u, nil
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, apperr.Invalid("credentials", "email and password are required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	hashed := dummyHash
	if u != nil {
		hashed = u.PasswordHash
	}
	ok, err := s.hasher.Verify(password, hashed)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil || !ok {
		s.loginFailed()
		return LoginResult{}, errBadCredentials
	}

	issued, err := s.tokens.Issue(token.Claims{Subject: u.ID, Role: u.Role})
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info("user logged in",
		logx.String("event", "user_logged_in"),
		logx.String("user_id", u.ID),
	)
	return LoginResult{Token: issued.Token, ExpiresAt: issued.Claims.ExpiresAt, User: *u}, nil
}

func (s *Service) loginFailed() {
	if s.loginFailures != nil {
		s.loginFailures.Inc()
	}
	s.logger.Warn("login rejected", logx.String("event", "login_rejected"))
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return domain.User{}, apperr.Invalid("id", "is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, apperr.ErrNotFound
	}
	return *u, nil
}

// ListByRole returns all users with role.
func (s *Service) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, apperr.Invalid("role", "is unknown")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByRole(ctx, role)
}
