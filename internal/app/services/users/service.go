// Package users implements signup, login and user management.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// DefaultRole is assigned to every self-registered account.
const DefaultRole = "user"

// ErrInvalidCredentials is returned when the email/password pair does not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims are embedded in issued tokens.
type Claims struct {
	UserID   int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Service manages user accounts and authentication.
type Service struct {
	store     storage.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *logger.Logger
}

// New constructs a user service. tokenTTL bounds the validity of issued JWTs.
func New(store storage.UserStore, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	if tokenTTL <= 0 {
		tokenTTL = 5 * time.Hour
	}
	return &Service{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Signup registers a new account with the default role. The password is
// stored as a bcrypt hash.
func (s *Service) Signup(ctx context.Context, fullName, email, password string) (user.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	if fullName == "" || email == "" || password == "" {
		return user.User{}, services.Invalidf("full name, email and password are required")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return user.User{}, services.Invalidf("user already exists with this email")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Email:    email,
		Password: string(hash),
		FullName: fullName,
		Role:     DefaultRole,
	})
	if err != nil {
		// The existence pre-check races with concurrent signups; the unique
		// constraint is authoritative.
		if isUniqueViolation(err) {
			return user.User{}, services.Invalidf("email already in use")
		}
		return user.User{}, err
	}

	s.log.WithField("user_id", created.ID).WithField("email", created.Email).Info("user signed up")
	return created, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", user.User{}, services.Invalidf("email and password are required")
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Unknown email and wrong password are indistinguishable to the
			// caller.
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", user.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		FullName: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", user.User{}, err
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return token, u, nil
}

// VerifyToken parses and validates a token issued by Login.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id int64) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateProfile changes a user's display name and, when a new password is
// provided, replaces the stored hash. An empty password leaves it untouched.
func (s *Service) UpdateProfile(ctx context.Context, id int64, fullName, password string) error {
	if strings.TrimSpace(fullName) == "" {
		return services.Invalidf("full name is required")
	}

	var hash string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(hashed)
	}

	if err := s.store.UpdateUserProfile(ctx, id, strings.TrimSpace(fullName), hash); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("user profile updated")
	return nil
}

// UpdateRole changes a user's role.
func (s *Service) UpdateRole(ctx context.Context, id int64, role string) error {
	if strings.TrimSpace(role) == "" {
		return services.Invalidf("role is required")
	}
	if err := s.store.UpdateUserRole(ctx, id, strings.TrimSpace(role)); err != nil {
		return err
	}
	s.log.WithField("user_id", id).WithField("role", role).Info("user role updated")
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
