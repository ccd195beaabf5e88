// Package accounts handles sign-up, sign-in with failed-attempt lockout,
// password recovery, and customer profile management.
package accounts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/patitas/storefront/internal/app/domain/customer"
	"github.com/patitas/storefront/internal/app/domain/user"
	"github.com/patitas/storefront/internal/app/services/params"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked reports an account disabled after too many failed
	// sign-in attempts.
	ErrAccountLocked = errors.New("account locked after too many failed attempts")
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload issued on successful sign-in.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service wires user accounts, customer profiles, the lockout threshold from
// the parameter cache, and token issuance.
type Service struct {
	users     storage.UserStore
	customers storage.CustomerStore
	params    *params.Service
	mailer    Mailer
	log       *logger.Logger

	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func New(users storage.UserStore, customers storage.CustomerStore, paramSvc *params.Service, mailer Mailer, jwtSecret string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	if mailer == nil {
		mailer = NewLogMailer(log)
	}
	return &Service{
		users:     users,
		customers: customers,
		params:    paramSvc,
		mailer:    mailer,
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  defaultTokenTTL,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for token expiry. Test hook.
func (s *Service) WithClock(now func() time.Time) {
	s.now = now
}

// RegisterInput carries everything needed to open an account with its
// customer profile.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
}

// Register creates a user with the client role and its customer profile.
// Emails are unique, matched case-insensitively.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 6 {
		return user.User{}, fmt.Errorf("password must be at least 6 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return user.User{}, fmt.Errorf("name is required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return user.User{}, fmt.Errorf("email %s is already registered", email)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         user.RoleClient,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	if _, err := s.customers.CreateCustomer(ctx, customer.Customer{
		UserID:  created.ID,
		Name:    in.Name,
		Email:   email,
		Phone:   in.Phone,
		Address: in.Address,
	}); err != nil {
		return user.User{}, fmt.Errorf("create customer profile: %w", err)
	}

	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, nil
}

// Authenticate verifies credentials and returns a signed token. Each wrong
// password increments the account's failure counter; reaching the configured
// threshold locks the account until an admin unlocks it or the password is
// recovered. The threshold is re-read from the parameter cache per attempt.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, fmt.Errorf("look up user: %w", err)
	}
	if u.Locked {
		return "", user.User{}, ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		u.FailedLogins++
		maxAttempts := s.params.MaxLoginAttempts(ctx)
		if u.FailedLogins >= maxAttempts {
			u.Locked = true
			s.log.WithField("user_id", u.ID).Warn("account locked after failed attempts")
		}
		if _, err := s.users.UpdateUser(ctx, u); err != nil {
			s.log.WithError(err).Error("record failed sign-in attempt")
		}
		if u.Locked {
			return "", user.User{}, ErrAccountLocked
		}
		return "", user.User{}, ErrInvalidCredentials
	}

	if u.FailedLogins != 0 {
		u.FailedLogins = 0
		if u, err = s.users.UpdateUser(ctx, u); err != nil {
			return "", user.User{}, fmt.Errorf("reset attempt counter: %w", err)
		}
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

func (s *Service) issueToken(u user.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token issued by Authenticate.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RecoverPassword replaces the account's password with a generated temporary
// one, clears the lockout, and mails the new password to the account owner.
// An unknown email succeeds silently to avoid account enumeration.
func (s *Service) RecoverPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	temp, err := temporaryPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	u.FailedLogins = 0
	u.Locked = false
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("store recovered password: %w", err)
	}

	body := fmt.Sprintf("Your temporary password is: %s\nPlease sign in and change it.", temp)
	if err := s.mailer.Send(ctx, u.Email, "Password recovery", body); err != nil {
		return fmt.Errorf("send recovery mail: %w", err)
	}
	s.log.WithField("user_id", u.ID).Info("password recovered")
	return nil
}

func temporaryPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ChangePassword verifies the current password before storing a new one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Unlock clears the lockout on an account. Admin operation.
func (s *Service) Unlock(ctx context.Context, userID string) error {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.Locked = false
	u.FailedLogins = 0
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("unlock user %s: %w", userID, err)
	}
	s.log.WithField("user_id", userID).Info("account unlocked")
	return nil
}

func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.ListUsers(ctx)
}

// CustomerForUser returns the profile linked to a sign-in account.
func (s *Service) CustomerForUser(ctx context.Context, userID string) (customer.Customer, error) {
	return s.customers.GetCustomerByUser(ctx, userID)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (customer.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return customer.Customer{}, fmt.Errorf("customer name is required")
	}
	updated, err := s.customers.UpdateCustomer(ctx, c)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("update customer %s: %w", c.ID, err)
	}
	return updated, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	return s.customers.ListCustomers(ctx)
}
