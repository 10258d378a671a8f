package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/avlebedev/finops-service/internal/config"
	"github.com/avlebedev/finops-service/internal/models"
	"github.com/avlebedev/finops-service/internal/repository"
)

// RateConverter normalizes amounts between currencies
type RateConverter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool)
}

// ReminderSender dispatches overdue reminders to users
type ReminderSender interface {
	Enabled() bool
	SendOverdueReminder(to, username string, items []models.OverdueInvoice) error
}

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	rates  RateConverter
	email  ReminderSender
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, rates RateConverter, email ReminderSender) *Service {
	return &Service{repo: repo, log: log, config: cfg, rates: rates, email: email}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	if username == "" {
		return nil, &models.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if email == "" {
		return nil, &models.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &models.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", models.ErrUnauthorized
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrUnauthorized
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userIDFromContext extracts the request-scoped identity set by the auth
// middleware. Every protected operation is scoped by it.
func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, models.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, models.ErrUnauthorized
	}
	return userID, nil
}

// audit records a mutation; audit failures are logged, never fatal for the
// request that triggered them.
func (s *Service) audit(table, recordID, action string, userID int64) {
	entry := &models.AuditEntry{
		TableName: table,
		RecordID:  recordID,
		Action:    action,
		UserID:    userID,
	}
	if err := s.repo.InsertAuditEntry(entry); err != nil {
		s.log.Errorf("Failed to write audit entry for %s %s: %v", table, recordID, err)
	}
}
