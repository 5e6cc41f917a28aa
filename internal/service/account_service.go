package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/internal/repository"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

type accountUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type accountRosterRepository interface {
	FindFaculty(ctx context.Context, fID string) (*models.Faculty, error)
	FindTutor(ctx context.Context, stID string) (*models.StudentTutor, error)
}

// AccountConfig defines registration policy and token settings.
type AccountConfig struct {
	EmailDomains      []string
	MinPasswordLength int
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
}

// AccountService implements registration, login and role lookup.
type AccountService struct {
	users     accountUserRepository
	roster    accountRosterRepository
	hasher    PasswordHasher
	validator *validator.Validate
	logger    *zap.Logger
	config    AccountConfig
	now       func() time.Time
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(users accountUserRepository, roster accountRosterRepository, hasher PasswordHasher, validate *validator.Validate, logger *zap.Logger, config AccountConfig) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = 8
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	domains := make([]string, 0, len(config.EmailDomains))
	for _, domain := range config.EmailDomains {
		if domain = strings.ToLower(strings.TrimSpace(domain)); domain != "" {
			domains = append(domains, domain)
		}
	}
	config.EmailDomains = domains
	return &AccountService{
		users:     users,
		roster:    roster,
		hasher:    hasher,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Register creates a user after validating the email domain and password policy.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !s.allowedDomain(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email must use an institutional domain")
	}
	if len(req.Password) < s.config.MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("password must be at least %d characters", s.config.MinPasswordLength))
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to secure password")
	}

	user := &models.User{
		UserID:       req.UserID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			msg := "user id already registered"
			if strings.Contains(err.Error(), "email") {
				msg = "email already registered"
			}
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msg)
		}
		return nil, appErrors.Storage(err, "failed to register user")
	}

	s.logger.Info("user registered", zap.String("user_id", user.UserID))
	info := user.Info()
	return &info, nil
}

// Login verifies the credential and issues an access token.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Storage(err, "failed to fetch user")
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify password")
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		User:        user.Info(),
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
	}, nil
}

// GetRole resolves the user id against the rosters: faculty first, then
// student tutor, otherwise student.
func (s *AccountService) GetRole(ctx context.Context, userID string) (*models.RoleLookup, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}

	faculty, err := s.roster.FindFaculty(ctx, userID)
	switch {
	case err == nil:
		return &models.RoleLookup{Role: models.RoleFaculty, Person: faculty}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Storage(err, "failed to look up faculty")
	}

	tutor, err := s.roster.FindTutor(ctx, userID)
	switch {
	case err == nil:
		return &models.RoleLookup{Role: models.RoleStudentTutor, Person: tutor}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Storage(err, "failed to look up student tutor")
	}

	return &models.RoleLookup{Role: models.RoleStudent}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AccountService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AccountService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID: user.UserID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
}

func (s *AccountService) allowedDomain(email string) bool {
	if len(s.config.EmailDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, allowed := range s.config.EmailDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}
