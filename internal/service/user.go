package service

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/dto"
	"storefront/internal/model"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, seller bool) (uint, error)
	Activate(ctx context.Context, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	Profile(ctx context.Context, userID uint) (*dto.ProfileResponse, error)
}

// Claims carried in the auth token.
type Claims struct {
	UserID uint `json:"uid"`
	Seller bool `json:"seller"`
	jwt.RegisteredClaims
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	mailer   client.Mailer
	authCfg  *config.Auth
	baseURL  string
	logger   *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	mailer client.Mailer,
	authCfg *config.Auth,
	baseURL string,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		mailer:   mailer,
		authCfg:  authCfg,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Register creates an inactive account and sends the activation link.
func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest, seller bool) (uint, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		return 0, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return 0, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return 0, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:        req.Username,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Seller:          seller,
		Balance:         decimal.Zero,
		ActivationToken: uuid.NewString(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	activationURL := fmt.Sprintf("%s/api/activate/%s", s.baseURL, user.ActivationToken)
	if err := s.mailer.SendActivationEmail(user.Email, activationURL); err != nil {
		// account exists; the link can be re-sent out of band
		s.logger.Error("send activation email",
			zap.String("username", user.Username),
			zap.Error(err))
	}

	return user.ID, nil
}

func (s *userServiceImpl) Activate(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: activation token", ErrNotFound)
		}
		return fmt.Errorf("find activation token: %w", err)
	}
	return s.userRepo.Activate(ctx, user.ID)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrUnauthorized
	}
	if !user.Active {
		return "", ErrInactiveUser
	}

	claims := &Claims{
		UserID: user.ID,
		Seller: user.Seller,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.authCfg.TokenTTL) * time.Hour)),
			Subject:   user.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *userServiceImpl) Profile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &dto.ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Seller:   user.Seller,
		Balance:  user.Balance,
	}, nil
}
