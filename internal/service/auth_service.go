package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrTokenInvalid = errors.New("token is invalid or expired")

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	clock         func() time.Time
	log           *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, clock func() time.Time) *AuthService {
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		clock:         clock,
		log:           zap.NewNop(),
	}
}

// Register creates an account. Only admins reach this through the API.
func (s *AuthService) Register(ctx context.Context, req RegisterUser) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, apperror.NewBadRequest("username must have at least 3 characters").WithCode("VALIDATION_ERROR")
	}
	if len(req.Password) < 6 {
		return nil, apperror.NewBadRequest("password must have at least 6 characters").WithCode("VALIDATION_ERROR")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, translate(err)
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, translate(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.NewConflict("username '%s' is already taken", username).WithCode("DUPLICATE_ENTRY")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, translate(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		Username: username,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
		IsActive: true,
	}
	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, translate(err)
	}
	createdUser.Password = ""
	s.log.Info("user registered", zap.Int("user_id", createdUser.ID), zap.String("role", string(createdUser.Role)))
	return createdUser, nil
}

func (s *AuthService) Login(ctx context.Context, req Login) (*domain.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.Unauthorized, ErrInvalidCredentials, "%s", ErrInvalidCredentials)
		}
		return nil, translate(fmt.Errorf("find user: %w", err))
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.Unauthorized, ErrInvalidCredentials, "%s", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized, ErrInvalidCredentials, "%s", ErrInvalidCredentials)
	}

	now := s.clock()
	claims := jwt.MapClaims{
		"sub":      strconv.Itoa(user.ID),
		"exp":      now.Add(s.jwtExpiration).Unix(),
		"iat":      now.Unix(),
		"role":     string(user.Role),
		"username": user.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, translate(fmt.Errorf("sign token: %w", err))
	}

	return &domain.AuthResponseDTO{
		Token:    tokenString,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) GetUser(ctx context.Context, req GetUser) (*domain.User, error) {
	if err := requireID("userId", req.ID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "user %d not found", req.ID))
	}
	user.Password = ""
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.Register(ctx, RegisterUser{domain.RegisterUserDTO{
		Username: username,
		Password: password,
		FullName: "Administrator",
		Role:     string(domain.RoleAdmin),
	}})
	return err
}

// ValidateToken parses an HS256 token issued by Login.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.clock))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, nil, fmt.Errorf("%w: malformed token", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, fmt.Errorf("%w: token expired", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, nil, fmt.Errorf("%w: token not valid yet", ErrTokenInvalid)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, nil, ErrTokenInvalid
	}
	return token, claims, nil
}
