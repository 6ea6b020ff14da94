package services

import (
	"context"
	"errors"
	"time"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/auth"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// AuthService handles authentication and account management.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	CreateUser(ctx context.Context, schoolID int64, req *dto.CreateUserRequest) (*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
}

type authServiceImpl struct {
	users    *repositories.UserRepository
	roles    *repositories.RoleRepository
	tokens   *repositories.TokenRepository
	jwt      *auth.JWTService
	notifier WelcomeNotifier
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	users *repositories.UserRepository,
	roles *repositories.RoleRepository,
	tokens *repositories.TokenRepository,
	jwtService *auth.JWTService,
	notifier WelcomeNotifier,
) AuthService {
	return &authServiceImpl{
		users:    users,
		roles:    roles,
		tokens:   tokens,
		jwt:      jwtService,
		notifier: notifier,
	}
}

// Login authenticates by username or email and issues a token pair. Failed
// lookups and failed password checks are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.ExpirationDate != nil && user.ExpirationDate.Before(time.Now()) {
		return nil, apperrors.ErrAccountExpired
	}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, user.ID, refreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: s.userResponse(ctx, user),
	}, nil
}

func (s *authServiceImpl) userResponse(ctx context.Context, user *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		SchoolID:  user.SchoolID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
	}
	if user.RoleID != nil {
		if role, err := s.roles.GetByID(ctx, user.SchoolID, *user.RoleID); err == nil {
			resp.Role = &role.Name
		}
	}
	return resp
}

// RefreshToken rotates a refresh token: the old one is invalidated and a
// fresh pair is issued.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, user.ID, newRefreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}

// Logout invalidates one refresh token.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, refreshToken)
}

// CreateUser creates a staff account within the caller's school, assigned
// to one of the school's roles.
func (s *authServiceImpl) CreateUser(ctx context.Context, schoolID int64, req *dto.CreateUserRequest) (*models.User, error) {
	role, err := s.roles.GetByID(ctx, schoolID, req.RoleID)
	if err != nil {
		return nil, err
	}
	if role.IsArchived {
		return nil, apperrors.NewBadRequestError("cannot assign an archived role")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		SchoolID:  schoolID,
		RoleID:    &role.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		Phone:     optional(req.Phone),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyWelcome(created.Email, created.FullName(), created.Username)
	}

	return created, nil
}

// GetProfile returns the caller's account with its role populated.
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RoleID != nil {
		if role, err := s.roles.GetByID(ctx, user.SchoolID, *user.RoleID); err == nil {
			user.Role = role
		}
	}
	return user, nil
}

// UpdateProfile rewrites the caller's own profile fields.
func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, optional(req.Phone)); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ChangePassword verifies the current password before replacing it. All
// refresh tokens are revoked so stolen sessions die with the old password.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.tokens.DeleteByUserID(ctx, userID)
}
