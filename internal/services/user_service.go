package services

import (
	"context"
	"strings"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/auth"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	TOTP       *TOTPService
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, totp *TOTPService) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		TOTP:       totp,
	}
}

// Signup creates a new user with hashed password
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("name, email, and password are required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, apperrors.Validation("invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
		Role:         "employee",
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user. With 2FA off it returns a session token
// directly; with 2FA on it returns a short-lived pending token that
// LoginTOTP exchanges for the real session.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		// Same message for an unknown email and a wrong password.
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled")
	}

	if user.TOTPEnabled {
		pending, err := s.JWTManager.GeneratePendingToken(user)
		if err != nil {
			return nil, err
		}
		return &models.AuthResponse{RequiresTOTP: true, PendingToken: pending}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// LoginTOTP completes a 2FA login: validates the pending token, checks the
// authenticator code and issues the session token.
func (s *UserService) LoginTOTP(ctx context.Context, req *models.TwoFactorRequest) (*models.AuthResponse, error) {
	if req.PendingToken == "" || req.Code == "" {
		return nil, apperrors.Validation("pending_token and code are required")
	}

	claims, err := s.JWTManager.ValidatePendingToken(req.PendingToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired pending token")
	}

	user, err := s.Repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired pending token")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled")
	}

	ok, err := s.TOTP.Verify(ctx, user.ID, req.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthorized("invalid 2fa code")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}
