package services

import (
	"context"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "RentaCloud"

type TOTPService struct {
	userRepo *repositories.UserRepository
}

func NewTOTPService(userRepo *repositories.UserRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo}
}

// GenerateSetup creates a new TOTP secret for a user. The secret is stored
// but 2FA stays off until the user confirms a code via VerifyAndEnable.
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int) (*models.TOTPSetupResponse, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
	}, nil
}

// VerifyAndEnable verifies a TOTP code against the stored secret and turns
// 2FA on for the user.
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return err
	}
	if secret == "" {
		return apperrors.InvalidState("2fa setup not initiated")
	}

	if !totp.Validate(code, secret) {
		return apperrors.Unauthorized("invalid verification code")
	}

	return s.userRepo.EnableTOTP(ctx, userID)
}

// Verify validates a TOTP code during login.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) (bool, error) {
	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return false, err
	}
	if secret == "" {
		return false, apperrors.InvalidState("2fa is not enabled")
	}
	return totp.Validate(code, secret), nil
}
