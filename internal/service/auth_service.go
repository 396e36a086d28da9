package service

import (
	"errors"

	"freightdesk/config"
	"freightdesk/internal/auth"
	"freightdesk/internal/domain"
	"freightdesk/internal/models"
	"freightdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrAccountLocked  = errors.New("account is deactivated")
	ErrUnknownAccount = errors.New("no account for this email")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Register creates a staff account. Role defaults to STAFF when empty.
func (s *AuthService) Register(name, email, password, role string) (*models.User, error) {
	if role == "" {
		role = domain.RoleStaff
	}
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if !u.Active {
		return nil, "", "", ErrAccountLocked
	}
	return s.issueTokens(u)
}

// LoginWithGoogle signs in an existing staff account by Google identity.
// Accounts are not auto-created; unknown emails are rejected so only
// admin-provisioned staff can get in.
func (s *AuthService) LoginWithGoogle(googleID, email string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First Google sign-in: link to the provisioned account by email.
		u, err = s.userRepo.GetByEmail(email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrUnknownAccount
		}
		if err != nil {
			return nil, "", "", err
		}
		u.GoogleID = &googleID
		if err := s.userRepo.Update(u); err != nil {
			return nil, "", "", err
		}
	} else if err != nil {
		return nil, "", "", err
	}
	if !u.Active {
		return nil, "", "", ErrAccountLocked
	}
	return s.issueTokens(u)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*models.User, string, string, error) {
	id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", err
	}
	u, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, "", "", err
	}
	if !u.Active {
		return nil, "", "", ErrAccountLocked
	}
	return s.issueTokens(u)
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}

func (s *AuthService) issueTokens(u *models.User) (*models.User, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}
