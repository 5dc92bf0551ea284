package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courier/config"
	"courier/internal/auth"
	"courier/internal/domain"
	"courier/internal/models"
	"courier/internal/repository"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(name, email, password, phone string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Phone:        phone,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	return s.issueTokens(u)
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	return s.issueTokens(u)
}

// LoginWithGoogle links or creates a user from a verified Google identity.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u, err = s.userRepo.GetByEmail(email)
		switch {
		case err == nil:
			u.GoogleID = &googleID
			if u.AvatarURL == "" {
				u.AvatarURL = avatarURL
			}
			if err := s.userRepo.Update(u); err != nil {
				return nil, "", "", err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = &models.User{
				Name:      name,
				Email:     email,
				Role:      domain.RoleCustomer,
				GoogleID:  &googleID,
				AvatarURL: avatarURL,
			}
			if err := s.userRepo.Create(u); err != nil {
				return nil, "", "", err
			}
		default:
			return nil, "", "", err
		}
	}
	return s.issueTokens(u)
}

func (s *AuthService) Refresh(refreshToken string) (*models.User, string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, "", "", auth.ErrInvalidToken
	}
	return s.issueTokens(u)
}

func (s *AuthService) issueTokens(u *models.User) (*models.User, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}
