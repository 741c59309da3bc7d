package service

import (
	"errors"
	"fmt"
	"strings"

	"fyp_portal_backend/internal/config"
	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/repository"
	"fyp_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register creates an account. Students and supervisors must use the
// institutional mail domain when enforcement is on.
func (s *AuthService) Register(user *model.User) error {
	if user.Role == "" {
		user.Role = model.Student
	}

	if s.Cfg.Institution.EnforceEmailDomain &&
		(user.Role == model.Student || user.Role == model.Supervisor) {
		domain := "@" + s.Cfg.Institution.EmailDomain
		if !strings.HasSuffix(strings.ToLower(user.Email), domain) {
			return fmt.Errorf("%w: %s accounts must use a %s address",
				util.ErrValidation, user.Role, domain)
		}
	}

	if user.Role == model.Supervisor && user.MaxGroups == 0 {
		user.MaxGroups = s.Cfg.Institution.DefaultMaxGroups
	}

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return fmt.Errorf("%w: email already registered", util.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
