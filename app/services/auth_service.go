package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// AuthService handles registration and login.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt-hashed password and returns it.
func (s *AuthService) Register(name, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, InvalidState("email is already registered")
	} else if !orm.IsNotFound(err) {
		return models.User{}, Internal("look up user", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, Internal("hash password", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: "user"}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, Internal("create user", err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if orm.IsNotFound(err) {
			return "", NotFound("invalid credentials")
		}
		return "", Internal("look up user", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", NotFound("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", Internal("sign token", err)
	}
	return token, nil
}
