package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	ResetPassword(username, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *logrus.Logger) AuthService {
	return &authService{userRepo: userRepo, log: log}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a fresh token version invalidates tokens issued before.
	newTokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, newTokenVersion); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.OrganizationID, string(user.Role), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("user logged in")

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ResetPassword(username, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	resp := user.ToResponse()
	return &resp, nil
}
