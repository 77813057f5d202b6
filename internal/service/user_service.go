package service

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"
)

type CreateUserInput struct {
	Username string         `json:"username" validate:"required,min=3,max=50"`
	Password string         `json:"password" validate:"required,min=6"`
	Role     model.UserRole `json:"role" validate:"required,oneof=owner cashier"`
}

type UpdateUserInput struct {
	Password *string         `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *model.UserRole `json:"role,omitempty" validate:"omitempty,oneof=owner cashier"`
	IsActive *bool           `json:"is_active,omitempty"`
}

type UserService interface {
	ListUsers(actor Actor) ([]model.UserResponse, error)
	CreateUser(actor Actor, input *CreateUserInput) (*model.UserResponse, error)
	UpdateUser(actor Actor, id uuid.UUID, input *UpdateUserInput) (*model.UserResponse, error)
	DeleteUser(actor Actor, id uuid.UUID) error
}

type userService struct {
	userRepo    repository.UserRepository
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	log         *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, historyRepo repository.HistoryRepository, db *gorm.DB, log *logrus.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		db:          db,
		log:         log,
	}
}

func (s *userService) ListUsers(actor Actor) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

func (s *userService) CreateUser(actor Actor, input *CreateUserInput) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}

	if existing, _ := s.userRepo.FindByUsername(input.Username); existing != nil {
		return nil, apperr.Conflict("username", input.Username)
	}

	orgID := actor.OrganizationID
	user := &model.User{
		Username:       input.Username,
		OrganizationID: &orgID,
		Role:           input.Role,
		IsActive:       true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"username": user.Username,
		"role":     user.Role,
		"by":       actor.Username,
	}).Info("user created")

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(actor Actor, id uuid.UUID, input *UpdateUserInput) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}

	user, err := s.findInOrg(actor, id)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
		// Force re-login after a password change.
		user.TokenVersion = uuid.New().String()
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// DeleteUser removes the account but keeps its trail in the ledger. Entries
// it requested or reviewed stay with the actor reference cleared.
func (s *userService) DeleteUser(actor Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return apperr.Validation("cannot delete your own account")
	}
	user, err := s.findInOrg(actor, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.historyRepo.NullifyUserRefs(tx, user.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, user.ID)
	})
}

func (s *userService) findInOrg(actor Actor, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID == nil || *user.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("user", id)
	}
	return user, nil
}
