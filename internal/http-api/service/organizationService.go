package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// OrganizationService manages the staff accounts behind the roles: listing
// users, updating roles and removing accounts. Role changes are visible on
// the next permission check because the evaluator never caches roles.
type OrganizationService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*models.User, error)
	RemoveUser(ctx context.Context, userID string) error
}

type organizationService struct {
	userRepo repository.UserRepository
}

func NewOrganizationService(userRepo repository.UserRepository) OrganizationService {
	return &organizationService{userRepo: userRepo}
}

func (s *organizationService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *organizationService) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *organizationService) RemoveUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(ctx, userID)
}
