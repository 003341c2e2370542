package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
)

type userService struct {
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.UserService {
	return &userService{
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// EnsureUser provisions or refreshes the user row from verified token
// claims. Runs on every authenticated request, so the common path is a
// single read.
func (s *userService) EnsureUser(ctx context.Context, userID, email, name string) (*models.User, error) {
	existing, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Email == email && nameEqual(existing.Name, name) {
		return existing, nil
	}

	var user *models.User
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		role := models.RoleUser
		if existing == nil {
			// Serialize with other provisioning transactions so only
			// one of two concurrent first registrations sees count 0
			if err := s.userRepo.LockProvisioning(txCtx); err != nil {
				return err
			}
			count, err := s.userRepo.Count(txCtx)
			if err != nil {
				return err
			}
			if count == 0 {
				role = models.RoleAdmin
			}
		} else {
			role = existing.Role
		}

		now := time.Now()
		candidate := &models.User{
			ID:        userID,
			Email:     email,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if name != "" {
			candidate.Name = &name
		}

		user, err = s.userRepo.Upsert(txCtx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	if existing == nil {
		s.logger.Info("user provisioned", "id", user.ID, "role", user.Role)
	}

	return user, nil
}

// GetUser retrieves a provisioned user
func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return user, nil
}

func nameEqual(stored *string, claimed string) bool {
	if stored == nil {
		return claimed == ""
	}
	return *stored == claimed
}
