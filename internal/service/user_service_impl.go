package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, name string, role domain.Role) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Resolve maps an unknown or empty ID to ErrAuthorization so callers never
// learn whether a user exists.
func (s *userService) Resolve(ctx context.Context, id string) (domain.Actor, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Actor{}, fmt.Errorf("no acting user given: %w", domain.ErrAuthorization)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("unknown acting user %q: %w", id, domain.ErrAuthorization)
	}
	return u.Actor(), nil
}

type auditService struct {
	events repository.AuditRepo
}

func NewAuditService(events repository.AuditRepo) AuditService {
	return &auditService{events: events}
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	return s.events.ListRecent(ctx, limit)
}
