package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(ctx context.Context, user User) (int64, error)
	Get(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, req ListUsersRequest) ([]User, error)
	UpdateStatus(ctx context.Context, id int64, status ApprovalStatus) error
}

type Service struct {
	logger   *slog.Logger
	repo     Repository
	notifier Notifier
}

func NewService(logger *slog.Logger, repo Repository, notifier Notifier) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{logger: logger, repo: repo, notifier: notifier}
}

// Register creates a pending account. Pending accounts cannot authenticate
// until an admin approves them.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Email:        req.Email,
		Name:         req.Name,
		Brand:        req.Brand,
		Role:         RoleUser,
		Status:       StatusPending,
		PasswordHash: string(hash),
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.publish(ctx, Event{Type: EventRegistered, UserID: id, Email: user.Email, Brand: user.Brand})
	return &user, nil
}

// Approve moves a pending account to approved. Only pending accounts can be
// decided on; re-deciding is a conflict, not an idempotent no-op.
func (s *Service) Approve(ctx context.Context, id, actorID int64) (*User, error) {
	return s.decide(ctx, id, actorID, StatusApproved, EventApproved)
}

// Reject moves a pending account to rejected.
func (s *Service) Reject(ctx context.Context, id, actorID int64) (*User, error) {
	return s.decide(ctx, id, actorID, StatusRejected, EventRejected)
}

func (s *Service) decide(ctx context.Context, id, actorID int64, status ApprovalStatus, eventType string) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != StatusPending {
		return nil, fmt.Errorf("%w: status %s", ErrNotPending, user.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	user.Status = status

	s.publish(ctx, Event{Type: eventType, UserID: id, Email: user.Email, Brand: user.Brand, ActorID: actorID})
	return user, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListUsersRequest) ([]User, error) {
	return s.repo.List(ctx, req)
}

// publish never fails the calling operation; a lost event is logged.
func (s *Service) publish(ctx context.Context, event Event) {
	event.At = time.Now().UTC()
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("publish user event", slog.String("type", event.Type), slog.Any("error", err))
	}
}
