package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/pkg/db"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/pagination"
)

// ListFilter narrows a notification listing for one user.
type ListFilter struct {
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// Service exposes the user-facing notification operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*Page, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// ServiceParams wires the notification service dependencies.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notification repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*Page, error) {
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	notifications, next, err := s.repo.List(ctx, ListParams{
		UserID:     userID,
		Limit:      filter.Limit,
		Cursor:     cursor,
		UnreadOnly: filter.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list notifications")
	}

	page := &Page{Notifications: make([]NotificationDTO, 0, len(notifications))}
	for i := range notifications {
		page.Notifications = append(page.Notifications, *FromModel(&notifications[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count notifications")
	}
	return count, nil
}

// MarkRead stamps one unread notification. Marking an already-read or
// foreign notification reads as missing.
func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, id, s.now().UTC()); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mark notifications read")
	}
	return nil
}
