package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/api/middleware"
	"github.com/fadeatelier/fade-backend/internal/notifications"
)

type testNotificationsService struct {
	listFn     func(ctx context.Context, userID uuid.UUID, filter notifications.ListFilter) (*notifications.Page, error)
	markReadFn func(ctx context.Context, userID, id uuid.UUID) error
	unread     int64
}

func (s *testNotificationsService) List(ctx context.Context, userID uuid.UUID, filter notifications.ListFilter) (*notifications.Page, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, filter)
	}
	return &notifications.Page{}, nil
}

func (s *testNotificationsService) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return s.unread, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, id)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func TestListNotificationsForwardsFilter(t *testing.T) {
	userID := uuid.New()
	var gotUser uuid.UUID
	var gotFilter notifications.ListFilter
	svc := &testNotificationsService{
		listFn: func(_ context.Context, uid uuid.UUID, filter notifications.ListFilter) (*notifications.Page, error) {
			gotUser = uid
			gotFilter = filter
			return &notifications.Page{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unreadOnly=true&limit=10&cursor=abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != userID {
		t.Fatalf("unexpected user %s", gotUser)
	}
	if !gotFilter.UnreadOnly || gotFilter.Limit != 10 || gotFilter.Cursor != "abc" {
		t.Fatalf("unexpected filter %+v", gotFilter)
	}
}

func TestListNotificationsRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rec := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUnreadNotificationCount(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	UnreadNotificationCount(&testNotificationsService{unread: 4}, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["unread"] != 4 {
		t.Fatalf("unexpected count %d", envelope.Data["unread"])
	}
}

func TestMarkNotificationRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	var gotUser, gotID uuid.UUID
	svc := &testNotificationsService{
		markReadFn: func(_ context.Context, uid, id uuid.UUID) error {
			gotUser = uid
			gotID = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "notificationId", notificationID.String())
	rec := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != userID || gotID != notificationID {
		t.Fatalf("unexpected call %s %s", gotUser, gotID)
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("expected read=true")
	}
}

func TestMarkNotificationReadRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/nope/read", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "notificationId", "nope")
	rec := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationsService{}, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
