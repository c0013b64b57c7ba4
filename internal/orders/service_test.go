package orders

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/logger"
	"github.com/fadeatelier/fade-backend/pkg/pagination"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type fakeRepository struct {
	orders map[uuid.UUID]*models.Order
	seq    time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: map[uuid.UUID]*models.Order{}, seq: testNow}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.seq = f.seq.Add(time.Minute)
	order.CreatedAt = f.seq
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeRepository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.Reference == reference {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, params ListParams) ([]models.Order, *pagination.Cursor, error) {
	var matched []models.Order
	for _, order := range f.orders {
		if params.UserID != nil && order.UserID != *params.UserID {
			continue
		}
		if params.Status != nil && order.Status != *params.Status {
			continue
		}
		if params.Cursor != nil && !order.CreatedAt.Before(params.Cursor.CreatedAt) {
			continue
		}
		matched = append(matched, *order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := pagination.NormalizeLimit(params.Limit)
	if len(matched) > limit {
		next := matched[limit]
		return matched[:limit], &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return matched, nil, nil
}

func (f *fakeRepository) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, at time.Time) (bool, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	switch to {
	case enums.OrderStatusPaid:
		order.PaidAt = &at
	case enums.OrderStatusShipped:
		order.ShippedAt = &at
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &at
	}
	return true, nil
}

type recordingNotifier struct {
	changes []enums.OrderStatus
}

func (r *recordingNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) {
	r.changes = append(r.changes, order.Status)
}

func newTestService(t *testing.T) (Service, *fakeRepository, *recordingNotifier) {
	t.Helper()
	repo := newFakeRepository()
	sink := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Notifier: sink,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc, repo, sink
}

func seedOrder(t *testing.T, repo *fakeRepository, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		Reference:     "FADE-" + uuid.NewString()[:8],
		UserID:        userID,
		Email:         "customer@example.com",
		Status:        status,
		SubtotalMinor: 120_000,
		ShippingMinor: 15_000,
		TotalMinor:    135_000,
		Currency:      enums.CurrencyNGN,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestGetScopesToRequester(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()
	order := seedOrder(t, repo, owner, enums.OrderStatusPending)

	dto, err := svc.Get(context.Background(), order.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, order.Reference, dto.Reference)

	_, err = svc.Get(context.Background(), order.ID, &stranger)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// nil requester is the admin view
	_, err = svc.Get(context.Background(), order.ID, nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestTransitionWalksForwardOneStep(t *testing.T) {
	svc, repo, sink := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)
	ctx := context.Background()

	dto, err := svc.Transition(ctx, order.ID, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, dto.Status)
	require.NotNil(t, dto.PaidAt)

	dto, err = svc.Transition(ctx, order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, dto.Status)

	dto, err = svc.Transition(ctx, order.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, dto.Status)

	assert.Equal(t, []enums.OrderStatus{
		enums.OrderStatusPaid,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	}, sink.changes)
}

func TestTransitionRejectsSkipsAndBackwardMoves(t *testing.T) {
	svc, repo, sink := newTestService(t)
	ctx := context.Background()

	pending := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)
	_, err := svc.Transition(ctx, pending.ID, enums.OrderStatusShipped)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	shipped := seedOrder(t, repo, uuid.New(), enums.OrderStatusShipped)
	_, err = svc.Transition(ctx, shipped.ID, enums.OrderStatusPaid)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	delivered := seedOrder(t, repo, uuid.New(), enums.OrderStatusDelivered)
	_, err = svc.Transition(ctx, delivered.ID, enums.OrderStatusPaid)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	assert.Empty(t, sink.changes)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	svc, repo, sink := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPaid)

	dto, err := svc.Transition(context.Background(), order.ID, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, dto.Status)
	assert.Empty(t, sink.changes)
}

func TestTransitionUnknownStatusAndOrder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.Transition(context.Background(), order.ID, "refunded")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Transition(context.Background(), uuid.New(), enums.OrderStatusPaid)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestConfirmPayment(t *testing.T) {
	svc, repo, sink := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	dto, err := svc.ConfirmPayment(context.Background(), order.Reference, order.TotalMinor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, dto.Status)
	require.NotNil(t, dto.PaidAt)
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusPaid}, sink.changes)

	// a replayed charge is acknowledged without a second transition
	dto, err = svc.ConfirmPayment(context.Background(), order.Reference, order.TotalMinor)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, dto.Status)
	assert.Len(t, sink.changes, 1)
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	svc, repo, sink := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.ConfirmPayment(context.Background(), order.Reference, order.TotalMinor-1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Equal(t, enums.OrderStatusPending, repo.orders[order.ID].Status)
	assert.Empty(t, sink.changes)
}

func TestConfirmPaymentUnknownReference(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ConfirmPayment(context.Background(), "FADE-MISSING", 1000)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	me := uuid.New()
	other := uuid.New()
	seedOrder(t, repo, me, enums.OrderStatusPending)
	seedOrder(t, repo, me, enums.OrderStatusPaid)
	seedOrder(t, repo, other, enums.OrderStatusPending)

	mine, err := svc.List(context.Background(), ListFilter{UserID: &me, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine.Orders, 2)

	paid, err := svc.List(context.Background(), ListFilter{Status: "paid", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, paid.Orders, 1)

	_, err = svc.List(context.Background(), ListFilter{Status: "refunded"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	first, err := svc.List(context.Background(), ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotEmpty(t, first.NextCursor)

	rest, err := svc.List(context.Background(), ListFilter{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
}
