package alert

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/alert"
	"github.com/wms/backend/internal/domain/layout"
	"github.com/wms/backend/internal/domain/shared"
)

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]alert.Alert, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]alert.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *MockAlertRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) CountActivePerWeekday(ctx context.Context) (map[time.Weekday]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Weekday]int64), args.Error(1)
}

func newTestAlert(t *testing.T) *alert.Alert {
	t.Helper()
	a, err := alert.NewAlert(alert.TypeCriticalStock, "Stock crítico: MAT-001", alert.SeverityHigh, "layout_upload", "")
	require.NoError(t, err)
	return a
}

func TestList(t *testing.T) {
	repo := new(MockAlertRepository)
	service := NewService(repo, zap.NewNop())
	filter := shared.DefaultFilter()

	repo.On("FindAll", mock.Anything, filter).Return([]alert.Alert{*newTestAlert(t)}, int64(1), nil)

	result, err := service.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "critical_stock", result.Items[0].Type)
	assert.Equal(t, "high", result.Items[0].Severity)
	assert.Equal(t, "active", result.Items[0].State)
	assert.Nil(t, result.Items[0].ClosedAt)
}

func TestClose(t *testing.T) {
	t.Run("closes an active alert", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewService(repo, zap.NewNop())
		a := newTestAlert(t)

		repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
		repo.On("Save", mock.Anything, a).Return(nil)

		dto, err := service.Close(context.Background(), a.ID)

		require.NoError(t, err)
		assert.Equal(t, "closed", dto.State)
		require.NotNil(t, dto.ClosedAt)
		repo.AssertExpectations(t)
	})

	t.Run("closing twice fails", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewService(repo, zap.NewNop())
		a := newTestAlert(t)
		require.NoError(t, a.Close())

		repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)

		_, err := service.Close(context.Background(), a.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALERT_ALREADY_CLOSED", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown alert yields not found", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewService(repo, zap.NewNop())
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.Close(context.Background(), id)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCountActive(t *testing.T) {
	repo := new(MockAlertRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("CountActive", mock.Anything).Return(int64(3), nil)

	count, err := service.CountActive(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCriticalStockHandler(t *testing.T) {
	newEvent := func(t *testing.T) *layout.StockCriticalEvent {
		t.Helper()
		slot, err := layout.NewSlot("MAT-001", "Tornillo M8", "PZA", "A-01-01",
			decimal.NewFromInt(5), decimal.NewFromInt(20), decimal.NewFromInt(200),
			decimal.NewFromInt(50), decimal.NewFromInt(10))
		require.NoError(t, err)
		return layout.NewStockCriticalEvent(slot)
	}

	t.Run("raises a high severity alert", func(t *testing.T) {
		repo := new(MockAlertRepository)
		handler := NewCriticalStockHandler(repo, zap.NewNop())

		var saved *alert.Alert
		repo.On("Save", mock.Anything, mock.AnythingOfType("*alert.Alert")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*alert.Alert) }).
			Return(nil)

		err := handler.Handle(context.Background(), newEvent(t))

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, alert.TypeCriticalStock, saved.Type)
		assert.Equal(t, alert.SeverityHigh, saved.Severity)
		assert.True(t, saved.IsActive())
		assert.Contains(t, saved.Message, "MAT-001")
		assert.Contains(t, saved.Message, "A-01-01")
		assert.Contains(t, saved.Details, "safety_stock")
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		repo := new(MockAlertRepository)
		handler := NewCriticalStockHandler(repo, zap.NewNop())

		event := layout.NewLayoutReplacedEvent(uuid.New(), 10, 0)
		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("subscribes to critical stock events only", func(t *testing.T) {
		handler := NewCriticalStockHandler(new(MockAlertRepository), zap.NewNop())
		assert.Equal(t, []string{layout.EventTypeStockCritical}, handler.EventTypes())
	})
}
