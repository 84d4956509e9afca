package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) ReplaceAll(ctx context.Context, snapshot *inventory.Snapshot, items []inventory.InventoryItem) error {
	args := m.Called(ctx, snapshot, items)
	return args.Error(0)
}

func (m *mockItemRepo) FindAll(ctx context.Context) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *mockItemRepo) CountLines(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemRepo) CountByLevel(ctx context.Context) (map[inventory.StockLevel]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[inventory.StockLevel]int64), args.Error(1)
}

type mockSnapshotRepo struct {
	mock.Mock
}

func (m *mockSnapshotRepo) FindAll(ctx context.Context) ([]inventory.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Snapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Snapshot), args.Error(1)
}

func (m *mockSnapshotRepo) Current(ctx context.Context) (*inventory.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Snapshot), args.Error(1)
}

type mockCountRepo struct {
	mock.Mock
}

func (m *mockCountRepo) ReplaceAll(ctx context.Context, entries []inventory.CountEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *mockCountRepo) FindAll(ctx context.Context) ([]inventory.CountEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.CountEntry), args.Error(1)
}

func (m *mockCountRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func snapshotLine(t *testing.T, code, text, location, onHand string) inventory.InventoryItem {
	t.Helper()
	qty, err := decimal.NewFromString(onHand)
	require.NoError(t, err)
	item, err := inventory.NewInventoryItem(uuid.New(), code, text, "UN", location, qty)
	require.NoError(t, err)
	return *item
}

func setupInventoryRouter(items *mockItemRepo, snapshots *mockSnapshotRepo, counts *mockCountRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := inventoryapp.NewService(items, snapshots, counts, nil, nil, nil, zap.NewNop())
	handler := NewInventoryHandler(service)

	r := gin.New()
	group := r.Group("/api/v1/inventory")
	{
		group.POST("/snapshot", handler.UploadSnapshot)
		group.GET("/items", handler.List)
		group.GET("/count-sheet", handler.CountSheet)
		group.POST("/count", handler.SaveCount)
		group.GET("/reconciliation", handler.Reconciliation)
		group.POST("/export", handler.ExportDiscrepancies)
		group.GET("/history", handler.History)
	}
	return r
}

func TestInventoryHandler_List(t *testing.T) {
	items := new(mockItemRepo)
	snapshots := new(mockSnapshotRepo)
	counts := new(mockCountRepo)

	items.On("FindAll", mock.Anything).Return([]inventory.InventoryItem{
		snapshotLine(t, "MAT-001", "Tornillo 3mm", "A-01-01", "120"),
		snapshotLine(t, "MAT-002", "Tuerca 3mm", "A-02-01", "4"),
	}, nil)

	router := setupInventoryRouter(items, snapshots, counts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                   `json:"success"`
		Data    []inventoryapp.ItemDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Data, 2)
	assert.Equal(t, "MAT-001", response.Data[0].MaterialCode)
	assert.Equal(t, "low", response.Data[1].Level)
}

func TestInventoryHandler_SaveCount(t *testing.T) {
	items := new(mockItemRepo)
	snapshots := new(mockSnapshotRepo)
	counts := new(mockCountRepo)

	counts.On("ReplaceAll", mock.Anything, mock.Anything).Return(nil)

	router := setupInventoryRouter(items, snapshots, counts)

	body, _ := json.Marshal(SaveCountRequest{
		Entries: []inventoryapp.CountLineInput{
			{MaterialCode: "MAT-001", Location: "A-01-01", RealCount: "118"},
			{MaterialCode: "MAT-002", Location: "A-02-01", RealCount: "4"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/count", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data inventoryapp.SaveCountResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Data.Saved)
	assert.Equal(t, 0, response.Data.Skipped)
	counts.AssertExpectations(t)
}

func TestInventoryHandler_SaveCount_InvalidBody(t *testing.T) {
	router := setupInventoryRouter(new(mockItemRepo), new(mockSnapshotRepo), new(mockCountRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/count", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_Reconciliation(t *testing.T) {
	items := new(mockItemRepo)
	snapshots := new(mockSnapshotRepo)
	counts := new(mockCountRepo)

	line := snapshotLine(t, "MAT-001", "Tornillo 3mm", "A-01-01", "120")
	entry, err := inventory.NewCountEntry("MAT-001", "A-01-01", decimal.NewFromInt(118), line.CreatedAt)
	require.NoError(t, err)

	items.On("FindAll", mock.Anything).Return([]inventory.InventoryItem{line}, nil)
	counts.On("FindAll", mock.Anything).Return([]inventory.CountEntry{*entry}, nil)

	router := setupInventoryRouter(items, snapshots, counts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/reconciliation", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data inventoryapp.ReconciliationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.Rows, 1)
	assert.Equal(t, "SHORT", response.Data.Rows[0].Status)
	assert.Equal(t, "FALTA", response.Data.Rows[0].StatusLabel)
}

func TestInventoryHandler_ExportDiscrepancies(t *testing.T) {
	items := new(mockItemRepo)
	snapshots := new(mockSnapshotRepo)
	counts := new(mockCountRepo)

	items.On("FindAll", mock.Anything).Return([]inventory.InventoryItem{
		snapshotLine(t, "MAT-001", "Tornillo 3mm", "A-01-01", "120"),
	}, nil)

	router := setupInventoryRouter(items, snapshots, counts)

	body, _ := json.Marshal(ExportDiscrepanciesRequest{
		Entries: []inventoryapp.CountLineInput{
			{MaterialCode: "MAT-001", Location: "A-01-01", RealCount: "110"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, inventoryapp.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "discrepancias_")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestInventoryHandler_UploadSnapshot_MissingFile(t *testing.T) {
	router := setupInventoryRouter(new(mockItemRepo), new(mockSnapshotRepo), new(mockCountRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/snapshot", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
