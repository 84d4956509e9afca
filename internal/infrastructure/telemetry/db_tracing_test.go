package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stockRow struct {
	ID           uint   `gorm:"primaryKey"`
	MaterialCode string `gorm:"size:50"`
	Location     string `gorm:"size:20"`
	CreatedAt    time.Time
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&stockRow{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func sqlitePlugin(thresh time.Duration) *DBTracingPlugin {
	return NewDBTracingPlugin(DBTracingConfig{
		Enabled:          true,
		SlowQueryThresh:  thresh,
		DBSystem:         "sqlite",
		WithoutVariables: true,
	}, zap.NewNop())
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	// SQL text and parameters stay out of spans unless opted in
	assert.False(t, cfg.LogFullSQL)
	assert.True(t, cfg.WithoutVariables)
}

func TestRegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db := openTracedDB(t)
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

		assert.NoError(t, plugin.RegisterOtelGorm(db))
	})

	t.Run("enabled config installs the plugin", func(t *testing.T) {
		db := openTracedDB(t)
		assert.NoError(t, sqlitePlugin(200*time.Millisecond).RegisterOtelGorm(db))
	})

	t.Run("with full SQL", func(t *testing.T) {
		db := openTracedDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      true,
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "sqlite",
		}, zap.NewNop())

		assert.NoError(t, plugin.RegisterOtelGorm(db))
	})

	t.Run("second registration fails on duplicate callback names", func(t *testing.T) {
		db := openTracedDB(t)
		plugin := sqlitePlugin(200 * time.Millisecond)

		require.NoError(t, plugin.RegisterOtelGorm(db))
		assert.Error(t, plugin.RegisterOtelGorm(db))
	})
}

func TestInspectQuery_Attributes(t *testing.T) {
	db := openTracedDB(t)
	tp, recorder := newSpanRecorder(t)
	plugin := sqlitePlugin(200 * time.Millisecond)

	ctx, span := tp.Tracer("inventory").Start(context.Background(), "save-count")

	rows := []stockRow{
		{MaterialCode: "MAT-001", Location: "A-01-01"},
		{MaterialCode: "MAT-002", Location: "A-01-02"},
		{MaterialCode: "MAT-003", Location: "B-02-01"},
	}
	result := db.WithContext(ctx).Create(&rows)
	require.NoError(t, result.Error)

	plugin.inspectQuery(result.Statement.DB)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var gotRows int64
	var gotTable string
	for _, attr := range spans[0].Attributes() {
		switch attr.Key {
		case "db.rows_affected":
			gotRows = attr.Value.AsInt64()
		case "db.sql.table":
			gotTable = attr.Value.AsString()
		}
	}
	assert.Equal(t, int64(3), gotRows)
	assert.Equal(t, "stock_rows", gotTable)
}

func TestInspectQuery_RecordNotFoundIsNotAnError(t *testing.T) {
	db := openTracedDB(t)
	tp, recorder := newSpanRecorder(t)
	plugin := sqlitePlugin(200 * time.Millisecond)

	ctx, span := tp.Tracer("inventory").Start(context.Background(), "lookup-item")

	var row stockRow
	tx := db.WithContext(ctx).First(&row, 99999)
	require.Error(t, tx.Error)

	plugin.inspectQuery(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, "Error", spans[0].Status().Code.String())
}

func TestInspectQuery_SlowQueryEvent(t *testing.T) {
	db := openTracedDB(t)
	tp, recorder := newSpanRecorder(t)
	plugin := sqlitePlugin(time.Nanosecond)

	ctx, span := tp.Tracer("inventory").Start(context.Background(), "list-items")
	ctx = WithQueryStartTime(ctx)
	time.Sleep(time.Millisecond)

	var row stockRow
	db.WithContext(ctx).First(&row)

	plugin.inspectQuery(db.Session(&gorm.Session{Context: ctx}))
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var slow bool
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "db.slow_query" {
			slow = attr.Value.AsBool()
		}
	}
	assert.True(t, slow)

	var warned bool
	for _, event := range spans[0].Events() {
		if event.Name == "slow_query_warning" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestInspectQuery_ToleratesMissingSpanAndContext(t *testing.T) {
	plugin := sqlitePlugin(200 * time.Millisecond)

	// No recording span in the context
	db := openTracedDB(t).WithContext(context.Background())
	plugin.inspectQuery(db)

	// No context at all
	plugin.inspectQuery(openTracedDB(t))
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}

func TestRegisterOtelGorm_EndToEnd(t *testing.T) {
	db := openTracedDB(t)
	tp, recorder := newSpanRecorder(t)

	require.NoError(t, sqlitePlugin(200*time.Millisecond).RegisterOtelGorm(db))

	ctx, span := tp.Tracer("inventory").Start(context.Background(), "snapshot-upload")

	traced := db.WithContext(ctx)
	require.NoError(t, traced.Create(&stockRow{MaterialCode: "MAT-118", Location: "C-03-02"}).Error)

	var found stockRow
	require.NoError(t, traced.First(&found, "material_code = ?", "MAT-118").Error)
	assert.Equal(t, "C-03-02", found.Location)

	span.End()
	assert.NotEmpty(t, recorder.Ended())
}
