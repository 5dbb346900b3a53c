package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func traceSQL() (string, int64) { return "SELECT * FROM invoices", 3 }

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("slow query warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), traceSQL, nil)
		gl.Trace(ctx, time.Now(), traceSQL, nil)

		slow := logs.FilterMessage("Slow SQL").All()
		assert.Len(t, slow, 1)
		assert.Equal(t, int64(3), slow[0].ContextMap()["rows"])
		assert.Zero(t, logs.FilterMessage("SQL query").Len())
	})

	t.Run("zero threshold disables slow warnings", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(0))
		gl.Trace(ctx, time.Now().Add(-time.Hour), traceSQL, nil)
		assert.Zero(t, logs.Len())
	})

	t.Run("errors carry request fields and not-found is ignored", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)
		reqCtx, _ := WithRequestID(ctx, zap.NewNop(), "req-7")

		gl.Trace(reqCtx, time.Now(), traceSQL, errors.New("deadlock"))
		gl.Trace(reqCtx, time.Now(), traceSQL, gormlogger.ErrRecordNotFound)

		errs := logs.FilterMessage("SQL error").All()
		assert.Len(t, errs, 1)
		assert.Equal(t, "req-7", errs[0].ContextMap()["request_id"])
	})

	t.Run("info level logs every query at debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent).LogMode(gormlogger.Info)
		gl.Trace(ctx, time.Now(), traceSQL, nil)
		assert.Equal(t, 1, logs.FilterMessage("SQL query").Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)
		gl.Trace(ctx, time.Now(), traceSQL, errors.New("x"))
		assert.Zero(t, logs.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGormLogger_LedgerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "invoice_links" WHERE invoice_id = 'a' FOR UPDATE`, 2
	}, nil)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `UPDATE "statement_transactions" SET "version"=4 WHERE id = 'b' AND version = 3`, 0
	}, nil)

	entries := logs.FilterMessage("SQL query").All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "invoice_links", entries[0].ContextMap()["table"])
	assert.Equal(t, true, entries[0].ContextMap()["row_lock"])
	assert.Equal(t, "statement_transactions", entries[1].ContextMap()["table"])
	assert.NotContains(t, entries[1].ContextMap(), "row_lock")
}
