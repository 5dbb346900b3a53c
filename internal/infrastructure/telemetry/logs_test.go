package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryExporter keeps exported records
type memoryExporter struct {
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestLoggerProvider_DisabledReturnsBase(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), disabledTelemetry(), "test", nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base))
	assert.NoError(t, lp.Shutdown(context.Background()))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.IsEnabled())
}

func TestLoggerProvider_BridgeTeesAtBaseLevel(t *testing.T) {
	exporter := &memoryExporter{}
	lp := &LoggerProvider{
		provider:    sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter))),
		serviceName: "pethotel-test",
		logger:      zap.NewNop(),
	}
	core, logs := observer.New(zapcore.InfoLevel)

	bridged := lp.Bridge(zap.New(core))
	bridged.Debug("below base level")
	bridged.Info("invoice settled", zap.String("invoice_id", "inv-1"))
	require.NoError(t, lp.Shutdown(context.Background()))

	assert.Equal(t, 1, logs.Len())
	require.Len(t, exporter.records, 1)
	assert.Equal(t, "invoice settled", exporter.records[0].Body().AsString())
}
