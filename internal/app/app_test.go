package app

import (
	"context"
	"testing"

	"github.com/pethotel/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShutdown_PartiallyBuilt(t *testing.T) {
	a := &App{Config: &config.Config{}, Logger: zap.NewNop()}
	assert.NoError(t, a.Shutdown(context.Background()))
}

func TestNewScheduler_DefaultsApply(t *testing.T) {
	a := &App{Config: &config.Config{}, Logger: zap.NewNop()}

	s, err := a.NewScheduler()
	require.NoError(t, err)
	assert.False(t, s.Running())
}

func TestHandlers_AllBuilt(t *testing.T) {
	a := &App{Config: &config.Config{}, Logger: zap.NewNop()}

	h := a.Handlers()
	assert.NotNil(t, h.Invoice)
	assert.NotNil(t, h.Settlement)
	assert.NotNil(t, h.Transaction)
	assert.NotNil(t, h.Credit)
	assert.NotNil(t, h.Attendance)
	assert.NotNil(t, h.Health)
}
