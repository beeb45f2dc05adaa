package module

import (
	"testing"

	"go-chms/internal/config"
	"go-chms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResyncStart(t *testing.T) {
	reg := NewRegistry(&fakeModuleRepo{modules: serverModules()}, storage.NewMemoryStore(), zap.NewNop())

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
		running  bool
	}{
		{name: "disabled", schedule: ""},
		{name: "every five minutes", schedule: "*/5 * * * *", running: true},
		{name: "invalid", schedule: "every now and then", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResync(&config.Config{ModuleRefreshSchedule: tt.schedule}, reg, zap.NewNop())
			err := r.Start()
			defer r.Stop()

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.running, r.cron != nil)
		})
	}
}

func TestResyncRunRefreshes(t *testing.T) {
	reg := NewRegistry(&fakeModuleRepo{modules: serverModules()}, storage.NewMemoryStore(), zap.NewNop())
	r := NewResync(&config.Config{}, reg, zap.NewNop())

	r.run()
	assert.Equal(t, StateLoaded, reg.State())
	assert.Len(t, reg.Modules(), 3)
}
