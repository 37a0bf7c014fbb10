package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

func TestStorage_SnapshotIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	snap := models.Snapshot{Subscribers: []models.Subscriber{{ID: 1, Services: []string{"Facial"}}}}
	require.NoError(t, s.SaveSnapshot(ctx, snap))
	snap.Subscribers[0].Services[0] = "Massage"

	got, found, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Facial", got.Subscribers[0].Services[0])
}

func TestStorage_FailWith(t *testing.T) {
	s := New()
	s.FailWith(errors.New("quota exceeded"))

	err := s.SaveSnapshot(context.Background(), models.Snapshot{})
	assert.EqualError(t, err, "quota exceeded")

	s.FailWith(nil)
	assert.NoError(t, s.SaveExportState(context.Background(), models.ExportState{ChangesSinceExport: 2}))
	got, found, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.ChangesSinceExport)
}

func TestStorage_Settings(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, found, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, models.DefaultSettings(), got)

	want := models.DefaultSettings()
	want.ReminderInterval = 1
	require.NoError(t, s.SaveSettings(ctx, want))
	got, found, err = s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}
