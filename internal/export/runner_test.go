package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

type memoryDelivery struct {
	mu    sync.Mutex
	names []string
	files map[string][]byte
	fail  error
}

func (d *memoryDelivery) Deliver(_ context.Context, name string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return d.fail
	}
	if d.files == nil {
		d.files = make(map[string][]byte)
	}
	d.names = append(d.names, name)
	d.files[name] = content
	return nil
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordExport(ctx context.Context, at time.Time, exported int) error {
	return m.Called(ctx, at, exported).Error(0)
}

func snapshot(changes int) models.Snapshot {
	return models.Snapshot{Subscribers: subscribers(), ChangesSinceExport: changes}
}

func newTestRunner(d Delivery, rec Recorder) *Runner {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRunner(log, d, rec, nil, meta, 0)
	r.now = func() time.Time { return generatedAt }
	return r
}

func TestExportAll_OrderAndProgress(t *testing.T) {
	d := &memoryDelivery{}
	rec := new(MockRecorder)
	rec.On("RecordExport", mock.Anything, generatedAt, 3).Return(nil).Once()

	var progress []int
	summary, err := newTestRunner(d, rec).ExportAll(context.Background(), snapshot(3), Options{
		OnProgress: func(p Progress) { progress = append(progress, p.Percent) },
	})

	require.NoError(t, err)
	assert.Equal(t, []int{25, 50, 75, 100}, progress)
	assert.Equal(t, []string{
		"subscribers_2025-09-01.json",
		"subscribers_2025-09-01.csv",
		"SALON_DATA_2025-09-01.md",
		"salon_dashboard_2025-09-01.html",
	}, d.names)
	assert.Len(t, summary.Files, 4)
	assert.NotEmpty(t, summary.ExportID)

	doc, err := ParseJSON(d.files["subscribers_2025-09-01.json"])
	require.NoError(t, err)
	assert.Equal(t, summary.ExportID, doc.ExportInfo.ExportID)
	rec.AssertExpectations(t)
}

func TestExportAll_DeliveryFailureKeepsCounter(t *testing.T) {
	d := &memoryDelivery{fail: errors.New("disk full")}
	rec := new(MockRecorder)

	_, err := newTestRunner(d, rec).ExportAll(context.Background(), snapshot(1), Options{})

	require.Error(t, err)
	rec.AssertNotCalled(t, "RecordExport", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportAll_Cancelled(t *testing.T) {
	d := &memoryDelivery{}
	rec := new(MockRecorder)
	r := newTestRunner(d, rec)
	r.pacing = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ExportAll(ctx, snapshot(1), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, d.names)
	rec.AssertNotCalled(t, "RecordExport", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportAll_Compressed(t *testing.T) {
	d := &memoryDelivery{}
	rec := new(MockRecorder)
	rec.On("RecordExport", mock.Anything, mock.Anything, 0).Return(nil)

	_, err := newTestRunner(d, rec).ExportAll(context.Background(), models.Snapshot{}, Options{Compress: true})
	require.NoError(t, err)

	gz, ok := d.files["subscribers_2025-09-01.csv.gz"]
	require.True(t, ok)
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, NoData, string(plain))
}

func TestExportOne_DoesNotRecord(t *testing.T) {
	rec := new(MockRecorder)

	file, err := newTestRunner(&memoryDelivery{}, rec).ExportOne(context.Background(), FormatCSV, subscribers(), false)

	require.NoError(t, err)
	assert.Equal(t, "subscribers_2025-09-01.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, len(file.Content), file.Size)
	rec.AssertNotCalled(t, "RecordExport", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirDelivery(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	err := DirDelivery{Dir: dir}.Deliver(context.Background(), "../escape.md", []byte("# hi"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "escape.md"))
	require.NoError(t, err)
	assert.Equal(t, "# hi", string(data))
}
