package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

type fixture struct {
	client *db.Client
	repo   *Repository
	store  *local.Store
	svc    *service
	logs   *bytes.Buffer
	reg    *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.New(t)
	store, err := local.New(t.TempDir(), "/uploads")
	require.NoError(t, err)
	logs := &bytes.Buffer{}
	reg := prometheus.NewRegistry()
	r := NewRepository(client.DB())

	svc, err := NewService(ServiceParams{
		Repo:  r,
		DB:    client,
		Store: store,
		Config: config.MediaConfig{
			ImageMaxWidth:       1200,
			ImageQuality:        80,
			ImageMaxMB:          5,
			VideoMaxMB:          1,
			VideoMaxDurationSec: 180,
		},
		Metrics: metrics.NewMediaMetrics(reg),
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: logs}),
	})
	require.NoError(t, err)
	return &fixture{client: client, repo: r, store: store, svc: svc.(*service), logs: logs, reg: reg}
}

func (f *fixture) upload(t *testing.T, userID uuid.UUID, name string, body []byte, folder string) *UploadResult {
	t.Helper()
	res, err := f.svc.Upload(context.Background(), UploadInput{
		UserID:   userID,
		FileName: name,
		Size:     int64(len(body)),
		Body:     bytes.NewReader(body),
		Folder:   folder,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()
	var out []string
	require.NoError(t, filepath.WalkDir(f.store.Root(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(f.store.Root(), p)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	}))
	return out
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// mp4Bytes is an ftyp box followed by padding; enough for content sniffing.
func mp4Bytes(size int) []byte {
	header := []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 2, 0, 'i', 's', 'o', 'm', 'm', 'p', '4', '1'}
	if size < len(header) {
		size = len(header)
	}
	out := make([]byte, size)
	copy(out, header)
	return out
}
