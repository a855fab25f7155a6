package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/internal/media"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

func putFile(t *testing.T, store *local.Store, key string, age time.Duration) {
	t.Helper()
	_, err := store.Put(context.Background(), key, strings.NewReader("x"))
	require.NoError(t, err)
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(filepath.Join(store.Root(), filepath.FromSlash(key)), stamp, stamp))
}

func exists(store *local.Store, key string) bool {
	_, err := os.Stat(filepath.Join(store.Root(), filepath.FromSlash(key)))
	return err == nil
}

func TestOrphanUploadCleanupRemovesOnlyOldUnreferencedFiles(t *testing.T) {
	client := dbtest.New(t)
	repo := media.NewRepository(client.DB())
	store, err := local.New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	userID := uuid.New()
	referenced := "media/u/2024/01/kept-1.jpg"
	orphanOld := "media/u/2024/01/orphan-2.jpg"
	orphanFresh := "media/u/2024/01/fresh-3.jpg"
	foreign := "exports/report.csv"

	putFile(t, store, referenced, 48*time.Hour)
	putFile(t, store, orphanOld, 48*time.Hour)
	putFile(t, store, orphanFresh, time.Minute)
	putFile(t, store, foreign, 48*time.Hour)
	require.NoError(t, repo.Create(context.Background(), &models.Media{
		UserID: userID, FileName: "kept-1.jpg", OriginalName: "kept.jpg", Path: referenced,
		URL: store.URL(referenced), Type: enums.MediaTypeImage, MimeType: "image/jpeg", Size: 1,
	}))

	job, err := NewOrphanUploadCleanupJob(OrphanUploadCleanupJobParams{
		Logger:    newTestLogger(),
		Files:     store,
		Media:     repo,
		Retention: 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, OrphanUploadCleanupJobName, job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.True(t, exists(store, referenced))
	assert.False(t, exists(store, orphanOld))
	assert.True(t, exists(store, orphanFresh))
	assert.True(t, exists(store, foreign))
}

type failingPaths struct{}

func (failingPaths) ExistingPaths(context.Context, []string) (map[string]bool, error) {
	return nil, errors.New("db down")
}

func TestOrphanUploadCleanupKeepsFilesWhenLookupFails(t *testing.T) {
	store, err := local.New(t.TempDir(), "")
	require.NoError(t, err)
	key := "media/u/old.jpg"
	putFile(t, store, key, 72*time.Hour)

	job, err := NewOrphanUploadCleanupJob(OrphanUploadCleanupJobParams{
		Logger: newTestLogger(),
		Files:  store,
		Media:  failingPaths{},
	})
	require.NoError(t, err)

	assert.Error(t, job.Run(context.Background()))
	assert.True(t, exists(store, key))
}
