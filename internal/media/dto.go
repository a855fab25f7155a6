package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// UngroupedFolder is the public name of the empty folder.
const UngroupedFolder = "ungrouped"

// MaxBulkIDs caps bulk delete and move requests.
const MaxBulkIDs = 500

type MediaDTO struct {
	ID           uuid.UUID       `json:"id"`
	FileName     string          `json:"fileName"`
	OriginalName string          `json:"originalName"`
	URL          string          `json:"url"`
	Type         enums.MediaType `json:"type"`
	MimeType     string          `json:"mimeType"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Duration     *int            `json:"duration"`
	Folder       string          `json:"folder"`
	Size         int64           `json:"size"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// UploadResult adds the pre-processing size so the UI can show the saving.
type UploadResult struct {
	MediaDTO
	OriginalSize int64 `json:"originalSize"`
}

type FolderDTO struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

type BulkDeleteResult struct {
	RequestedCount int `json:"requestedCount"`
	DeletedCount   int `json:"deletedCount"`
}

type RenameFolderRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type MoveRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
	Folder string      `json:"folder"`
}

type FolderChangeResult struct {
	AffectedCount int64 `json:"affectedCount"`
}

func FromModel(m *models.Media) MediaDTO {
	return MediaDTO{
		ID:           m.ID,
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		URL:          m.URL,
		Type:         m.Type,
		MimeType:     m.MimeType,
		Width:        m.Width,
		Height:       m.Height,
		Duration:     m.Duration,
		Folder:       m.Folder,
		Size:         m.Size,
		CreatedAt:    m.CreatedAt,
	}
}
