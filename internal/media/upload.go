package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

const (
	megabyte = 1 << 20

	resultCompressed = "compressed"
	resultFallback   = "fallback"
	resultOriginal   = "original"
)

// UploadInput is one multipart file plus its form fields.
type UploadInput struct {
	UserID   uuid.UUID
	FileName string
	// Size is the client-declared length; the stream is still bounded.
	Size     int64
	Body     io.Reader
	Folder   string
	Duration *int
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.Body == nil {
		return nil, invalid("file", "is required")
	}
	folder, err := normalizeFolder(in.Folder)
	if err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if n == 0 {
		return nil, invalid("file", "is empty")
	}
	head = head[:n]

	class, err := classify(head)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"field": "file"})
	}
	limit := s.limitFor(class.mediaType)
	if in.Size > limit {
		return nil, tooLarge(class.mediaType, limit)
	}
	body := io.MultiReader(bytes.NewReader(head), in.Body)

	if class.mediaType == enums.MediaTypeVideo {
		return s.uploadVideo(ctx, in, folder, class, body, limit)
	}
	return s.uploadImage(ctx, in, folder, class, body, limit)
}

func (s *service) uploadImage(ctx context.Context, in UploadInput, folder string, class *classification, body io.Reader, limit int64) (*UploadResult, error) {
	original, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if int64(len(original)) > limit {
		return nil, tooLarge(class.mediaType, limit)
	}

	data, mime, ext, result := original, class.mime, class.ext, resultCompressed
	var width, height int
	compressed, err := compressImage(original, s.cfg.ImageMaxWidth, s.cfg.ImageQuality)
	if err != nil {
		result = resultFallback
		width, height = imageDimensions(original)
		wctx := s.logg.WithFields(ctx, map[string]any{"file_name": in.FileName, "error": err.Error()})
		s.logg.Warn(wctx, "media.upload.compress_failed")
	} else {
		data, mime, ext = compressed.data, "image/jpeg", "jpg"
		width, height = compressed.width, compressed.height
	}

	row := &models.Media{
		UserID:       in.UserID,
		OriginalName: originalName(in.FileName),
		Type:         enums.MediaTypeImage,
		MimeType:     mime,
		Width:        width,
		Height:       height,
		Folder:       folder,
	}
	written, err := s.write(ctx, row, ext, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, row); err != nil {
		return nil, err
	}
	s.metrics.ObserveUpload(string(enums.MediaTypeImage), result, int64(len(original)), written)
	return &UploadResult{MediaDTO: FromModel(row), OriginalSize: int64(len(original))}, nil
}

func (s *service) uploadVideo(ctx context.Context, in UploadInput, folder string, class *classification, body io.Reader, limit int64) (*UploadResult, error) {
	maxDuration := s.cfg.VideoMaxDurationSec
	if in.Duration != nil {
		if *in.Duration < 0 {
			return nil, invalid("duration", "must be greater than or equal to 0")
		}
		if maxDuration > 0 && *in.Duration > maxDuration {
			return nil, invalid("duration", fmt.Sprintf("must be at most %d seconds", maxDuration))
		}
	}

	row := &models.Media{
		UserID:       in.UserID,
		OriginalName: originalName(in.FileName),
		Type:         enums.MediaTypeVideo,
		MimeType:     class.mime,
		Duration:     in.Duration,
		Folder:       folder,
	}
	written, err := s.write(ctx, row, class.ext, io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if written > limit {
		s.discard(ctx, row.Path)
		return nil, tooLarge(class.mediaType, limit)
	}
	if err := s.persist(ctx, row); err != nil {
		return nil, err
	}
	s.metrics.ObserveUpload(string(enums.MediaTypeVideo), resultOriginal, written, written)
	return &UploadResult{MediaDTO: FromModel(row), OriginalSize: written}, nil
}

// write stores r under a fresh key and fills the row's file fields.
func (s *service) write(ctx context.Context, row *models.Media, ext string, r io.Reader) (int64, error) {
	key := local.BuildKey(row.UserID, row.OriginalName, ext, s.now())
	written, err := s.store.Put(ctx, key, r)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}
	row.Path = key
	row.FileName = path.Base(key)
	row.URL = s.store.URL(key)
	row.Size = written
	return written, nil
}

// persist inserts row; the file is removed best effort when the insert fails.
func (s *service) persist(ctx context.Context, row *models.Media) error {
	if err := s.repo.Create(ctx, row); err != nil {
		s.discard(ctx, row.Path)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save media")
	}
	return nil
}

func (s *service) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "path", key), "media.upload.discard", err)
	}
}

func (s *service) limitFor(t enums.MediaType) int64 {
	mb := s.cfg.ImageMaxMB
	if t == enums.MediaTypeVideo {
		mb = s.cfg.VideoMaxMB
	}
	if mb <= 0 {
		if t == enums.MediaTypeVideo {
			mb = 100
		} else {
			mb = 5
		}
	}
	return int64(mb) * megabyte
}

func tooLarge(t enums.MediaType, limit int64) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s files must be at most %d MB", t, limit/megabyte).
		WithDetails(map[string]any{"field": "file"})
}

func originalName(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
