package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

// Folders lists the synthetic ungrouped folder first, then named folders by name.
func (s *service) Folders(ctx context.Context, userID uuid.UUID) ([]FolderDTO, error) {
	rows, err := s.repo.FolderCounts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list folders")
	}
	out := []FolderDTO{{Name: UngroupedFolder}}
	for _, row := range rows {
		if row.Folder == "" {
			out[0].Count = row.Count
			continue
		}
		out = append(out, FolderDTO{Name: row.Folder, Count: row.Count})
	}
	return out, nil
}

func (s *service) RenameFolder(ctx context.Context, userID uuid.UUID, req RenameFolderRequest) (*FolderChangeResult, error) {
	from, err := normalizeFolder(req.From)
	if err != nil {
		return nil, err
	}
	if from == "" {
		return nil, invalid("from", "cannot be the ungrouped folder")
	}
	to, err := normalizeFolder(req.To)
	if err != nil {
		return nil, err
	}
	if to == "" {
		return nil, invalid("to", "must name a folder")
	}
	return s.moveFolder(ctx, userID, from, to)
}

// DeleteFolder moves every item of the folder to ungrouped; files are kept.
func (s *service) DeleteFolder(ctx context.Context, userID uuid.UUID, name string) (*FolderChangeResult, error) {
	from, err := normalizeFolder(name)
	if err != nil {
		return nil, err
	}
	if from == "" {
		return nil, invalid("name", "must name a folder")
	}
	return s.moveFolder(ctx, userID, from, "")
}

func (s *service) moveFolder(ctx context.Context, userID uuid.UUID, from, to string) (*FolderChangeResult, error) {
	var affected int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).SetFolder(ctx, userID, nil, &from, to)
		affected = n
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update folder")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "folder not found")
	}
	return &FolderChangeResult{AffectedCount: affected}, nil
}

// Move assigns the caller's media among req.IDs to req.Folder.
func (s *service) Move(ctx context.Context, userID uuid.UUID, req MoveRequest) (*FolderChangeResult, error) {
	ids, err := boundedIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	folder, err := normalizeFolder(req.Folder)
	if err != nil {
		return nil, err
	}
	var affected int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).SetFolder(ctx, userID, ids, nil, folder)
		affected = n
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "move media")
	}
	return &FolderChangeResult{AffectedCount: affected}, nil
}
