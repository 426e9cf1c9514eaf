package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"files_manager/server/common/log"
	"files_manager/server/files/domain"
)

const pageSize = 20

type fileStore interface {
	Create(ctx context.Context, rec domain.FileRecord) (domain.FileRecord, error)
	GetByID(ctx context.Context, id string) (domain.FileRecord, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (domain.FileRecord, error)
	ListByParent(ctx context.Context, userID string, parentID domain.ParentID, limit, offset int) ([]domain.FileRecord, error)
}

type thumbnailQueue interface {
	Enqueue(ctx context.Context, job domain.ThumbnailJob) error
}

type UploadInput struct {
	Name     string
	Type     domain.FileType
	ParentID domain.ParentID
	IsPublic bool
	Data     string
}

type FileService struct {
	files   fileStore
	queue   thumbnailQueue
	rootDir string
}

func NewFileService(files fileStore, queue thumbnailQueue, rootDir string) *FileService {
	return &FileService{files: files, queue: queue, rootDir: rootDir}
}

// Upload validates the request, writes the decoded payload for non-folder
// types, persists the metadata record, and enqueues a thumbnail job for
// images. Payload write failures are logged but do not block persistence.
func (s *FileService) Upload(ctx context.Context, userID string, in UploadInput) (domain.FileRecord, error) {
	if in.Name == "" {
		return domain.FileRecord{}, domain.ErrMissingName
	}
	if !in.Type.Valid() {
		return domain.FileRecord{}, domain.ErrMissingType
	}
	// The original API reports absent data with the "Missing type" message;
	// clients match on it, so it stays.
	if in.Data == "" && in.Type != domain.FileTypeFolder {
		return domain.FileRecord{}, domain.ErrMissingType
	}

	parentID := domain.RootParentID
	if !in.ParentID.IsRoot() {
		parent, err := s.files.GetByID(ctx, string(in.ParentID))
		if err != nil {
			return domain.FileRecord{}, domain.ErrParentNotFound
		}
		if parent.Type != domain.FileTypeFolder {
			return domain.FileRecord{}, domain.ErrParentNotFolder
		}
		parentID = in.ParentID
	}

	rec := domain.FileRecord{
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}
	if in.Type != domain.FileTypeFolder {
		rec.LocalPath = s.writePayload(in.Data)
	}

	created, err := s.files.Create(ctx, rec)
	if err != nil {
		return domain.FileRecord{}, err
	}

	if in.Type == domain.FileTypeImage {
		job := domain.ThumbnailJob{FileID: created.ID, UserID: userID}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			log.Errorf("enqueue thumbnail job for file %s: %v", created.ID, err)
		}
	}
	return created, nil
}

// writePayload stores the decoded payload under a random filename and
// returns the path. The path is returned even when the write fails; the
// metadata record is persisted regardless.
func (s *FileService) writePayload(data string) string {
	path := filepath.Join(s.rootDir, uuid.NewString())

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		log.Errorf("decode upload payload: %v", err)
		return path
	}
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		log.Errorf("create storage root %s: %v", s.rootDir, err)
		return path
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		log.Errorf("write upload payload to %s: %v", path, err)
	}
	return path
}

func (s *FileService) Show(ctx context.Context, userID, id string) (domain.FileRecord, error) {
	rec, err := s.files.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return domain.FileRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// Index lists the user's records under a parent, 20 per page, in
// store-native order.
func (s *FileService) Index(ctx context.Context, userID string, parentID domain.ParentID, page int) ([]domain.FileRecord, error) {
	if page < 0 {
		page = 0
	}
	if parentID == "" {
		parentID = domain.RootParentID
	}
	return s.files.ListByParent(ctx, userID, parentID, pageSize, page*pageSize)
}
