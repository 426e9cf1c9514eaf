package service

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"files_manager/server/common/log"
	"files_manager/server/files/domain"
)

// Thumbnails are derived widest first so the most useful copy lands even if
// the worker dies mid-job.
var thumbnailWidths = []int{500, 250, 100}

type fileDirectory interface {
	GetByIDAndUser(ctx context.Context, id, userID string) (domain.FileRecord, error)
}

type ThumbnailService struct {
	files fileDirectory
}

func NewThumbnailService(files fileDirectory) *ThumbnailService {
	return &ThumbnailService{files: files}
}

// Process handles one queue delivery. Job-level failures (bad message,
// unknown file) are returned so the caller can reject the delivery; per-size
// failures are logged and skipped without failing the job. Writes go to
// fixed paths, so redelivered jobs simply overwrite their own output.
func (s *ThumbnailService) Process(ctx context.Context, payload []byte) error {
	var job domain.ThumbnailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return domain.ErrMissingFileID
	}
	if job.FileID == "" {
		return domain.ErrMissingFileID
	}
	if job.UserID == "" {
		return domain.ErrMissingUserID
	}

	file, err := s.files.GetByIDAndUser(ctx, job.FileID, job.UserID)
	if err != nil {
		return domain.ErrFileNotFound
	}

	for _, width := range thumbnailWidths {
		if err := generateThumbnail(file.LocalPath, width); err != nil {
			log.Errorf("generate %dpx thumbnail for %s: %v", width, file.LocalPath, err)
		}
	}
	return nil
}

func generateThumbnail(srcPath string, width int) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return err
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	out, err := os.Create(fmt.Sprintf("%s_%d", srcPath, width))
	if err != nil {
		return err
	}
	defer out.Close()

	return imaging.Encode(out, thumb, encodeFormat(format))
}

// encodeFormat maps the decoded format back to an imaging encoder, keeping
// thumbnails in the source image's format where possible.
func encodeFormat(format string) imaging.Format {
	switch format {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	case "bmp":
		return imaging.BMP
	case "tiff":
		return imaging.TIFF
	default:
		return imaging.JPEG
	}
}
