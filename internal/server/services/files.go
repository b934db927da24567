package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/dbx"
	"github.com/dmitrijs2005/filehost/internal/logging"
	"github.com/dmitrijs2005/filehost/internal/server/config"
	"github.com/dmitrijs2005/filehost/internal/server/models"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filehost/internal/server/storage"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize int64 = 100 << 20

const (
	chunkSize       = 32 << 10
	maxExtensionLen = 16
)

// PartReader yields the parts of a multipart body. *multipart.Reader
// satisfies it.
type PartReader interface {
	NextPart() (*multipart.Part, error)
}

type uploadState int

const (
	uploadStart uploadState = iota
	uploadDirectoryReady
	uploadFieldOpened
	uploadStreaming
	uploadFinalized
)

func (s uploadState) String() string {
	switch s {
	case uploadStart:
		return "start"
	case uploadDirectoryReady:
		return "directory_ready"
	case uploadFieldOpened:
		return "field_opened"
	case uploadStreaming:
		return "streaming"
	case uploadFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// FileService stores uploads on disk and their metadata in the database.
// Every operation is scoped to one owner.
type FileService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	disk           *storage.Disk
	logger         logging.Logger
	maxSize        int64
	reconcileGrace time.Duration
	now            func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, disk *storage.Disk, cfg *config.Config, logger logging.Logger) *FileService {
	return &FileService{
		db:             db,
		repomanager:    m,
		disk:           disk,
		logger:         logger.With("module", "files"),
		maxSize:        MaxFileSize,
		reconcileGrace: cfg.ReconcileGrace,
		now:            time.Now,
	}
}

// Upload streams the first file part of parts to disk and records it for
// ownerID. Nothing is recorded unless every byte was written; a partial
// file is removed on any failure.
func (s *FileService) Upload(ctx context.Context, ownerID int64, parts PartReader) (*models.File, error) {
	state := uploadStart

	file, err := s.upload(ctx, ownerID, parts, &state)
	if err != nil {
		s.logger.Warn(ctx, "upload aborted", "owner", ownerID, "state", state.String(), "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "upload stored", "owner", ownerID, "file", file.ID, "size", file.Size)
	return file, nil
}

func (s *FileService) upload(ctx context.Context, ownerID int64, parts PartReader, state *uploadState) (*models.File, error) {
	if err := s.disk.EnsureRoot(); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	*state = uploadDirectoryReady

	part, err := s.nextFilePart(parts)
	if err != nil {
		return nil, err
	}
	defer part.Close()
	*state = uploadFieldOpened

	original := part.FileName()

	mediaType := part.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = common.DefaultMediaType
	} else if _, _, err := mime.ParseMediaType(mediaType); err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidFileType, mediaType)
	}

	storedName := uuid.NewString() + storedExtension(original)

	f, path, err := s.disk.Create(storedName)
	if err != nil {
		return nil, err
	}
	*state = uploadStreaming

	size, err := s.copyLimited(ctx, f, part)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", storedName, cerr)
	}
	if err != nil {
		s.discard(ctx, path)
		return nil, err
	}

	record, err := s.repomanager.Files(s.db).Create(ctx, &models.File{
		UserID:       ownerID,
		StoredName:   storedName,
		OriginalName: original,
		MediaType:    mediaType,
		Size:         size,
		StoragePath:  path,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		s.discard(ctx, path)
		return nil, fmt.Errorf("error saving file: %w", err)
	}
	*state = uploadFinalized

	return record, nil
}

// nextFilePart returns the first part that carries a filename. Parts
// before it are drained and skipped; their bytes count against maxSize.
// Only a clean end of the stream means no file was sent. Any other read
// failure is a broken stream.
func (s *FileService) nextFilePart(parts PartReader) (*multipart.Part, error) {
	var skipped int64

	for {
		part, err := parts.NextPart()
		if err == io.EOF {
			return nil, common.ErrNoFileUploaded
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}

		if part.FileName() != "" {
			return part, nil
		}

		n, err := io.CopyN(io.Discard, part, s.maxSize-skipped+1)
		skipped += n
		if skipped > s.maxSize {
			return nil, common.ErrFileTooLarge
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read multipart: %w", err)
		}
		_ = part.Close()
	}
}

// copyLimited copies r to w in fixed chunks and fails with
// common.ErrFileTooLarge as soon as more than maxSize bytes were read.
func (s *FileService) copyLimited(ctx context.Context, w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > s.maxSize {
				return written, common.ErrFileTooLarge
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write upload: %w", err)
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, fmt.Errorf("read upload: %w", rerr)
		}
	}
}

func (s *FileService) discard(ctx context.Context, path string) {
	if err := s.disk.Remove(path); err != nil {
		s.logger.Warn(ctx, "failed to remove partial upload", "path", path, "error", err)
	}
}

// storedExtension keeps the extension of name when it is short and
// alphanumeric, so a stored name never carries client-controlled
// punctuation.
func storedExtension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) < 2 || len(ext)-1 > maxExtensionLen {
		return ""
	}
	for _, c := range ext[1:] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return ""
		}
	}
	return ext
}

// List returns the owner's files, newest first.
func (s *FileService) List(ctx context.Context, ownerID int64) ([]*models.File, error) {
	items, err := s.repomanager.Files(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return items, nil
}

// Get returns one file of the owner. Another user's file is reported as
// missing.
func (s *FileService) Get(ctx context.Context, fileID, ownerID int64) (*models.File, error) {
	return getFile(ctx, s.repomanager.Files(s.db), fileID, ownerID)
}

// Open returns the file record and an open handle on its bytes. The caller
// closes the handle.
func (s *FileService) Open(ctx context.Context, fileID, ownerID int64) (*models.File, *os.File, error) {
	file, err := s.Get(ctx, fileID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.disk.Open(file.StoragePath)
	if err != nil {
		if errors.Is(err, common.ErrFileNotFound) {
			s.logger.Warn(ctx, "file bytes missing", "file", file.ID, "path", file.StoragePath)
		}
		return nil, nil, err
	}

	return file, f, nil
}

// Delete removes the record and then the bytes. A failure to remove the
// bytes is logged and does not fail the call.
func (s *FileService) Delete(ctx context.Context, fileID, ownerID int64) error {
	var file *models.File

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)

		f, err := getFile(ctx, repo, fileID, ownerID)
		if err != nil {
			return err
		}

		if err := repo.DeleteByIDAndOwner(ctx, fileID, ownerID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrFileNotFound
			}
			return fmt.Errorf("error deleting file: %w", err)
		}

		file = f
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.disk.Remove(file.StoragePath); err != nil {
		s.logger.Warn(ctx, "failed to remove file bytes", "file", file.ID, "path", file.StoragePath, "error", err)
	}

	return nil
}

type fileGetter interface {
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*models.File, error)
}

func getFile(ctx context.Context, repo fileGetter, fileID, ownerID int64) (*models.File, error) {
	file, err := repo.GetByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrFileNotFound
		}
		return nil, fmt.Errorf("error getting file: %w", err)
	}
	return file, nil
}
