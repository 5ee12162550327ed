package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	storageerrors "go-leave/internal/storage/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=upload_service.go -destination=mock/upload_service_mock.go -package=mock
type UploadService interface {
	SaveFile(ctx context.Context, userID string, file *multipart.FileHeader) (FileResponse, error)
	GetByID(ctx context.Context, id string) (FileResponse, error)
	Delete(ctx context.Context, id string) error
}

type uploadService struct {
	repo    Repository
	baseDir string
	logger  *zap.Logger
}

func NewUploadService(repo Repository, baseDir string, logger ...*zap.Logger) UploadService {
	l := zap.L().Named("storage.upload")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.upload")
	}
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &uploadService{repo: repo, baseDir: baseDir, logger: l}
}

func (s *uploadService) SaveFile(ctx context.Context, userID string, file *multipart.FileHeader) (FileResponse, error) {
	if file == nil {
		return FileResponse{}, storageerrors.ErrNoFileUploaded
	}

	var owner *uuid.UUID
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return FileResponse{}, storageerrors.ErrInvalidFileID
		}
		owner = &parsed
	}

	id := uuid.New()
	ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
	storedName := id.String()
	if ext != "" {
		storedName += "." + ext
	}

	day := time.Now().UTC().Format("2006-01-02")
	relPath := filepath.Join(day, storedName)

	if err := s.writeLocalFile(file, filepath.Join(s.baseDir, relPath)); err != nil {
		s.logger.Error("write uploaded file failed", zap.Error(err))
		return FileResponse{}, err
	}

	now := time.Now().UTC()
	f := &StorageFile{
		ID:        id,
		Name:      storedName,
		FileName:  file.Filename,
		ExtName:   ext,
		Path:      relPath,
		Type:      fileType(ext),
		Size:      fmt.Sprintf("%d", file.Size),
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Error("persist uploaded file failed", zap.Error(err))
		return FileResponse{}, err
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", id.String()),
		zap.String("file_name", file.Filename),
	)
	return mapToFileResponse(*f), nil
}

func (s *uploadService) GetByID(ctx context.Context, id string) (FileResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return FileResponse{}, storageerrors.ErrInvalidFileID
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FileResponse{}, storageerrors.ErrFileNotFound
		}
		return FileResponse{}, err
	}
	return mapToFileResponse(*f), nil
}

func (s *uploadService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return storageerrors.ErrInvalidFileID
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storageerrors.ErrFileNotFound
		}
		return err
	}
	// Refuse while a leave request still points at the file; the request
	// must drop the reference first.
	if f.LeaveRequestID != nil {
		return storageerrors.ErrFileStillLinked
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storageerrors.ErrFileNotFound
		}
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, f.Path)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("remove stored file failed",
			zap.String("file_id", id),
			zap.Error(err),
		)
	}
	return nil
}

func (s *uploadService) writeLocalFile(file *multipart.FileHeader, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func fileType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return "image"
	case "pdf", "doc", "docx", "xls", "xlsx", "txt":
		return "document"
	default:
		return "other"
	}
}
