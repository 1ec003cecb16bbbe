// internal/domain/upload/service.go
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// RemoteUploader transfers one file to the remote upload endpoint,
// reporting progress in [0,100] through the callback, and returns the
// remote reference on success.
type RemoteUploader interface {
	Upload(ctx context.Context, name string, size int64, r io.Reader, progress func(int)) (string, error)
}

// Service handles payment proof uploads. When no remote uploader is
// configured it degrades to storing a local ephemeral reference so the
// checkout flow can continue.
type Service struct {
	remote       RemoteUploader
	maxSize      int64
	allowedTypes []string
	localPath    string
	logger       *logrus.Logger
}

// NewService creates a new upload service. A nil remote uploader selects
// the local fallback path.
func NewService(cfg *config.Config, remote RemoteUploader, logger *logrus.Logger) *Service {
	return &Service{
		remote:       remote,
		maxSize:      cfg.Upload.MaxSize,
		allowedTypes: cfg.Upload.AllowedTypes,
		localPath:    cfg.Upload.LocalPath,
		logger:       logger,
	}
}

// Upload validates the file and starts the transfer. Validation failures
// are returned immediately; transfer failures are delivered through the
// task's Done channel so the caller can reset the proof and retry.
func (s *Service) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Task, error) {
	if err := s.validate(header); err != nil {
		return nil, err
	}

	if s.remote == nil {
		return s.uploadLocal(file, header)
	}

	return s.uploadRemote(ctx, file, header), nil
}

// validate checks size and MIME type, in that order
func (s *Service) validate(header *multipart.FileHeader) error {
	if header.Size > s.maxSize {
		return &Error{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("file exceeds the %d MB limit", s.maxSize>>20),
		}
	}

	contentType := header.Header.Get("Content-Type")
	for _, allowed := range s.allowedTypes {
		if contentType == allowed {
			return nil
		}
		// A trailing /* matches the whole top-level type, e.g. image/*
		if prefix, ok := strings.CutSuffix(allowed, "*"); ok && strings.HasPrefix(contentType, prefix) {
			return nil
		}
	}

	return &Error{
		Kind:    KindUnsupportedType,
		Message: fmt.Sprintf("unsupported file type %q, expected an image or PDF", contentType),
	}
}

// uploadRemote runs the transfer asynchronously, streaming progress
func (s *Service) uploadRemote(ctx context.Context, file multipart.File, header *multipart.FileHeader) *Task {
	progress := make(chan int, 16)
	done := make(chan Result, 1)

	go func() {
		defer close(progress)
		defer close(done)

		report := func(pct int) {
			select {
			case progress <- pct:
			default:
				// Slow consumer, skip the update
			}
		}

		ref, err := s.remote.Upload(ctx, header.Filename, header.Size, file, report)
		if err != nil {
			s.logger.WithError(err).WithField("filename", header.Filename).Error("Payment proof upload failed")
			done <- Result{Err: &Error{Kind: KindRemote, Message: "upload failed", Err: err}}
			return
		}

		s.logger.WithFields(logrus.Fields{
			"filename": header.Filename,
			"ref":      ref,
		}).Info("Payment proof uploaded")
		done <- Result{Ref: ref}
	}()

	return &Task{Progress: progress, Done: done}
}

// uploadLocal copies the file under the local storage path and completes
// synchronously with an ephemeral reference. No progress is reported.
func (s *Service) uploadLocal(file multipart.File, header *multipart.FileHeader) (*Task, error) {
	filename := uuid.New().String() + filepath.Ext(header.Filename)
	fullPath := filepath.Join(s.localPath, "proofs", filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.WithField("path", fullPath).Info("Payment proof stored locally, remote uploader not configured")

	progress := make(chan int)
	close(progress)
	done := make(chan Result, 1)
	done <- Result{Ref: "local://" + filename}
	close(done)

	return &Task{Progress: progress, Done: done, Local: true}, nil
}
