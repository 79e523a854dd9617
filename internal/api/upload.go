package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// ImageField is the multipart field carrying a product image.
const ImageField = "image"

// Client-facing upload failures.
const (
	MsgOnlyImages       = "Only image files are allowed"
	MsgFileTooLarge     = "File too large"
	MsgInvalidMultipart = "Invalid multipart form"
)

// Multipart bodies may carry form fields on top of the file.
const formOverheadBytes = 1 << 20

// UploadStager reads product requests that may carry an image. Multipart
// files are sniffed, size-checked and copied to a temp directory so the
// media uploader can read them from disk.
type UploadStager struct {
	tempDir  string
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadStager creates an UploadStager writing to tempDir and accepting
// files up to maxBytes.
func NewUploadStager(tempDir string, maxBytes int64, log *slog.Logger) *UploadStager {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if log == nil {
		log = slog.Default()
	}
	return &UploadStager{
		tempDir:  tempDir,
		maxBytes: maxBytes,
		logger:   log.With(slog.String("component", "upload_stager")),
	}
}

// StagedRequest is a decoded product request. ImagePath is empty when no
// file was sent. Cleanup must always be called.
type StagedRequest struct {
	Payload   validation.Payload
	ImagePath string
	cleanup   []func()
}

// Cleanup removes the staged file and any multipart temp files.
func (s *StagedRequest) Cleanup() {
	for _, fn := range s.cleanup {
		fn()
	}
	s.cleanup = nil
}

// Stage decodes r. multipart/form-data bodies become string payloads with an
// optional staged image; every other body is decoded as JSON.
func (u *UploadStager) Stage(w http.ResponseWriter, r *http.Request) (*StagedRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		payload, err := shared.DecodeJSON(w, r)
		if err != nil {
			return nil, err
		}
		return &StagedRequest{Payload: payload}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.BadRequest(MsgFileTooLarge)
		}
		return nil, domain.BadRequest(MsgInvalidMultipart)
	}

	staged := &StagedRequest{Payload: validation.Payload{}}
	form := r.MultipartForm
	staged.cleanup = append(staged.cleanup, func() {
		if err := form.RemoveAll(); err != nil {
			u.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	})

	for key, values := range form.Value {
		if len(values) > 0 {
			staged.Payload[key] = values[0]
		}
	}

	files := form.File[ImageField]
	if len(files) == 0 {
		return staged, nil
	}

	path, err := u.stageFile(r, files[0])
	if err != nil {
		staged.Cleanup()
		return nil, err
	}
	staged.ImagePath = path
	staged.cleanup = append(staged.cleanup, func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			u.logger.Warn("failed to remove staged upload", "error", err)
		}
	})
	return staged, nil
}

func (u *UploadStager) stageFile(r *http.Request, fh *multipart.FileHeader) (string, error) {
	log := logger.FromContextOrDefault(r.Context(), u.logger)

	if fh.Size > u.maxBytes {
		return "", domain.BadRequest(MsgFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn("failed to close uploaded file", "error", cerr)
		}
	}()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to sniff uploaded file: %w", err)
	}
	if !strings.HasPrefix(detected.String(), "image/") {
		log.Debug("rejected non-image upload",
			"filename", fh.Filename,
			"detected_type", detected.String())
		return "", domain.BadRequest(MsgOnlyImages)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	path := filepath.Join(u.tempDir, stagedName(fh.Filename))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close staged file: %w", err)
	}

	log.Debug("upload staged",
		"detected_type", detected.String(),
		"size", fh.Size)
	return path, nil
}

// stagedName returns "<unix nanos>-<random>-<original base name>".
func stagedName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%d-%s", time.Now().UnixNano(), rand.Int64N(1_000_000_000), base)
}
