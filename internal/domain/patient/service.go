package patient

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"clinrecords/internal/storage"
)

// Service handles record creation with attached blobs, search, and the
// decompress-on-download path. Uploaded streams arrive gzip-compressed from
// the client and are written through as-is; only downloads decompress.
type Service struct {
	repo        Repository
	store       *storage.Store
	allowedExt  map[string]bool
	maxFileSize int64
}

func NewService(repo Repository, store *storage.Store, allowedExt map[string]bool, maxFileSize int64) *Service {
	return &Service{
		repo:        repo,
		store:       store,
		allowedExt:  allowedExt,
		maxFileSize: maxFileSize,
	}
}

type CreateRequest struct {
	CRN         string `validate:"required"`
	UHID        string `validate:"required"`
	PatientName string `validate:"required"`
	DOB         string `validate:"required"`
}

type CreateResult struct {
	PatientID     int64
	FilesUploaded int
}

// Create stores a patient together with its uploaded files, all-or-nothing:
// any failed file aborts the whole request, removes every staged blob, and
// leaves no database rows behind.
func (s *Service) Create(ctx context.Context, req CreateRequest, files []*multipart.FileHeader) (*CreateResult, error) {
	// duplicate check happens before any file I/O
	exists, err := s.repo.ExistsByCRN(ctx, req.CRN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCRN
	}

	staged := make([]FileRecord, 0, len(files))
	discard := func() {
		for _, f := range staged {
			s.store.Remove(f.Filepath)
		}
	}

	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		if !s.extensionAllowed(fh.Filename) {
			discard()
			return nil, &UnsupportedTypeError{Filename: fh.Filename}
		}

		src, err := fh.Open()
		if err != nil {
			discard()
			return nil, fmt.Errorf("open uploaded file: %w", err)
		}
		path, size, err := s.store.Save(fh.Filename, src)
		src.Close()
		if err != nil {
			discard()
			return nil, err
		}
		if size > s.maxFileSize {
			s.store.Remove(path)
			discard()
			return nil, &FileTooLargeError{Filename: fh.Filename, Limit: s.maxFileSize}
		}

		staged = append(staged, FileRecord{
			Filename:   filepath.Base(fh.Filename),
			Filepath:   path,
			FileSize:   size,
			UploadDate: time.Now(),
		})
	}

	p := &Patient{
		CRN:         req.CRN,
		UHID:        req.UHID,
		PatientName: req.PatientName,
		DOB:         req.DOB,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateWithFiles(ctx, p, staged); err != nil {
		discard()
		return nil, err
	}

	return &CreateResult{PatientID: p.ID, FilesUploaded: len(staged)}, nil
}

var searchColumns = map[string]string{
	"crn":          "crn",
	"uhid":         "uhid",
	"patient_name": "patient_name",
}

// Search runs a substring search on one of crn, uhid, patient_name.
func (s *Service) Search(ctx context.Context, searchType, term string) ([]Patient, error) {
	column, ok := searchColumns[strings.ToLower(searchType)]
	if !ok {
		return nil, ErrInvalidSearchType
	}
	return s.repo.Search(ctx, column, term)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

type DownloadResult struct {
	Filename    string
	ScratchPath string
	Release     func()
}

// Download looks up a file record and inflates its blob into a scratch file.
// The caller must invoke Release on every exit path. A record whose blob is
// missing from storage reads as not-found, not as corruption.
func (s *Service) Download(ctx context.Context, fileID int64) (*DownloadResult, error) {
	rec, err := s.repo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	scratch, release, err := s.store.OpenDecompressed(rec.Filepath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobMissing) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &DownloadResult{
		Filename:    rec.Filename,
		ScratchPath: scratch,
		Release:     release,
	}, nil
}

func (s *Service) extensionAllowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return s.allowedExt[ext]
}
