package patient

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clinrecords/internal/pkg/response"
	"clinrecords/internal/pkg/validator"
	"clinrecords/internal/storage"
)

// Handler manages the HTTP surface for patient records and file downloads.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create accepts a multipart form: crn, uhid, patient_name, dob plus any
// number of "files" parts (gzip-compressed by the client).
func (h *Handler) Create(c *gin.Context) {
	req := CreateRequest{
		CRN:         c.PostForm("crn"),
		UHID:        c.PostForm("uhid"),
		PatientName: c.PostForm("patient_name"),
		DOB:         c.PostForm("dob"),
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "All fields are required", details)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form")
		return
	}
	files := form.File["files"]

	result, err := h.service.Create(c.Request.Context(), req, files)
	if err != nil {
		var tooLarge *FileTooLargeError
		var unsupported *UnsupportedTypeError
		switch {
		case errors.Is(err, ErrDuplicateCRN):
			response.Error(c, http.StatusBadRequest, "DUPLICATE_CRN", "Patient with this CRN already exists")
		case errors.As(err, &unsupported):
			response.Error(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", unsupported.Error())
		case errors.As(err, &tooLarge):
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", tooLarge.Error())
		case errors.Is(err, storage.ErrCorruptArchive):
			response.Error(c, http.StatusBadRequest, "CORRUPT_ARCHIVE", "Uploaded file is not a valid compressed archive")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create patient record")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":        "Patient record created successfully",
		"patient_id":     result.PatientID,
		"files_uploaded": result.FilesUploaded,
	})
}

func (h *Handler) Search(c *gin.Context) {
	searchType := c.Query("search_type")
	searchTerm := c.Query("search_term")
	if searchType == "" || searchTerm == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Search type and search term are required")
		return
	}

	patients, err := h.service.Search(c.Request.Context(), searchType, searchTerm)
	if err != nil {
		if errors.Is(err, ErrInvalidSearchType) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search type")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Search failed")
		return
	}

	results := make([]gin.H, 0, len(patients))
	for i := range patients {
		results = append(results, summaryPayload(&patients[i]))
	}
	response.Success(c, http.StatusOK, results)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Patient not found")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Patient not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load patient")
		return
	}

	files := make([]gin.H, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, gin.H{
			"id":          f.ID,
			"filename":    f.Filename,
			"file_size":   f.FileSize,
			"upload_date": f.UploadDate.Format(time.RFC3339),
		})
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":           p.ID,
		"crn":          p.CRN,
		"uhid":         p.UHID,
		"patient_name": p.PatientName,
		"dob":          p.DOB,
		"created_at":   p.CreatedAt.Format(time.RFC3339),
		"files":        files,
	})
}

// Download streams the decompressed blob as an attachment named after the
// original display filename. The scratch file is released whatever happens.
func (h *Handler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		return
	}

	result, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		case errors.Is(err, storage.ErrCorruptArchive):
			response.Error(c, http.StatusBadRequest, "CORRUPT_ARCHIVE", "Stored file is corrupt")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to download file")
		}
		return
	}
	defer result.Release()

	c.FileAttachment(result.ScratchPath, result.Filename)
}

func summaryPayload(p *Patient) gin.H {
	files := make([]gin.H, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, gin.H{
			"id":       f.ID,
			"filename": f.Filename,
		})
	}
	return gin.H{
		"id":           p.ID,
		"crn":          p.CRN,
		"uhid":         p.UHID,
		"patient_name": p.PatientName,
		"dob":          p.DOB,
		"created_at":   p.CreatedAt.Format(time.RFC3339),
		"files":        files,
	}
}
