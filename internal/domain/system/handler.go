package system

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinrecords/internal/config"
	"clinrecords/internal/pkg/response"
)

// Handler serves the configuration report and the sync placeholder.
type Handler struct {
	cfg *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// GetConfig reports the upload limits so clients can validate before
// transmitting.
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"max_file_size":      h.cfg.MaxFileSize,
		"allowed_extensions": h.cfg.ExtensionList(),
	})
}

// Sync acknowledges a client sync request. Actual reconciliation between
// local and server stores is not implemented.
func (h *Handler) Sync(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"message":        "Data synced successfully",
		"synced_records": 0,
	})
}
