package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crmlite/backend/internal/application/importer"
	"github.com/crmlite/backend/internal/infrastructure/csvio"
	"github.com/crmlite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ImportHandler handles CSV import and export endpoints
type ImportHandler struct {
	BaseHandler
	importService *importer.CustomerImportService
	exportService *importer.CustomerExportService
	maxFileBytes  int64
}

// NewImportHandler creates a new ImportHandler. maxFileBytes bounds the
// accepted upload size.
func NewImportHandler(importService *importer.CustomerImportService, exportService *importer.CustomerExportService, maxFileBytes int64) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		exportService: exportService,
		maxFileBytes:  maxFileBytes,
	}
}

// RegisterRoutes registers import/export routes on the API group
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("/import", h.Import)
		customers.GET("/export", h.Export)
	}
}

// Import handles POST /customers/import with a multipart "file" part
func (h *ImportHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file must be uploaded in the 'file' field")
		return
	}
	if h.maxFileBytes > 0 && fileHeader.Size > h.maxFileBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest,
			fmt.Sprintf("File exceeds the maximum size of %d bytes", h.maxFileBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, csvio.ErrEmptyFile),
			errors.Is(err, csvio.ErrInvalidEncoding),
			errors.Is(err, csvio.ErrMissingHeader),
			errors.Is(err, csvio.ErrNoDataRows):
			h.BadRequest(c, err.Error())
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, result)
}

// Export handles GET /customers/export, streaming a CSV attachment
func (h *ImportHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.exportService.Export(c.Request.Context(), &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("customers-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
