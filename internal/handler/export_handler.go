package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/response"
)

type downloadResolver interface {
	ResolveDownload(token string) (*service.DownloadFile, error)
}

// ExportHandler streams stored exports behind signed links.
type ExportHandler struct {
	service downloadResolver
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc downloadResolver) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Download godoc
// @Summary Download a dashboard export via signed token
// @Tags Dashboard
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.service.ResolveDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close() //nolint:errcheck

	info, err := file.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), file.ContentType, file.File, nil)
}
