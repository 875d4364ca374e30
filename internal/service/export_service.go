package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/export"
	"github.com/noah-isme/fms-dashboard-api/pkg/storage"
)

// ErrExportExpired is returned for download links past their expiry.
var ErrExportExpired = appErrors.New("EXPORT_EXPIRED", http.StatusGone, "download link expired")

type dashboardSummarizer interface {
	Summary(ctx context.Context, query dto.DashboardQuery, role models.UserRole) (*dto.DashboardResponse, bool, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Dashboard dashboardSummarizer
	Storage   fileStorage
	Signer    *storage.SignedURLSigner
	Renderers map[models.ExportFormat]Renderer
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    ExportConfig
}

// DownloadFile is an opened export ready to stream.
type DownloadFile struct {
	File        *os.File
	Name        string
	ContentType string
	ExpiresAt   time.Time
}

// ExportService renders dashboards to files and hands out signed links.
type ExportService struct {
	dashboard dashboardSummarizer
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[models.ExportFormat]Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. CSV and PDF renderers are
// registered unless overridden.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderers := map[models.ExportFormat]Renderer{
		models.ExportFormatCSV: export.NewCSVExporter(),
		models.ExportFormatPDF: export.NewPDFExporter(),
	}
	for format, r := range params.Renderers {
		renderers[format] = r
	}
	return &ExportService{
		dashboard: params.Dashboard,
		storage:   params.Storage,
		signer:    params.Signer,
		renderers: renderers,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export renders the dashboard for query and returns a signed download link.
func (s *ExportService) Export(ctx context.Context, query dto.DashboardQuery, format models.ExportFormat, role models.UserRole) (*models.ExportResult, error) {
	format = models.ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = models.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	summary, _, err := s.dashboard.Summary(ctx, query, role)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(DashboardDataset(summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(path.Join("dashboard", id+"."+renderer.Extension()), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	s.metrics.RecordExport(string(format))
	s.logger.Info("dashboard exported",
		zap.String("export_id", id),
		zap.String("format", string(format)),
		zap.String("window", string(summary.Window)),
		zap.Int("bytes", len(payload)),
	)

	return &models.ExportResult{
		ID:        id,
		Format:    format,
		URL:       fmt.Sprintf("%s/export/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveDownload validates token and opens the referenced file.
func (s *ExportService) ResolveDownload(token string) (*DownloadFile, error) {
	_, relPath, expiresAt, err := s.signer.Parse(token, false)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, ErrExportExpired
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrOutsideBase) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}

	name := path.Base(relPath)
	contentType := "application/octet-stream"
	for _, r := range s.renderers {
		if strings.HasSuffix(name, "."+r.Extension()) {
			contentType = r.ContentType()
			break
		}
	}
	return &DownloadFile{File: file, Name: name, ContentType: contentType, ExpiresAt: expiresAt}, nil
}

// Cleanup removes stored exports older than ttl, or the configured result TTL
// when ttl is not positive.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// StartCleanup purges old exports every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup(ttl)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

// DashboardDataset flattens a dashboard into metric/value rows.
func DashboardDataset(resp *dto.DashboardResponse) export.Dataset {
	subtitle := string(resp.Window)
	switch r := resp.Range; {
	case r.From != nil && r.To != nil:
		subtitle = fmt.Sprintf("%s: %s to %s", resp.Window, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	case r.From != nil:
		subtitle = fmt.Sprintf("%s: since %s", resp.Window, r.From.Format("2006-01-02 15:04"))
	}
	return export.Dataset{
		Title:    "Facility Management Dashboard",
		Subtitle: subtitle,
		Headers:  []string{"metric", "value"},
		Rows:     SnapshotRows(resp.Metrics),
	}
}

// SnapshotRows lists the headline figures of a snapshot in display order.
func SnapshotRows(m models.MetricsSnapshot) [][]string {
	pairs := []struct {
		name  string
		value int
	}{
		{"totalComplaints", m.TotalComplaints},
		{"openComplaints", m.OpenComplaints},
		{"resolvedComplaints", m.ResolvedComplaints},
		{"resolutionRate", m.ResolutionRate},
		{"totalWorkOrders", m.TotalWorkOrders},
		{"completedWorkOrders", m.CompletedWorkOrders},
		{"overdueWorkOrders", m.OverdueWorkOrders},
		{"totalPPMs", m.TotalPPMs},
		{"completedPPMs", m.CompletedPPMs},
		{"ppmComplianceRate", m.PPMComplianceRate},
		{"activeAssets", m.ActiveAssets},
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.name, strconv.Itoa(p.value)})
	}
	return rows
}
