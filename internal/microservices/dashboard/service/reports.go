package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"restaurant-dashboard/internal/gateway"
)

type ReportServiceInterface interface {
	Statistics(ctx context.Context) (json.RawMessage, error)
	Preview(ctx context.Context) (json.RawMessage, error)
	Download(ctx context.Context, format string) (*gateway.Report, error)
}

type ReportService struct {
	gw Gateway
}

func NewReportService(gw Gateway) *ReportService {
	return &ReportService{gw: gw}
}

func (s *ReportService) Statistics(ctx context.Context) (json.RawMessage, error) {
	b, err := s.gw.ReportStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("report statistics: %w", err)
	}
	return b, nil
}

func (s *ReportService) Preview(ctx context.Context) (json.RawMessage, error) {
	b, err := s.gw.ReportPreview(ctx)
	if err != nil {
		return nil, fmt.Errorf("report preview: %w", err)
	}
	return b, nil
}

// Download streams an export; the caller closes the report body.
func (s *ReportService) Download(ctx context.Context, format string) (*gateway.Report, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !gateway.ValidReportFormat(format) {
		return nil, fmt.Errorf("%w: unsupported report format %q", ErrBadRequest, format)
	}
	r, err := s.gw.DownloadReport(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("download %s report: %w", format, err)
	}
	return r, nil
}
