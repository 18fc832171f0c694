package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"restaurant-dashboard/internal/domain"
)

// Report export formats.
const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
	FormatWord  = "word"
	FormatAll   = "all"
)

var reportExt = map[string]string{
	FormatPDF:   "pdf",
	FormatExcel: "xlsx",
	FormatWord:  "docx",
	FormatAll:   "zip",
}

func ValidReportFormat(f string) bool { _, ok := reportExt[f]; return ok }

// Report is a streamed export. Body must be closed.
type Report struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

func (c *Client) ReportStatistics(ctx context.Context) (json.RawMessage, error) {
	b, err := c.do(ctx, http.MethodGet, "/orderReport/statistics", nil)
	return json.RawMessage(b), err
}

func (c *Client) ReportPreview(ctx context.Context) (json.RawMessage, error) {
	b, err := c.do(ctx, http.MethodGet, "/orderReport/preview", nil)
	return json.RawMessage(b), err
}

func (c *Client) DownloadReport(ctx context.Context, format string) (*Report, error) {
	if !ValidReportFormat(format) {
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/orderReport/download/"+format, nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    "order_report." + reportExt[format],
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		r.Filename = params["filename"]
	}
	if r.ContentType == "" {
		r.ContentType = "application/octet-stream"
	}
	return r, nil
}

func (c *Client) FetchFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return getList[domain.Feedback](ctx, c, c.tenantPath("feedback"))
}
