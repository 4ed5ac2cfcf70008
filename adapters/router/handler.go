// Package comparerouter exposes the comparison flow over go-router.
package comparerouter

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/procurekit/go-compare/compare"
	csvsource "github.com/procurekit/go-compare/sources/csv"
	xlsxsource "github.com/procurekit/go-compare/sources/xlsx"
)

// Config configures the go-router adapter.
type Config struct {
	// BasePath defaults to /compare.
	BasePath  string
	Service   *compare.Service
	KeyColumn string
	Logger    compare.Logger
}

// Handler exposes the comparison endpoint for go-router.
type Handler struct {
	cfg Config
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}
	base := h.basePath()
	r.Post(base, h.Handle)
	r.Post(base+"/", h.Handle)
}

// Handle runs one comparison from a multipart upload with fields "old" and
// "new", responding with the workbook download. Errors are reported as
// JSON; schema errors include both tables' column lists.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.cfg.Service == nil {
		return writeError(c, compare.NewError(compare.KindInternal, "compare service is required", nil))
	}

	httpCtx, ok := router.AsHTTPContext(c)
	if !ok || httpCtx.Request() == nil {
		return writeError(c, compare.NewError(compare.KindInternal, "http transport required", nil))
	}
	req := httpCtx.Request()

	oldTable, err := formTable(req, "old")
	if err != nil {
		return writeError(c, err)
	}
	newTable, err := formTable(req, "new")
	if err != nil {
		return writeError(c, err)
	}

	var buf bytes.Buffer
	result, err := h.cfg.Service.Execute(c.Context(), compare.CompareRequest{
		Old:       oldTable,
		New:       newTable,
		KeyColumn: h.cfg.KeyColumn,
		Output:    &buf,
	})
	if err != nil {
		h.logger().Errorf("compare request failed: %v", err)
		return writeError(c, err)
	}

	c.SetHeader("Content-Type", compare.ContentTypeXLSX)
	c.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.SetHeader("X-Added-Rows", strconv.Itoa(result.AddedRows))
	c.Status(http.StatusOK)
	return c.Send(buf.Bytes())
}

func (h *Handler) basePath() string {
	if h == nil || h.cfg.BasePath == "" {
		return "/compare"
	}
	return h.cfg.BasePath
}

func (h *Handler) logger() compare.Logger {
	if h != nil && h.cfg.Logger != nil {
		return h.cfg.Logger
	}
	return nopLogger{}
}

func formTable(req *http.Request, field string) (*compare.Table, error) {
	file, header, err := req.FormFile(field)
	if err != nil {
		return nil, compare.NewError(compare.KindInput, fmt.Sprintf("missing %q upload", field), nil)
	}
	defer func() {
		_ = file.Close()
	}()

	if strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		table, err := csvsource.ReadTable(file)
		if err != nil {
			return nil, err
		}
		return &table, nil
	}
	table, err := xlsxsource.ReadTable(file)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func writeError(c router.Context, err error) error {
	ge := compare.AsGoError(err)

	body := map[string]any{
		"message": ge.Message,
		"code":    ge.TextCode,
	}
	var schemaErr *compare.SchemaError
	if errors.As(err, &schemaErr) {
		body["old_columns"] = schemaErr.OldColumns
		body["new_columns"] = schemaErr.NewColumns
	}

	return c.JSON(statusForError(ge), map[string]any{"error": body})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		if err.TextCode == "canceled" {
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

type routeRegistrar interface {
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
