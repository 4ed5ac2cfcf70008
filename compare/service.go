package compare

import (
	"bytes"
	"context"
	"io"
	"time"
)

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// CompareRequest carries one comparison invocation.
type CompareRequest struct {
	Old       *Table
	New       *Table
	KeyColumn string
	// Filename is an optional filename template; see RenderFilename.
	Filename string
	// Output optionally receives the workbook bytes directly.
	Output        io.Writer
	RenderOptions RenderOptions
}

// CompareResult summarizes a completed comparison.
type CompareResult struct {
	AddedRows int
	OldRows   int
	NewRows   int
	Columns   []string
	Filename  string
	Bytes     int64
	Artifact  *ArtifactRef
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Store  ArtifactStore
	Logger Logger
	Now    func() time.Time
}

// Service runs the full comparison flow: precondition check, pipeline,
// workbook render, optional artifact storage. Each Execute call is
// independent and stateless; concurrent calls share nothing mutable.
type Service struct {
	renderer WorkbookRenderer
	store    ArtifactStore
	logger   Logger
	now      func() time.Time
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{
		store:  cfg.Store,
		logger: logger,
		now:    nowFn,
	}
}

// Execute runs one comparison end to end. It fails before the pipeline
// when either input table is missing, and surfaces pipeline errors
// verbatim; nothing is written or stored on failure.
func (s *Service) Execute(ctx context.Context, req CompareRequest) (CompareResult, error) {
	if req.Old == nil || req.New == nil {
		return CompareResult{}, NewError(KindInput, "both an old and a new input table are required", nil)
	}

	result, err := Run(ctx, *req.Old, *req.New, req.KeyColumn)
	if err != nil {
		s.logger.Errorf("comparison failed: %v", err)
		return CompareResult{}, err
	}

	filename, err := RenderFilename(req.Filename, s.now())
	if err != nil {
		return CompareResult{}, NewError(KindValidation, "invalid filename template", err)
	}

	var buf bytes.Buffer
	stats, err := s.renderer.Render(ctx, result, &buf, req.RenderOptions)
	if err != nil {
		s.logger.Errorf("workbook render failed: %v", err)
		return CompareResult{}, err
	}

	if req.Output != nil {
		if _, err := req.Output.Write(buf.Bytes()); err != nil {
			return CompareResult{}, err
		}
	}

	var ref *ArtifactRef
	if s.store != nil {
		stored, err := s.store.Put(ctx, filename, bytes.NewReader(buf.Bytes()), ArtifactMeta{
			ContentType: ContentTypeXLSX,
			Filename:    filename,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return CompareResult{}, err
		}
		ref = &stored
	}

	s.logger.Infof("comparison complete: %d added rows, %d bytes", result.AddedCount(), stats.Bytes)

	return CompareResult{
		AddedRows: result.AddedCount(),
		OldRows:   result.Old.Len(),
		NewRows:   result.New.Len(),
		Columns:   result.Columns,
		Filename:  filename,
		Bytes:     stats.Bytes,
		Artifact:  ref,
	}, nil
}
