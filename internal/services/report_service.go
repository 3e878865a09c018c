package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/benmeehan/hydrant-survey/internal/report"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/benmeehan/hydrant-survey/pkg/blobstore"
	"github.com/rs/zerolog"
)

// ReportService compiles the current session into a report and renders or archives it.
type ReportService struct {
	session  *session.SurveySession
	compiler *report.Compiler
	store    blobstore.BlobStore
	logger   zerolog.Logger
}

// NewReportService creates a ReportService. store may be nil when archiving is not used.
func NewReportService(sess *session.SurveySession, compiler *report.Compiler, store blobstore.BlobStore,
	logger zerolog.Logger) *ReportService {
	return &ReportService{
		session:  sess,
		compiler: compiler,
		store:    store,
		logger:   logger,
	}
}

// Compile summarizes the current session.
func (r *ReportService) Compile() models.ReportModel {
	return r.compiler.Compile(r.session.Snapshot())
}

// Render writes the current report to w in the given format.
func (r *ReportService) Render(ctx context.Context, w io.Writer, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	renderer, err := report.NewRenderer(format)
	if err != nil {
		return err
	}
	return renderer.Render(w, r.Compile())
}

// Archive stores the JSON rendering of the current report and returns its key.
func (r *ReportService) Archive(ctx context.Context) (string, error) {
	if r.store == nil {
		return "", errors.New("report archive is not configured")
	}

	model := r.Compile()
	renderer := &report.JSONRenderer{}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, model); err != nil {
		return "", err
	}

	key := constants.ReportArchivePrefix + report.FileName(model.AreaLabel) + "." + renderer.Extension()
	if err := r.store.Put(ctx, key, buf.Bytes()); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Failed to archive report")
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	r.logger.Info().
		Str("key", key).
		Int("rows", len(model.Rows)).
		Msg("Report archived")
	return key, nil
}
