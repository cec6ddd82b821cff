package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/reports/domain"
	"github.com/terraverde/terraverde-api/internal/reports/export"
	"github.com/terraverde/terraverde-api/internal/reports/repository"
	speciesdomain "github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SpeciesLister is the part of the species service reports read from.
type SpeciesLister interface {
	List(ctx context.Context, f query.Filter) ([]speciesdomain.Species, error)
}

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
	Rows        int
}

// Data is the JSON report.
type Data struct {
	SpeciesCount   int                     `json:"species_count"`
	Species        []speciesdomain.Species `json:"-"`
	Statistics     query.Statistics        `json:"statistics"`
	FiltersApplied map[string]string       `json:"filters_applied"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

type ReportService struct {
	species SpeciesLister
	archive repository.Archive
	log     *zap.Logger
	now     func() time.Time
}

func NewReportService(species SpeciesLister, archive repository.Archive, log *zap.Logger) *ReportService {
	if archive == nil {
		archive = repository.NoopArchive{}
	}
	return &ReportService{species: species, archive: archive, log: logger.OrNop(log), now: time.Now}
}

// Export renders the filtered species in format (csv or xlsx).
func (s *ReportService) Export(ctx context.Context, format, actor string, f query.Filter) (File, error) {
	list, err := s.species.List(ctx, f)
	if err != nil {
		return File{}, err
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case domain.FormatCSV:
		err = export.WriteCSV(&buf, list)
		contentType = contentTypeCSV
	case domain.FormatXLSX:
		err = export.WriteXLSX(&buf, list)
		contentType = contentTypeXLSX
	default:
		return File{}, apperror.Validation("unsupported report format %q", format)
	}
	if err != nil {
		return File{}, apperror.Upstream("failed to render report", err)
	}

	now := s.now().UTC()
	s.record(ctx, format, actor, f, len(list))
	return File{
		Name:        fmt.Sprintf("species_report_%s.%s", now.Format("20060102_150405"), format),
		ContentType: contentType,
		Body:        buf.Bytes(),
		Rows:        len(list),
	}, nil
}

// Data returns the filtered species with statistics computed over them.
func (s *ReportService) Data(ctx context.Context, actor string, f query.Filter) (Data, error) {
	list, err := s.species.List(ctx, f)
	if err != nil {
		return Data{}, err
	}
	now := s.now().UTC()
	s.record(ctx, domain.FormatData, actor, f, len(list))
	return Data{
		SpeciesCount:   len(list),
		Species:        list,
		Statistics:     query.Compute(list, now),
		FiltersApplied: f.Map(),
		GeneratedAt:    now,
	}, nil
}

// Stats summarizes the archive; runs since midnight UTC count as today.
func (s *ReportService) Stats(ctx context.Context) (domain.Stats, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	st, err := s.archive.Stats(ctx, midnight)
	if err != nil {
		return domain.Stats{}, apperror.Upstream("failed to load report stats", err)
	}
	return st, nil
}

// RecordSnapshot archives a statistics snapshot run.
func (s *ReportService) RecordSnapshot(ctx context.Context, total int) error {
	return s.archive.Record(ctx, &domain.Run{
		Format:       domain.FormatStatisticsSnapshot,
		Filters:      map[string]string{},
		SpeciesCount: total,
		RequestedBy:  "scheduler",
	})
}

// record never fails the download.
func (s *ReportService) record(ctx context.Context, format, actor string, f query.Filter, count int) {
	run := &domain.Run{Format: format, Filters: f.Map(), SpeciesCount: count, RequestedBy: actor}
	if err := s.archive.Record(ctx, run); err != nil {
		s.log.Warn("failed to archive report run", zap.String("format", format), zap.Error(err))
		return
	}
	s.log.Info("report generated",
		zap.String("format", format),
		zap.String("run_id", run.ID),
		zap.Int("species", count),
	)
}
