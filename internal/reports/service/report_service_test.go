package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/reports/domain"
	speciesdomain "github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

type fakeLister struct {
	list []speciesdomain.Species
	err  error
}

func (f fakeLister) List(_ context.Context, flt query.Filter) ([]speciesdomain.Species, error) {
	if f.err != nil {
		return nil, f.err
	}
	return query.Apply(f.list, flt), nil
}

type fakeArchive struct {
	runs []domain.Run
	err  error
}

func (a *fakeArchive) Record(_ context.Context, run *domain.Run) error {
	if a.err != nil {
		return a.err
	}
	run.ID = "run-1"
	a.runs = append(a.runs, *run)
	return nil
}

func (a *fakeArchive) Stats(_ context.Context, since time.Time) (domain.Stats, error) {
	st := domain.Stats{ByFormat: map[string]int{}}
	for _, r := range a.runs {
		st.Total++
		st.ByFormat[r.Format]++
	}
	return st, a.err
}

var now = time.Date(2026, 4, 20, 8, 15, 0, 0, time.UTC)

func newService(archive *fakeArchive, lister fakeLister) *ReportService {
	s := NewReportService(lister, archive, nil)
	s.now = func() time.Time { return now }
	return s
}

func catalog() []speciesdomain.Species {
	return []speciesdomain.Species{
		{ID: "1", ScientificName: "Panthera onca", Family: "Felidae", Active: true},
		{ID: "2", ScientificName: "Puma concolor", Family: "Felidae", Active: true},
		{ID: "3", ScientificName: "Tremarctos ornatus", Family: "Ursidae"},
	}
}

func TestExport_CSV(t *testing.T) {
	archive := &fakeArchive{}
	s := newService(archive, fakeLister{list: catalog()})

	file, err := s.Export(context.Background(), domain.FormatCSV, "uid-1", query.Filter{Family: "Felidae"})
	require.NoError(t, err)

	assert.Equal(t, "species_report_20260420_081500.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, 2, file.Rows)
	assert.Equal(t, 3, strings.Count(string(file.Body), "\n"))

	require.Len(t, archive.runs, 1)
	assert.Equal(t, domain.Run{
		ID:           "run-1",
		Format:       "csv",
		Filters:      map[string]string{"family": "Felidae"},
		SpeciesCount: 2,
		RequestedBy:  "uid-1",
	}, archive.runs[0])
}

func TestExport_XLSX(t *testing.T) {
	s := newService(&fakeArchive{}, fakeLister{list: catalog()})

	file, err := s.Export(context.Background(), domain.FormatXLSX, "", query.Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Name, ".xlsx"))
	assert.True(t, bytes.HasPrefix(file.Body, []byte("PK")))
}

func TestExport_Errors(t *testing.T) {
	s := newService(&fakeArchive{}, fakeLister{list: catalog()})
	_, err := s.Export(context.Background(), "pdf", "", query.Filter{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	s = newService(&fakeArchive{}, fakeLister{err: apperror.Upstream("failed to list species", errors.New("down"))})
	_, err = s.Export(context.Background(), domain.FormatCSV, "", query.Filter{})
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestExport_ArchiveFailureDoesNotFailDownload(t *testing.T) {
	s := newService(&fakeArchive{err: errors.New("db down")}, fakeLister{list: catalog()})

	file, err := s.Export(context.Background(), domain.FormatCSV, "", query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, file.Rows)
}

func TestData(t *testing.T) {
	archive := &fakeArchive{}
	s := newService(archive, fakeLister{list: catalog()})

	data, err := s.Data(context.Background(), "", query.Filter{Family: "Felidae"})
	require.NoError(t, err)
	assert.Equal(t, 2, data.SpeciesCount)
	assert.Equal(t, 2, data.Statistics.Total)
	assert.Equal(t, map[string]string{"family": "Felidae"}, data.FiltersApplied)
	assert.Equal(t, now, data.GeneratedAt)
	assert.Equal(t, domain.FormatData, archive.runs[0].Format)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
}

func TestRecordSnapshot(t *testing.T) {
	archive := &fakeArchive{}
	s := newService(archive, fakeLister{})

	require.NoError(t, s.RecordSnapshot(context.Background(), 42))
	require.Len(t, archive.runs, 1)
	assert.Equal(t, domain.FormatStatisticsSnapshot, archive.runs[0].Format)
	assert.Equal(t, 42, archive.runs[0].SpeciesCount)
}
