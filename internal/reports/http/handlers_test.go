package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/platform/blobstore"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/reports/repository"
	"github.com/terraverde/terraverde-api/internal/reports/service"
	speciesrepo "github.com/terraverde/terraverde-api/internal/species/repository"
	speciesservice "github.com/terraverde/terraverde-api/internal/species/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := docstore.NewMemoryStore()
	docs.Put("species", "a", map[string]any{"scientific_name": "Panthera onca", "common_name": "Jaguar", "family": "Felidae"})
	docs.Put("species", "b", map[string]any{"nombre_cientifico": "Tremarctos ornatus", "nombre_vulgar": "Oso, de anteojos", "familia": "Ursidae"})

	species := speciesservice.NewSpeciesService(
		speciesrepo.NewSpeciesRepository(docs, "species"),
		speciesservice.NewImageManager(blobstore.NewMemoryStore(), speciesservice.DefaultImagePolicy(), nil, nil),
		speciesservice.Options{},
	)

	r := gin.New()
	r.Use(response.ExposeErrors(true))
	New(service.NewReportService(species, repository.NoopArchive{}, nil)).Register(r.Group("/reports"))
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestCSVReport(t *testing.T) {
	r := setupRouter(t)
	w := get(r, "/reports/csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="species_report_\d{8}_\d{6}\.csv"$`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeffID,Scientific Name,"))
	assert.Contains(t, w.Body.String(), `"Oso, de anteojos"`)
}

func TestXLSXReport(t *testing.T) {
	r := setupRouter(t)
	w := get(r, "/reports/xlsx?family=Felidae")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestDataReport(t *testing.T) {
	r := setupRouter(t)
	w := get(r, "/reports/data?familia=Ursidae")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool         `json:"success"`
		Data    dataResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Data.SpeciesCount)
	require.Len(t, env.Data.Species, 1)
	assert.Equal(t, "Tremarctos ornatus", env.Data.Species[0].ScientificName)
	assert.Equal(t, map[string]string{"family": "Ursidae"}, env.Data.FiltersApplied)
	assert.Equal(t, 1, env.Data.Statistics.Total)
}

func TestReport_BadDate(t *testing.T) {
	r := setupRouter(t)
	w := get(r, "/reports/csv?date_from=soon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
