package server

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btklist/database"
	"btklist/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededStore(t *testing.T) *database.SnapshotDB {
	t.Helper()
	db, err := database.NewSnapshotDB(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := []*models.CompanyRecord{
		{ID: 1, Company: models.Ptr("Alfa Bilişim A.Ş."), Address: models.Ptr("Ankara"), Type: models.Ptr("Yer Sağlayıcı"), Phone: models.Ptr("+903121234567")},
		{ID: 2, Company: models.Ptr("Beta Hosting"), Address: models.Ptr("İstanbul"), Type: models.Ptr("Yer Sağlayıcı")},
		{ID: 2, Company: models.Ptr("Beta Hosting Ltd."), Address: models.Ptr("İstanbul"), Type: models.Ptr("Yer Sağlayıcı")},
		{ID: 3, Company: models.Ptr("Gama Veri"), Address: models.Ptr("İzmir"), Type: models.Ptr("Barındırma")},
	}
	now := time.Now()
	err = db.ReplaceSnapshot(records, database.RunInfo{
		RunID:         "run-1",
		StartedAt:     now.Add(-time.Minute),
		FinishedAt:    now,
		UpstreamTotal: 5,
		Pages:         1,
		Fetched:       5,
		Rejected:      1,
		Kept:          4,
	})
	require.NoError(t, err)
	return db
}

func newTestServer(t *testing.T, store Store) *Server {
	t.Helper()
	return NewServer(Config{Port: "0", SourceURL: "https://example.test/list"}, store, nil)
}

func doGet(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestListCompanies(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/api/companies?limit=2&offset=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompaniesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 1, resp.Offset)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Beta Hosting", *resp.Items[0].Company)
	assert.Equal(t, "Beta Hosting Ltd.", *resp.Items[1].Company)
}

func TestListCompanies_Filters(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/api/companies?type=Bar%C4%B1nd%C4%B1rma")
	require.Equal(t, http.StatusOK, w.Code)
	var byType CompaniesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byType))
	require.Equal(t, 1, byType.Total)
	assert.Equal(t, int64(3), byType.Items[0].ID)

	w = doGet(s, "/api/companies?q=Alfa")
	require.Equal(t, http.StatusOK, w.Code)
	var byQuery CompaniesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byQuery))
	require.Equal(t, 1, byQuery.Total)
	assert.Equal(t, "+903121234567", *byQuery.Items[0].Phone)
	assert.Nil(t, byQuery.Items[0].Fax)
}

func TestListCompanies_InvalidPaging(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	for _, target := range []string{
		"/api/companies?limit=abc",
		"/api/companies?limit=0",
		"/api/companies?offset=-1",
	} {
		w := doGet(s, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGetCompany(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/api/companies/2")
	require.Equal(t, http.StatusOK, w.Code)

	var records []*models.CompanyRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	assert.Equal(t, http.StatusNotFound, doGet(s, "/api/companies/99").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(s, "/api/companies/x").Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Records)
	require.NotNil(t, resp.LastRun)
	assert.Equal(t, "run-1", resp.LastRun.RunID)
	assert.Equal(t, 5, resp.LastRun.UpstreamTotal)
}

func TestStats_NoRuns(t *testing.T) {
	db, err := database.NewSnapshotDB(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := newTestServer(t, db)

	w := doGet(s, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"records":0,"last_run":null}`, w.Body.String())
}

func TestReport(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	assert.Equal(t, "## Kayıt Sayısı: 5", lines[2])
	assert.Equal(t, "### Kaynak: <https://example.test/list>", lines[4])
	assert.Equal(t, "| 1 | Alfa Bilişim A.Ş. | Yer Sağlayıcı | Ankara | +903121234567 | - | - | - |", lines[8])
	assert.Len(t, lines, 12)
}

func TestResponsesAreGzipped(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "# Ticari Amaçlı"))
}

type brokenStore struct{}

func (brokenStore) ListCompanies(database.CompanyFilter) ([]*models.CompanyRecord, int, error) {
	return nil, 0, errors.New("disk I/O error")
}

func (brokenStore) GetCompanies(int64) ([]*models.CompanyRecord, error) {
	return nil, errors.New("disk I/O error")
}

func (brokenStore) LastRun() (*database.RunInfo, error) {
	return nil, errors.New("disk I/O error")
}

func TestStoreFailures(t *testing.T) {
	s := newTestServer(t, brokenStore{})

	for _, target := range []string{"/api/companies", "/api/companies/1", "/api/stats", "/api/report"} {
		w := doGet(s, target)
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.Contains(t, w.Body.String(), `"error":true`, target)
	}
}

func TestSwaggerDoc(t *testing.T) {
	s := newTestServer(t, seededStore(t))

	w := doGet(s, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api", doc["basePath"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/companies")
	assert.Contains(t, paths, "/report")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, seededStore(t))
	assert.Equal(t, http.StatusNotFound, doGet(s, "/nope").Code)
}
