package opportunity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhas/internal/classifier"
	"milhas/internal/logger"
	"milhas/pkg/errors"
	"milhas/pkg/models"
)

type stubService struct {
	analyzeResult *classifier.Result
	analyzeRecord *Record
	analyzeErr    error
	listFilter    ListFilter
	listRecords   []Record
	statusErr     error
	marketErr     error
}

func (s *stubService) HandleMessage(context.Context, models.RawMessage) (*Record, error) {
	return nil, nil
}

func (s *stubService) Analyze(context.Context, string) (*classifier.Result, *Record, error) {
	return s.analyzeResult, s.analyzeRecord, s.analyzeErr
}

func (s *stubService) List(_ context.Context, filter ListFilter) ([]Record, error) {
	s.listFilter = filter
	return s.listRecords, nil
}

func (s *stubService) UpdateStatus(context.Context, string, string) error { return s.statusErr }

func (s *stubService) MarketData(context.Context, string, int) (*MarketData, error) {
	return nil, s.marketErr
}

func (s *stubService) MarketTrends(context.Context, int) (*classifier.TrendReport, error) {
	return &classifier.TrendReport{MarketTrend: "stable"}, nil
}

func (s *stubService) Profile(context.Context, string) (*UserProfile, error) { return nil, nil }
func (s *stubService) SaveProfile(context.Context, *UserProfile) error       { return nil }

func (s *stubService) Recommendations(context.Context, string) (*classifier.RecommendationSet, error) {
	return nil, nil
}

func (s *stubService) Statistics(context.Context) (*Statistics, error) {
	return &Statistics{TotalOpportunities: 2, GeneratedAt: time.Now()}, nil
}

func (s *stubService) Cleanup(context.Context, int) (int64, error) { return 3, nil }

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func TestAnalyzeEndpoint(t *testing.T) {
	svc := &stubService{
		analyzeResult: &classifier.Result{IsOpportunity: true, Confidence: 0.9},
		analyzeRecord: &Record{ID: "opp_1"},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"compro smiles 50k"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Skipped)
	assert.Equal(t, "opp_1", resp.Opportunity.ID)
}

func TestAnalyzeEndpointRequiresText(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpointParseFailureMapsTo422(t *testing.T) {
	svc := &stubService{analyzeErr: errors.ErrParse.WithDetail("raw_answer", "prose")}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"vendo smiles"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListEndpointDefaultsMinConfidence(t *testing.T) {
	svc := &stubService{listRecords: []Record{}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.7, svc.listFilter.MinConfidence)
}

func TestListEndpointExplicitFilters(t *testing.T) {
	svc := &stubService{listRecords: []Record{}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/opportunities?program=smiles&min_confidence=0.3&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "smiles", svc.listFilter.Program)
	assert.Equal(t, 0.3, svc.listFilter.MinConfidence)
	assert.Equal(t, int64(10), svc.listFilter.Limit)
}

func TestListEndpointRejectsBadConfidence(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/opportunities?min_confidence=1.5", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketDataEndpointUnknownProgram(t *testing.T) {
	svc := &stubService{marketErr: errors.ErrNotFound.WithDetail("program", "unknown")}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/market-data/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusEndpointValidation(t *testing.T) {
	svc := &stubService{statusErr: errors.ErrValidation.WithDetail("status", "archived")}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/opportunities/opp_1/status", strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCleanupEndpoint(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cleanup?days=30", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"affected":3}`, w.Body.String())
}
