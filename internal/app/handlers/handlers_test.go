package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/treasury-admin/internal/app/handlers"
	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/service"
)

// fakeTreasuryService — фиктивная реализация для тестирования.
type fakeTreasuryService struct {
	snapshot   *models.Snapshot
	links      []models.AttributionLink
	err        error
	lastParams service.RefreshParams
}

var _ service.TreasuryService = (*fakeTreasuryService)(nil)

func (f *fakeTreasuryService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeTreasuryService) Refresh(ctx context.Context, params service.RefreshParams) (*models.Snapshot, error) {
	f.lastParams = params
	return f.snapshot, f.err
}

func (f *fakeTreasuryService) Attribution(ctx context.Context) []models.AttributionLink {
	return f.links
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:              "snap-1",
		ReportedBalance: "123456.78",
		Currency:        "PSC",
		UserGainsTotal:  "600.00",
	}
}

func TestSnapshotHandler_Success(t *testing.T) {
	fakeSvc := &fakeTreasuryService{snapshot: sampleSnapshot()}
	handler := handlers.SnapshotHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/treasury", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp models.Snapshot
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "snap-1", resp.ID)
	assert.Equal(t, "600.00", resp.UserGainsTotal)
}

func TestSnapshotHandler_ServiceError(t *testing.T) {
	fakeSvc := &fakeTreasuryService{err: errors.New("no ledger available")}
	handler := handlers.SnapshotHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/treasury", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRefreshHandler_Success(t *testing.T) {
	fakeSvc := &fakeTreasuryService{snapshot: sampleSnapshot()}
	handler := handlers.RefreshHandler(testLogger(), fakeSvc)

	reqBody := `{"limit": 500, "top": 5}`
	req := httptest.NewRequest("POST", "/api/treasury/refresh", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 500, fakeSvc.lastParams.Limit)
	assert.Equal(t, 5, fakeSvc.lastParams.TopN)
}

func TestRefreshHandler_EmptyBodyUsesDefaults(t *testing.T) {
	fakeSvc := &fakeTreasuryService{snapshot: sampleSnapshot()}
	handler := handlers.RefreshHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/treasury/refresh", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, fakeSvc.lastParams.Limit, "zero params are filled by the service")
}

func TestRefreshHandler_ValidationError(t *testing.T) {
	fakeSvc := &fakeTreasuryService{snapshot: sampleSnapshot()}
	handler := handlers.RefreshHandler(testLogger(), fakeSvc)

	// отрицательный limit не проходит валидацию
	reqBody := `{"limit": -5}`
	req := httptest.NewRequest("POST", "/api/treasury/refresh", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefreshHandler_DecodingError(t *testing.T) {
	fakeSvc := &fakeTreasuryService{snapshot: sampleSnapshot()}
	handler := handlers.RefreshHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/treasury/refresh", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttributionHandler_Success(t *testing.T) {
	gain := decimal.NewFromInt(600)
	acqID := "acq-1"
	fakeSvc := &fakeTreasuryService{
		links: []models.AttributionLink{
			{WithdrawalID: "pay-1", MatchedAcquisitionID: &acqID, RealizedGain: &gain},
		},
	}
	handler := handlers.AttributionHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/treasury/attribution", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Links []models.AttributionLink `json:"links"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Links, 1)
	assert.Equal(t, "acq-1", *resp.Links[0].MatchedAcquisitionID)
}

func TestAttributionHandler_EmptyBeforeFirstRun(t *testing.T) {
	fakeSvc := &fakeTreasuryService{}
	handler := handlers.AttributionHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/treasury/attribution", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"links": []}`, rr.Body.String())
}
