package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/services"
)

const testStockPeriodID = "0190a8a4-7f1e-7c52-9c3e-2f6b1d0e4d01"

type mockStockPeriodService struct {
	createFn func(userID string, input services.StockPeriodInput) (*models.StockPeriod, error)
	listFn   func(userID string, page pagination.PageRequest, activeOn *time.Time) (*pagination.PageResponse[models.StockPeriod], error)
	getFn    func(userID, periodID string) (*models.StockPeriod, error)
	updateFn func(userID, periodID string, update services.StockPeriodUpdate) (*models.StockPeriod, error)
	deleteFn func(userID, periodID string) error
}

func (m *mockStockPeriodService) CreateStockPeriod(userID string, input services.StockPeriodInput) (*models.StockPeriod, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.StockPeriod{Base: models.Base{ID: testStockPeriodID}, UserID: userID, Symbol: input.Symbol}, nil
}

func (m *mockStockPeriodService) GetStockPeriods(userID string, page pagination.PageRequest, activeOn *time.Time) (*pagination.PageResponse[models.StockPeriod], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, activeOn)
	}
	resp := pagination.NewPageResponse([]models.StockPeriod{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStockPeriodService) GetStockPeriodByID(userID, periodID string) (*models.StockPeriod, error) {
	if m.getFn != nil {
		return m.getFn(userID, periodID)
	}
	return &models.StockPeriod{Base: models.Base{ID: periodID}, UserID: userID}, nil
}

func (m *mockStockPeriodService) UpdateStockPeriod(userID, periodID string, update services.StockPeriodUpdate) (*models.StockPeriod, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, periodID, update)
	}
	return &models.StockPeriod{Base: models.Base{ID: periodID}, UserID: userID}, nil
}

func (m *mockStockPeriodService) DeleteStockPeriod(userID, periodID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, periodID)
	}
	return nil
}

func setupStockPeriodRouter(handler *StockPeriodHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/stock-periods", injectUserID(testUserID))
	g.POST("", handler.CreateStockPeriod)
	g.GET("", handler.GetStockPeriods)
	g.GET("/:id", handler.GetStockPeriod)
	g.PUT("/:id", handler.UpdateStockPeriod)
	g.DELETE("/:id", handler.DeleteStockPeriod)
	return r
}

func TestStockPeriodHandler_Create(t *testing.T) {
	t.Run("returns 201 with an open period", func(t *testing.T) {
		var got services.StockPeriodInput
		svc := &mockStockPeriodService{
			createFn: func(userID string, input services.StockPeriodInput) (*models.StockPeriod, error) {
				got = input
				return &models.StockPeriod{Base: models.Base{ID: testStockPeriodID}, UserID: userID, Symbol: "MELI"}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupStockPeriodRouter(NewStockPeriodHandler(svc, audit))

		rec := doRequest(r, "POST", "/stock-periods",
			`{"symbol":"meli","shares":"12.5","grant_price":"1500","currency":"USD","start_date":"2024-01-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.EndDate != nil {
			t.Errorf("expected no end date, got %v", got.EndDate)
		}
		if !got.Shares.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("unexpected shares %s", got.Shares)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_STOCK_PERIOD" {
			t.Errorf("expected a CREATE_STOCK_PERIOD audit entry, got %v", audit.entries)
		}
	})

	t.Run("surfaces an inverted date range", func(t *testing.T) {
		svc := &mockStockPeriodService{
			createFn: func(_ string, _ services.StockPeriodInput) (*models.StockPeriod, error) {
				return nil, apperrors.ErrInvalidDateRange
			},
		}
		r := setupStockPeriodRouter(NewStockPeriodHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stock-periods",
			`{"symbol":"MELI","shares":"1","grant_price":"1","currency":"USD","start_date":"2024-05-01","end_date":"2024-01-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})

	t.Run("rejects malformed end date", func(t *testing.T) {
		r := setupStockPeriodRouter(NewStockPeriodHandler(&mockStockPeriodService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stock-periods",
			`{"symbol":"MELI","shares":"1","grant_price":"1","currency":"USD","start_date":"2024-05-01","end_date":"soon"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockPeriodHandler_List(t *testing.T) {
	t.Run("passes active_on", func(t *testing.T) {
		var got *time.Time
		svc := &mockStockPeriodService{
			listFn: func(_ string, _ pagination.PageRequest, activeOn *time.Time) (*pagination.PageResponse[models.StockPeriod], error) {
				got = activeOn
				resp := pagination.NewPageResponse([]models.StockPeriod{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupStockPeriodRouter(NewStockPeriodHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stock-periods?active_on=2024-03-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || !got.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected active_on %v", got)
		}
	})

	t.Run("rejects malformed active_on", func(t *testing.T) {
		r := setupStockPeriodRouter(NewStockPeriodHandler(&mockStockPeriodService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/stock-periods?active_on=today", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockPeriodHandler_Update(t *testing.T) {
	t.Run("clears the end date", func(t *testing.T) {
		var got services.StockPeriodUpdate
		svc := &mockStockPeriodService{
			updateFn: func(userID, periodID string, update services.StockPeriodUpdate) (*models.StockPeriod, error) {
				got = update
				return &models.StockPeriod{Base: models.Base{ID: periodID}, UserID: userID}, nil
			},
		}
		r := setupStockPeriodRouter(NewStockPeriodHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/stock-periods/"+testStockPeriodID, `{"clear_end_date":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.ClearEndDate || got.EndDate != nil {
			t.Errorf("expected a cleared end date, got %+v", got)
		}
	})

	t.Run("rejects end_date with clear_end_date", func(t *testing.T) {
		r := setupStockPeriodRouter(NewStockPeriodHandler(&mockStockPeriodService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/stock-periods/"+testStockPeriodID, `{"clear_end_date":true,"end_date":"2024-12-31"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404", func(t *testing.T) {
		svc := &mockStockPeriodService{
			updateFn: func(_, _ string, _ services.StockPeriodUpdate) (*models.StockPeriod, error) {
				return nil, apperrors.ErrStockPeriodNotFound
			},
		}
		r := setupStockPeriodRouter(NewStockPeriodHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/stock-periods/"+testStockPeriodID, `{"notes":"vested"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_PERIOD_NOT_FOUND")
	})
}

func TestStockPeriodHandler_Delete(t *testing.T) {
	audit := &mockAuditService{}
	r := setupStockPeriodRouter(NewStockPeriodHandler(&mockStockPeriodService{}, audit))

	rec := doRequest(r, "DELETE", "/stock-periods/"+testStockPeriodID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.entries) != 1 || audit.entries[0].resourceID != testStockPeriodID {
		t.Errorf("expected a DELETE_STOCK_PERIOD audit entry, got %v", audit.entries)
	}
}
