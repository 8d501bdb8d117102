package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"quincena/internal/aguinaldo"
	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/services"
)

const testSalaryID = "0190a8a4-7f1e-7c52-9c3e-2f6b1d0e4c01"

type mockSalaryService struct {
	upsertSalaryFn  func(userID string, input services.SalaryInput) (*models.Salary, error)
	getSalariesFn   func(userID string, year int) ([]models.Salary, error)
	getSalaryByIDFn func(userID, salaryID string) (*models.Salary, error)
	updateSalaryFn  func(userID, salaryID string, update services.SalaryUpdate) (*models.Salary, error)
	deleteSalaryFn  func(userID, salaryID string) error
	getAguinaldoFn  func(userID string, year int) (*services.AguinaldoReport[models.Salary], error)
}

func (m *mockSalaryService) UpsertSalary(userID string, input services.SalaryInput) (*models.Salary, error) {
	if m.upsertSalaryFn != nil {
		return m.upsertSalaryFn(userID, input)
	}
	return &models.Salary{Base: models.Base{ID: testSalaryID}, UserID: userID, Year: input.Year, Month: input.Month}, nil
}

func (m *mockSalaryService) GetSalaries(userID string, year int) ([]models.Salary, error) {
	if m.getSalariesFn != nil {
		return m.getSalariesFn(userID, year)
	}
	return []models.Salary{}, nil
}

func (m *mockSalaryService) GetSalaryByID(userID, salaryID string) (*models.Salary, error) {
	if m.getSalaryByIDFn != nil {
		return m.getSalaryByIDFn(userID, salaryID)
	}
	return &models.Salary{Base: models.Base{ID: salaryID}, UserID: userID}, nil
}

func (m *mockSalaryService) UpdateSalary(userID, salaryID string, update services.SalaryUpdate) (*models.Salary, error) {
	if m.updateSalaryFn != nil {
		return m.updateSalaryFn(userID, salaryID, update)
	}
	return &models.Salary{Base: models.Base{ID: salaryID}, UserID: userID}, nil
}

func (m *mockSalaryService) DeleteSalary(userID, salaryID string) error {
	if m.deleteSalaryFn != nil {
		return m.deleteSalaryFn(userID, salaryID)
	}
	return nil
}

func (m *mockSalaryService) GetAguinaldo(userID string, year int) (*services.AguinaldoReport[models.Salary], error) {
	if m.getAguinaldoFn != nil {
		return m.getAguinaldoFn(userID, year)
	}
	return &services.AguinaldoReport[models.Salary]{Year: year, Payments: []models.Salary{}, Summary: aguinaldo.Summarize(aguinaldo.NewWindow(year), nil)}, nil
}

func setupSalaryRouter(handler *SalaryHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/salaries", injectUserID(testUserID))
	g.PUT("", handler.UpsertSalary)
	g.GET("", handler.GetSalaries)
	g.GET("/aguinaldo/:year", handler.GetAguinaldo)
	g.GET("/:id", handler.GetSalary)
	g.PUT("/:id", handler.UpdateSalary)
	g.DELETE("/:id", handler.DeleteSalary)
	return r
}

func TestSalaryHandler_UpsertSalary(t *testing.T) {
	t.Run("defaults payment number to 1", func(t *testing.T) {
		var got services.SalaryInput
		svc := &mockSalaryService{
			upsertSalaryFn: func(userID string, input services.SalaryInput) (*models.Salary, error) {
				got = input
				return &models.Salary{Base: models.Base{ID: testSalaryID}, UserID: userID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupSalaryRouter(NewSalaryHandler(svc, audit))

		rec := doRequest(r, "PUT", "/salaries",
			`{"year":2024,"month":3,"gross_amount":"80000","net_amount":"62000.50","currency":"UYU"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.PaymentNumber != 1 {
			t.Errorf("expected payment number 1, got %d", got.PaymentNumber)
		}
		if !got.NetAmount.Equal(decimal.RequireFromString("62000.50")) {
			t.Errorf("unexpected net amount %s", got.NetAmount)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "UPSERT_SALARY" {
			t.Errorf("expected an UPSERT_SALARY audit entry, got %v", audit.entries)
		}
	})

	t.Run("rejects month 13", func(t *testing.T) {
		r := setupSalaryRouter(NewSalaryHandler(&mockSalaryService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/salaries", `{"year":2024,"month":13,"gross_amount":"1","net_amount":"1","currency":"UYU"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewSalaryHandler(&mockSalaryService{}, &mockAuditService{})
		r := gin.New()
		r.PUT("/salaries", handler.UpsertSalary)

		rec := doRequest(r, "PUT", "/salaries", `{}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestSalaryHandler_GetSalaries(t *testing.T) {
	t.Run("passes the year", func(t *testing.T) {
		gotYear := -1
		svc := &mockSalaryService{
			getSalariesFn: func(_ string, year int) ([]models.Salary, error) {
				gotYear = year
				return []models.Salary{{Year: 2024, Month: 1}}, nil
			},
		}
		r := setupSalaryRouter(NewSalaryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/salaries?year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotYear != 2024 {
			t.Errorf("expected year 2024, got %d", gotYear)
		}
		if list := parseJSON(t, rec)["salaries"].([]interface{}); len(list) != 1 {
			t.Errorf("expected one salary, got %d", len(list))
		}
	})

	t.Run("all years without the parameter", func(t *testing.T) {
		gotYear := -1
		svc := &mockSalaryService{
			getSalariesFn: func(_ string, year int) ([]models.Salary, error) {
				gotYear = year
				return []models.Salary{}, nil
			},
		}
		r := setupSalaryRouter(NewSalaryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/salaries", "")

		if rec.Code != http.StatusOK || gotYear != 0 {
			t.Fatalf("expected 200 with year 0, got %d and %d", rec.Code, gotYear)
		}
	})

	t.Run("rejects a non-numeric year", func(t *testing.T) {
		r := setupSalaryRouter(NewSalaryHandler(&mockSalaryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/salaries?year=last", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSalaryHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update maps amounts", func(t *testing.T) {
		var got services.SalaryUpdate
		svc := &mockSalaryService{
			updateSalaryFn: func(userID, salaryID string, update services.SalaryUpdate) (*models.Salary, error) {
				got = update
				return &models.Salary{Base: models.Base{ID: salaryID}, UserID: userID}, nil
			},
		}
		r := setupSalaryRouter(NewSalaryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/salaries/"+testSalaryID, `{"gross_amount":"90000"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.GrossAmount == nil || !got.GrossAmount.Equal(decimal.NewFromInt(90000)) {
			t.Errorf("unexpected gross amount %v", got.GrossAmount)
		}
		if got.NetAmount != nil || got.Currency != nil {
			t.Error("expected untouched net amount and currency")
		}
	})

	t.Run("update returns 404", func(t *testing.T) {
		svc := &mockSalaryService{
			updateSalaryFn: func(_, _ string, _ services.SalaryUpdate) (*models.Salary, error) {
				return nil, apperrors.ErrSalaryNotFound
			},
		}
		r := setupSalaryRouter(NewSalaryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/salaries/"+testSalaryID, `{"notes":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SALARY_NOT_FOUND")
	})

	t.Run("delete", func(t *testing.T) {
		var deleted string
		svc := &mockSalaryService{
			deleteSalaryFn: func(_, salaryID string) error {
				deleted = salaryID
				return nil
			},
		}
		audit := &mockAuditService{}
		r := setupSalaryRouter(NewSalaryHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/salaries/"+testSalaryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testSalaryID {
			t.Errorf("expected %s deleted, got %q", testSalaryID, deleted)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_SALARY" {
			t.Errorf("expected a DELETE_SALARY audit entry, got %v", audit.entries)
		}
	})
}

func TestSalaryHandler_GetAguinaldo(t *testing.T) {
	t.Run("returns the window report", func(t *testing.T) {
		svc := &mockSalaryService{
			getAguinaldoFn: func(_ string, year int) (*services.AguinaldoReport[models.Salary], error) {
				return &services.AguinaldoReport[models.Salary]{
					Year:     year,
					From:     "2023-12-01",
					To:       "2024-11-30",
					Payments: []models.Salary{{Year: 2023, Month: 12}, {Year: 2024, Month: 1}},
					Summary:  aguinaldo.Summary{Year: year, Payments: 2, Currencies: []aguinaldo.CurrencySummary{}},
				}, nil
			},
		}
		r := setupSalaryRouter(NewSalaryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/salaries/aguinaldo/2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		payments := result["payments"].([]interface{})
		if len(payments) != 2 {
			t.Fatalf("expected 2 payments, got %d", len(payments))
		}
		first := payments[0].(map[string]interface{})
		if first["year"].(float64) != 2023 || first["month"].(float64) != 12 {
			t.Errorf("expected December of the previous year first, got %v", first)
		}
	})

	t.Run("rejects a non-numeric year", func(t *testing.T) {
		r := setupSalaryRouter(NewSalaryHandler(&mockSalaryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/salaries/aguinaldo/next", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
