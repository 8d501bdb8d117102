package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/periods"
	"quincena/internal/services"
)

type mockSettingsService struct {
	getSettingsFn    func(userID string) (*models.UserSettings, error)
	updateSettingsFn func(userID string, update services.SettingsUpdate) (*models.UserSettings, error)
	resolvePeriodFn  func(userID string, date time.Time) (string, error)
}

func (m *mockSettingsService) GetSettings(userID string) (*models.UserSettings, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(userID)
	}
	return &models.UserSettings{UserID: userID, Theme: models.ThemeSystem, Language: models.LanguageSpanish, DefaultCurrency: "UYU"}, nil
}

func (m *mockSettingsService) UpdateSettings(userID string, update services.SettingsUpdate) (*models.UserSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(userID, update)
	}
	return &models.UserSettings{Base: models.Base{ID: "settings-1"}, UserID: userID}, nil
}

func (m *mockSettingsService) ResolvePeriod(userID string, date time.Time) (string, error) {
	if m.resolvePeriodFn != nil {
		return m.resolvePeriodFn(userID, date)
	}
	return periods.Resolve(date, nil), nil
}

func setupSettingsRouter(handler *SettingsHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/settings", injectUserID(testUserID))
	g.GET("", handler.GetSettings)
	g.PUT("", handler.UpdateSettings)
	g.GET("/period", handler.ResolvePeriod)
	return r
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	t.Run("returns stored settings", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/settings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		settings := parseJSON(t, rec)["settings"].(map[string]interface{})
		if settings["default_currency"] != "UYU" {
			t.Errorf("expected UYU, got %v", settings["default_currency"])
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewSettingsHandler(&mockSettingsService{}, &mockAuditService{})
		r := gin.New()
		r.GET("/settings", handler.GetSettings)

		rec := doRequest(r, "GET", "/settings", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("passes parsed periods to the service", func(t *testing.T) {
		var got services.SettingsUpdate
		svc := &mockSettingsService{
			updateSettingsFn: func(userID string, update services.SettingsUpdate) (*models.UserSettings, error) {
				got = update
				return &models.UserSettings{Base: models.Base{ID: "settings-1"}, UserID: userID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupSettingsRouter(NewSettingsHandler(svc, audit))

		rec := doRequest(r, "PUT", "/settings",
			`{"payment_periods":[{"period":1,"start_day":1,"end_day":15},{"period":2,"start_day":16,"end_day":31}],"theme":"dark"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.PaymentPeriods == nil || len(*got.PaymentPeriods) != 2 {
			t.Fatalf("expected two payment periods, got %v", got.PaymentPeriods)
		}
		if got.Theme == nil || *got.Theme != models.ThemeDark {
			t.Errorf("expected theme dark, got %v", got.Theme)
		}
		if got.Language != nil {
			t.Errorf("expected language untouched, got %v", *got.Language)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "UPDATE_SETTINGS" {
			t.Errorf("expected an UPDATE_SETTINGS audit entry, got %v", audit.entries)
		}
	})

	t.Run("rejects invalid period ranges", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/settings", `{"payment_periods":[{"period":1,"start_day":0,"end_day":15}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PAYMENT_PERIODS")
	})

	t.Run("rejects unknown theme", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/settings", `{"theme":"neon"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/settings", `{"default_currency":"ABC"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("surfaces service errors", func(t *testing.T) {
		svc := &mockSettingsService{
			updateSettingsFn: func(_ string, _ services.SettingsUpdate) (*models.UserSettings, error) {
				return nil, apperrors.ErrInvalidPaymentPeriods
			},
		}
		r := setupSettingsRouter(NewSettingsHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/settings", `{"payment_periods":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PAYMENT_PERIODS")
	})
}

func TestSettingsHandler_ResolvePeriod(t *testing.T) {
	t.Run("returns the label", func(t *testing.T) {
		var gotDate time.Time
		svc := &mockSettingsService{
			resolvePeriodFn: func(_ string, date time.Time) (string, error) {
				gotDate = date
				return "2024-03-2", nil
			},
		}
		r := setupSettingsRouter(NewSettingsHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/settings/period?date=2024-03-20", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["period"] != "2024-03-2" || result["date"] != "2024-03-20" {
			t.Errorf("unexpected body: %v", result)
		}
		if !gotDate.Equal(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date passed to service: %v", gotDate)
		}
	})

	t.Run("requires a date", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/settings/period", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/settings/period?date=20-03-2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
