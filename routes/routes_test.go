package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"experiencehub/database/repository"
	"experiencehub/handlers"
	"experiencehub/models"
	"experiencehub/services/booking"
	"experiencehub/services/experience"
	"experiencehub/services/promo"
	"experiencehub/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

type apiFixture struct {
	router  *gin.Engine
	catalog *experience.DefaultExperienceService
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	catalog := experience.NewExperienceService(repos.Experiences, repos.Inventory, nil, zap.NewNop())
	engine := booking.NewReservationEngine(catalog, repos.Inventory, repos.Bookings, nil, zap.NewNop())

	hb := &handlers.HandlerBundle{
		Experiences: handlers.NewExperienceHandler(catalog, engine),
		Bookings:    handlers.NewBookingHandler(engine),
		Promo:       handlers.NewPromoHandler(promo.NewPromoService()),
		Admin:       handlers.NewAdminHandler(engine),
	}

	r := gin.New()
	r.Use(utils.ErrorHandler())
	RegisterRoutes(r, hb)
	return &apiFixture{router: r, catalog: catalog}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (f *apiFixture) seedKayaking(t *testing.T) string {
	t.Helper()
	exp, err := f.catalog.Create(context.Background(), models.CreateExperienceRequest{
		Title:       "Kayaking",
		Location:    "Goa",
		Description: "Mangrove paddling",
		Price:       999,
		ImageURL:    "https://images.example.com/kayak.jpg",
		AvailabilityCalendar: []models.CalendarEntryInput{{
			Date:      "2025-10-22",
			TimeSlots: []models.SlotInput{{Label: "9:00 AM", TotalUnits: 5}},
		}},
	})
	require.NoError(t, err)
	return exp.ID
}

func bookingBody(expID, email string, qty int) map[string]any {
	return map[string]any{
		"experienceId":  expID,
		"date":          "2025-10-22",
		"slotLabel":     "9:00 AM",
		"customerName":  "Asha",
		"customerEmail": email,
		"customerPhone": "9999999999",
		"quantity":      qty,
	}
}

func TestBookingLifecycle(t *testing.T) {
	f := setupAPI(t)
	expID := f.seedKayaking(t)

	w, body := f.do(t, http.MethodPost, "/api/bookings", bookingBody(expID, "a@x.com", 2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := body["booking"].(map[string]any)
	assert.Equal(t, 1998.0, created["totalPrice"])
	assert.Equal(t, "confirmed", created["status"])
	bookingID := created["id"].(string)

	w, body = f.do(t, http.MethodGet, "/api/experiences/"+expID+"/availability?date=2025-10-22", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := body["timeSlots"].([]any)
	assert.Equal(t, 3.0, slots[0].(map[string]any)["availableUnits"])

	w, body = f.do(t, http.MethodPost, "/api/bookings", bookingBody(expID, "a@x.com", 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(booking.CodeDuplicateBooking), body["code"])

	w, body = f.do(t, http.MethodPost, "/api/bookings", bookingBody(expID, "b@x.com", 4))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 3.0, body["available"])
	assert.Equal(t, 4.0, body["requested"])
	assert.Equal(t, false, body["soldOut"])

	w, body = f.do(t, http.MethodDelete, "/api/bookings/"+bookingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "restored", body["outcome"])

	w, body = f.do(t, http.MethodDelete, "/api/bookings/"+bookingID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(booking.CodeAlreadyCancelled), body["code"])

	w, body = f.do(t, http.MethodGet, "/api/admin/reconcile/"+expID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["consistent"])
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := setupAPI(t)
	expID := f.seedKayaking(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"bad email fails binding", bookingBody(expID, "not-an-email", 1), http.StatusBadRequest, ""},
		{"unknown experience", bookingBody("missing", "a@x.com", 1), http.StatusNotFound, string(booking.CodeExperienceNotFound)},
		{"zero quantity", bookingBody(expID, "a@x.com", 0), http.StatusUnprocessableEntity, string(booking.CodeInvalidQuantity)},
		{"unknown slot", func() map[string]any {
			b := bookingBody(expID, "a@x.com", 1)
			b["slotLabel"] = "4:00 PM"
			return b
		}(), http.StatusBadRequest, string(booking.CodeSlotNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := f.do(t, http.MethodPost, "/api/bookings", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestExperienceEndpoints(t *testing.T) {
	f := setupAPI(t)

	w, body := f.do(t, http.MethodPost, "/api/experiences", map[string]any{
		"title":           "Sunrise Trek",
		"location":        "Munnar",
		"description":     "Early start",
		"price":           1499,
		"imageUrl":        "https://images.example.com/trek.jpg",
		"dates":           []string{"2025-11-01"},
		"slots":           []string{"05:00 am"},
		"defaultCapacity": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["id"].(string)

	w, _ = f.do(t, http.MethodGet, "/api/experiences", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = f.do(t, http.MethodGet, "/api/experiences/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["availabilityCalendar"], 1)

	w, body = f.do(t, http.MethodPatch, "/api/experiences/"+id, map[string]any{"price": 1299})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1299.0, body["price"])

	w, _ = f.do(t, http.MethodPatch, "/api/experiences/"+id, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/experiences/"+id+"/availability?date=2025-12-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = f.do(t, http.MethodGet, "/api/experiences/"+id+"/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["availabilityCalendar"], 1)

	w, _ = f.do(t, http.MethodDelete, "/api/experiences/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/experiences/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromoValidate(t *testing.T) {
	f := setupAPI(t)

	w, body := f.do(t, http.MethodPost, "/api/promo/validate", map[string]any{"promoCode": "save10", "totalAmount": 1998})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 1798.2, body["finalAmount"], 1e-9)

	w, body = f.do(t, http.MethodPost, "/api/promo/validate", map[string]any{"promoCode": "NOPE", "totalAmount": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invalid promo code", body["message"])

	w, body = f.do(t, http.MethodPost, "/api/promo/validate", map[string]any{"promoCode": "SAVE10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valid total amount is required", body["message"])
}

func TestHealth(t *testing.T) {
	f := setupAPI(t)
	w, body := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}
