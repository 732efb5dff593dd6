package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sibtech_backend/internal/feature/dashboard/usecase"
	scheduleentity "sibtech_backend/internal/feature/schedule/domain/entity"
	trackingentity "sibtech_backend/internal/feature/tracking/domain/entity"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/identity"
)

type mockDashboardUsecase struct {
	SummaryFunc func(ctx context.Context, sess identity.SessionContext, today time.Time) (*usecase.Summary, error)
}

func (m *mockDashboardUsecase) Summary(ctx context.Context, sess identity.SessionContext, today time.Time) (*usecase.Summary, error) {
	return m.SummaryFunc(ctx, sess, today)
}

func serve(t *testing.T, h *DashboardHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/dashboard", func(c *gin.Context) {
		c.Set(jwtmw.ContextSession, identity.SessionContext{UserID: 1, Username: "sara"})
	}, h.Get)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	return w
}

func TestDashboardHandler_Get(t *testing.T) {
	tehran, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	var gotDay time.Time
	uc := &mockDashboardUsecase{SummaryFunc: func(ctx context.Context, sess identity.SessionContext, today time.Time) (*usecase.Summary, error) {
		gotDay = today
		return &usecase.Summary{
			MeasurementCount:  2,
			PredictionCount:   1,
			LatestMeasurement: &trackingentity.Measurement{Date: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), Height: 21.5, Leaves: 9},
			PendingToday:      []scheduleentity.Task{{ID: 4, TaskName: "Watering", Notes: "Water deeply"}},
		}, nil
	}}
	h := NewDashboardHandler(uc, tehran)
	// 22:00 UTC on May 5 is already May 6 in Tehran
	h.now = func() time.Time { return time.Date(2024, 5, 5, 22, 0, 0, 0, time.UTC) }

	w := serve(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), gotDay)
	assert.JSONEq(t, `{
		"username":"sara","today":"2024-05-06","measurement_count":2,"prediction_count":1,
		"latest_measurement":{"date":"2024-05-05","height":21.5,"leaves":9,"prune_needed":false},
		"pending_today":[{"id":4,"task_name":"Watering","notes":"Water deeply"}]
	}`, w.Body.String())
}

func TestDashboardHandler_Get_EmptyAndError(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardUsecase{SummaryFunc: func(context.Context, identity.SessionContext, time.Time) (*usecase.Summary, error) {
		return &usecase.Summary{}, nil
	}}, nil)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	w := serve(t, h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"sara","today":"2024-01-01","measurement_count":0,"prediction_count":0,"latest_measurement":null,"pending_today":[]}`, w.Body.String())

	h = NewDashboardHandler(&mockDashboardUsecase{SummaryFunc: func(context.Context, identity.SessionContext, time.Time) (*usecase.Summary, error) {
		return nil, errors.New("db")
	}}, nil)
	w = serve(t, h)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
