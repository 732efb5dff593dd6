package di

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sibtech_backend/internal/app/config"
	"sibtech_backend/internal/app/router"
	"sibtech_backend/internal/feature/health/adapters/heuristic"
	"sibtech_backend/internal/platform/db"
)

func newTestServer(t *testing.T) (*gin.Engine, *App) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.OpenSQLiteMemory(Models()...)
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:           "test-secret",
		TokenTTL:            time.Hour,
		Location:            time.UTC,
		DemoTTL:             time.Hour,
		MeasurementCacheTTL: time.Minute,
	}
	app := Build(cfg, gdb, nil, heuristic.New())
	return router.NewRouter(app.Handlers, app.Options), app
}

func do(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func greenPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 60, G: 170, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, r http.Handler, path, token string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", "leaf.png")
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, user, pass string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/login", "", `{"username":"`+user+`","password":"`+pass+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestApp_EndToEnd(t *testing.T) {
	r, app := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/measurements", "", "").Code)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/signup", "", `{"username":"sara","password":"pw"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/signup", "", `{"username":"sara","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/signup", "", `{"username":"long","password":"`+strings.Repeat("p", 73)+`"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodPost, "/login", "", `{"username":"sara","password":"nope"}`).Code)
	token := login(t, r, "sara", "pw")

	// measurements and forecast
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, r, http.MethodGet, "/forecast", token, "").Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/measurements", token, `{"date":"2024-01-01","height":10,"leaves":4}`).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/measurements", token, `{"date":"2024-01-08","height":17,"leaves":6}`).Code)
	w := do(t, r, http.MethodGet, "/forecast?weeks=1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"date":"2024-01-15","height":24,"leaves":8}]`, w.Body.String())

	// schedule
	w = do(t, r, http.MethodPost, "/schedule/generate", token, `{"start_date":"2024-01-01","weeks":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var tasks []struct {
		ID       uint   `json:"id"`
		TaskName string `json:"task_name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.NotEmpty(t, tasks)
	w = do(t, r, http.MethodPatch, "/schedule/"+itoa(tasks[0].ID), token, `{"done":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// predictions
	w = upload(t, r, "/predictions", token, greenPNG(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"label":"Healthy"`)

	// disease notes
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/disease-notes", token, `{"note":"aphids"}`).Code)

	// dashboard
	w = do(t, r, http.MethodGet, "/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"measurement_count":2`)
	assert.Contains(t, w.Body.String(), `"prediction_count":1`)

	// export
	w = do(t, r, http.MethodGet, "/export?format=csv&kind=measurements", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="measurements.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "id,user_id,date,height,leaves,notes,prune_needed")
	w = do(t, r, http.MethodGet, "/export?format=xlsx", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="sibtech_export.xlsx"`, w.Header().Get("Content-Disposition"))

	// another user sees nothing of sara's
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/signup", "", `{"username":"ali","password":"pw2"}`).Code)
	other := login(t, r, "ali", "pw2")
	w = do(t, r, http.MethodGet, "/measurements", other, "")
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPatch, "/schedule/"+itoa(tasks[0].ID), other, `{"done":false}`).Code)

	// logout revokes the token
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/dashboard", token, "").Code)

	assert.NotNil(t, app.Demo, "memory demo store is swept by the daily job")
}

func TestApp_DemoFlow(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/demo", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var start struct {
		DemoID string `json:"demo_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &start))

	w = upload(t, r, "/demo/"+start.DemoID+"/predict", "", greenPNG(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/demo/"+start.DemoID+"/history", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"file":"leaf.png"`)

	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/predictions", start.DemoID, "").Code, "a demo id is not a bearer token")

	require.Equal(t, http.StatusOK, do(t, r, http.MethodDelete, "/demo/"+start.DemoID, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/demo/"+start.DemoID+"/history", "", "").Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
