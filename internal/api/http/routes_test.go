package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/snowdesk/internal/refresh"
	"github.com/i474232898/snowdesk/internal/resort"
	"github.com/i474232898/snowdesk/internal/scoring"
	"github.com/i474232898/snowdesk/internal/store"
)

type fakeService struct {
	snap       *store.Snapshot
	refreshErr error
	refreshed  int
}

func (f *fakeService) Latest() (*store.Snapshot, error) {
	if f.snap == nil {
		return nil, store.ErrNotReady
	}
	return f.snap, nil
}

func (f *fakeService) Refresh(context.Context) (*store.Snapshot, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.snap, nil
}

var updated = time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC)

func ranked(name string, score int, grade scoring.Grade, rank int) scoring.Ranked {
	return scoring.Ranked{
		Record:      resort.Record{Name: name, IsOpen: true},
		Score:       score,
		Grade:       grade,
		Rank:        rank,
		IsBestToday: rank == 1,
	}
}

func readySnapshot() *store.Snapshot {
	resorts := []scoring.Ranked{
		ranked("Whistler Blackcomb", 88, scoring.GradeEpic, 1),
		ranked("Sun Peaks", 74, scoring.GradeGreat, 2),
		ranked("Mt. Seymour", 71, scoring.GradeGreat, 3),
		ranked("Grouse Mountain", 30, scoring.GradePoor, 4),
	}
	return &store.Snapshot{Resorts: resorts, LastUpdated: updated, Count: len(resorts), CycleID: "cycle-1"}
}

func newTestApp(svc Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(body, &out))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	code, body := do(t, newTestApp(&fakeService{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestResorts_NotReady(t *testing.T) {
	app := newTestApp(&fakeService{})
	for _, path := range []string{"/api/v1/resorts", "/api/v1/best", "/api/v1/resorts/Sun%20Peaks"} {
		code, body := do(t, app, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, code, path)
		assert.Equal(t, true, body["error"])
		assert.Equal(t, "data not ready yet, try again in a moment", body["message"])
	}
}

func TestResorts_List(t *testing.T) {
	code, body := do(t, newTestApp(&fakeService{snap: readySnapshot()}), http.MethodGet, "/api/v1/resorts")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, float64(4), body["count"])
	assert.Equal(t, "2026-01-15T07:30:00Z", body["lastUpdated"])
	resorts := body["resorts"].([]any)
	require.Len(t, resorts, 4)
	first := resorts[0].(map[string]any)
	assert.Equal(t, "Whistler Blackcomb", first["name"])
	assert.Equal(t, true, first["isBestToday"])
}

func TestResorts_FilterAndLimit(t *testing.T) {
	app := newTestApp(&fakeService{snap: readySnapshot()})

	code, body := do(t, app, http.MethodGet, "/api/v1/resorts?grade=Great")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])

	code, body = do(t, app, http.MethodGet, "/api/v1/resorts?limit=1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "Whistler Blackcomb", body["resorts"].([]any)[0].(map[string]any)["name"])
}

func TestResorts_QueryValidation(t *testing.T) {
	app := newTestApp(&fakeService{snap: readySnapshot()})
	for _, q := range []string{"grade=Amazing", "limit=0", "limit=101", "limit=ten"} {
		code, body := do(t, app, http.MethodGet, "/api/v1/resorts?"+q)
		assert.Equal(t, http.StatusBadRequest, code, q)
		assert.Equal(t, true, body["error"], q)
	}
}

func TestResorts_Best(t *testing.T) {
	app := newTestApp(&fakeService{snap: readySnapshot()})
	code, body := do(t, app, http.MethodGet, "/api/v1/best")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Whistler Blackcomb", body["name"])
	assert.Equal(t, float64(1), body["rank"])

	empty := newTestApp(&fakeService{snap: &store.Snapshot{LastUpdated: updated}})
	code, _ = do(t, empty, http.MethodGet, "/api/v1/best")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestResorts_ByNameBest(t *testing.T) {
	snap := readySnapshot()
	snap.Resorts = append(snap.Resorts, ranked("Best", 10, scoring.GradePoor, 5))
	app := newTestApp(&fakeService{snap: snap})

	code, body := do(t, app, http.MethodGet, "/api/v1/resorts/best")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Best", body["name"], "a resort called Best is reachable by name")
	assert.Equal(t, float64(5), body["rank"])
}

func TestResorts_ByName(t *testing.T) {
	app := newTestApp(&fakeService{snap: readySnapshot()})

	code, body := do(t, app, http.MethodGet, "/api/v1/resorts/Mt.%20Seymour")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Mt. Seymour", body["name"])
	assert.Equal(t, float64(3), body["rank"])

	code, body = do(t, app, http.MethodGet, "/api/v1/resorts/sun%20peaks")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sun Peaks", body["name"])

	code, _ = do(t, app, http.MethodGet, "/api/v1/resorts/Atlantis")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRefresh(t *testing.T) {
	svc := &fakeService{snap: readySnapshot()}
	code, body := do(t, newTestApp(svc), http.MethodPost, "/api/v1/refresh")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, svc.refreshed)
	assert.Equal(t, float64(4), body["count"])
	assert.Equal(t, "cycle-1", body["cycleId"])
}

func TestRefresh_CycleFailure(t *testing.T) {
	svc := &fakeService{snap: readySnapshot(), refreshErr: refresh.ErrNoRecords}
	app := newTestApp(svc)

	code, body := do(t, app, http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, true, body["error"])

	code, _ = do(t, app, http.MethodGet, "/api/v1/resorts")
	assert.Equal(t, http.StatusOK, code, "previous snapshot still served")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "snowdesk_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	app := fiber.New()
	RegisterMetrics(app, reg)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "snowdesk_test_total 1")
}
