package httpctrl

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Agrid-Dev/rcdemand/internal/report"
	"github.com/Agrid-Dev/rcdemand/internal/testutil"
)

func TestGET_v1_Index(t *testing.T) {
	srv, f := newTestServer()
	failed := testutil.HeatedRecord("b-2", 48, 10, 500)
	sum := f.Add(failed, 10)
	sum.Failure = &report.Failure{Hour: 10, Kind: "capacity_inconsistency", Message: "boom"}
	f.Sums["b-2"] = sum

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[indexDTO](t, rr)
	if got.RunID != "run-1" {
		t.Fatalf("expected run_id=run-1, got %v", got.RunID)
	}
	if got.Buildings != 2 || got.Completed != 1 || got.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestGET_buildings_SortedSummaries(t *testing.T) {
	srv, f := newTestServer()
	f.Add(testutil.HeatedRecord("a-0", 24, 24, 100), 24)

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[[]report.Summary](t, rr)
	if len(got) != 2 || got[0].BuildingID != "a-0" || got[1].BuildingID != "b-1" {
		t.Fatalf("unexpected summaries: %+v", got)
	}
}

func TestGET_building_Summary(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[report.Summary](t, rr)
	if !got.Completed || got.Hours != 48 {
		t.Fatalf("expected completed 48h summary, got %+v", got)
	}
	// 48 hours at 500 W
	if !almostEqual(got.HeatingKWh, 24, 1e-9) {
		t.Fatalf("expected 24 kWh, got %v", got.HeatingKWh)
	}
}

func TestGET_building_Unknown(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/nope", nil)
	assertStatus(t, rr, http.StatusNotFound)
	_ = assertErrorResponse(t, rr)

	rr = doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/nope/hours", nil)
	assertStatus(t, rr, http.StatusNotFound)
	_ = assertErrorResponse(t, rr)
}

func TestGET_hours_Range(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1/hours?from=10&to=13", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[hoursDTO](t, rr)
	if got.From != 10 || got.To != 13 || len(got.Hours) != 3 {
		t.Fatalf("unexpected range: from=%d to=%d n=%d", got.From, got.To, len(got.Hours))
	}
	for i, h := range got.Hours {
		if h.Hour != 10+i || h.BuildingID != "b-1" {
			t.Fatalf("unexpected hour %d: %+v", i, h)
		}
		if h.QhsSys != 500 {
			t.Fatalf("expected qhs_sys=500, got %v", h.QhsSys)
		}
	}
}

func TestGET_hours_DefaultsToResolved(t *testing.T) {
	srv, f := newTestServer()
	f.Add(testutil.HeatedRecord("b-2", 48, 5, 500), 5)

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-2/hours", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[hoursDTO](t, rr)
	if got.From != 0 || got.To != 5 || len(got.Hours) != 5 {
		t.Fatalf("expected the 5 resolved hours, got from=%d to=%d n=%d", got.From, got.To, len(got.Hours))
	}
}

func TestGET_hours_InvalidRange(t *testing.T) {
	srv, _ := newTestServer()

	cases := []struct {
		name  string
		query string
	}{
		{"not a number", "?from=abc"},
		{"negative", "?from=-1"},
		{"past resolved", "?to=49"},
		{"inverted", "?from=20&to=10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1/hours"+tc.query, nil)
			assertStatus(t, rr, http.StatusBadRequest)
			_ = assertErrorResponse(t, rr)
		})
	}
}

func TestGET_hour(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1/hours/3", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[map[string]any](t, rr)
	if got["status"] != "HEATING_RADIATOR" {
		t.Fatalf("expected status=HEATING_RADIATOR, got %v", got["status"])
	}
	if got["hour"] != float64(3) {
		t.Fatalf("expected hour=3, got %v", got["hour"])
	}
	if v, ok := got["cooling_setpoint"]; !ok || v != nil {
		t.Fatalf("expected cooling_setpoint=null, got %v", v)
	}

	rr = doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1/hours/48", nil)
	assertStatus(t, rr, http.StatusNotFound)

	rr = doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/buildings/b-1/hours/x", nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestGET_healthz(t *testing.T) {
	srv, _ := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.srv.Handler.ServeHTTP(rr, req)

	assertStatus(t, rr, http.StatusOK)
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body 'ok', got %s", rr.Body.String())
	}
}

// ---- test helpers ----

func newTestServer() (*Server, *testutil.FakeResults) {
	f := testutil.NewFakeResults()
	sum := f.Add(testutil.HeatedRecord("b-1", 48, 48, 500), 48)
	sum.RunID = "run-1"
	f.Sums["b-1"] = sum
	return New(f, ":0"), f
}

func almostEqual(a, b, eps float64) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func doJSONRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, path, nil)
	} else {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rr.Code, rr.Body.String())
	}
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v body=%s", err, rr.Body.String())
	}
	return v
}

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeJSON[struct {
		Error string `json:"error"`
	}](t, rr)
	if resp.Error == "" {
		t.Fatalf("expected non-empty error field, got body=%s", rr.Body.String())
	}
	return resp.Error
}
