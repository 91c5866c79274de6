package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubState struct {
	state dataset.State
}

func (s stubState) State() dataset.State { return s.state }

func ip(v int) *int { return &v }

func loadedState(records []model.Record) dataset.State {
	return dataset.State{Dataset: &model.Dataset{
		Header:      []string{"County", "City", "Model Year", "Make", "Electric Range"},
		Records:     records,
		Source:      "testdata",
		Fingerprint: "abc123",
	}}
}

func scenario() []model.Record {
	return []model.Record{
		{County: "King", Make: "TESLA", City: "Seattle", ElectricRange: ip(250), ModelYear: ip(2022), ElectricVehicleType: "Battery Electric Vehicle (BEV)"},
		{County: "King", Make: "TESLA", City: "Seattle", ElectricRange: ip(300), ModelYear: ip(2022), ElectricVehicleType: "Battery Electric Vehicle (BEV)"},
		{County: "King", Make: "NISSAN", City: "Bellevue", ElectricRange: ip(150), ModelYear: ip(2021), ElectricVehicleType: "Battery Electric Vehicle (BEV)"},
	}
}

func newTestRouter(t *testing.T, st dataset.State, opts Options) *gin.Engine {
	t.Helper()
	logger := zerolog.Nop()
	router, err := NewRouter(dashboard.NewService(stubState{state: st}, 10), opts, &logger)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return router
}

func do(router http.Handler, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndRequestID(t *testing.T) {
	router := newTestRouter(t, dataset.State{Loading: true}, Options{})

	rec := do(router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want echo", got)
	}

	if rec := do(router, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestLoadingState(t *testing.T) {
	router := newTestRouter(t, dataset.State{Loading: true}, Options{})

	for _, path := range []string{"/api/overview", "/api/filters", "/api/dashboard?city=Seattle", "/api/charts/make.png", "/api/export/records.csv"} {
		rec := do(router, http.MethodGet, path, "", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Errorf("%s missing Retry-After", path)
		}
	}

	rec := do(router, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("home status = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Find("#status.loading").Is("section") {
		t.Error("home page should show the loading state")
	}

	rec = do(router, http.MethodGet, "/api/dataset/status", "", "")
	var st datasetStatusResp
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil || !st.Loading {
		t.Errorf("status = %+v, err %v", st, err)
	}
	if strings.Contains(rec.Body.String(), "loadedAt") {
		t.Errorf("loading status should omit loadedAt: %s", rec.Body.String())
	}
}

func TestDatasetStatusLoaded(t *testing.T) {
	st := loadedState(scenario())
	st.Dataset.LoadedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(t, st, Options{})

	rec := do(router, http.MethodGet, "/api/dataset/status", "", "")
	var resp datasetStatusResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Loading || resp.Records != 3 || resp.LoadedAt == nil || !resp.LoadedAt.Equal(st.Dataset.LoadedAt) {
		t.Errorf("status = %+v", resp)
	}
}

func TestFailedState(t *testing.T) {
	loadErr := &dataset.LoadError{Kind: dataset.ErrNetworkFailure, Err: errors.New("failed to fetch CSV: 404 Not Found")}
	router := newTestRouter(t, dataset.State{Err: loadErr}, Options{})

	rec := do(router, http.MethodGet, "/api/filters", "", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404 Not Found") {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/dashboard?city=Seattle", "", "")
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if msg := doc.Find("#status .error").Text(); !strings.Contains(msg, "network failure") {
		t.Errorf("error message = %q", msg)
	}
}

func TestAPIDashboard(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	rec := do(router, http.MethodGet, "/api/dashboard?city=Seattle", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var d model.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Count != 2 || d.Summary.AvgElectricRange != 275 || d.Summary.MostCommonYear != "2022" {
		t.Errorf("dashboard = %+v", d)
	}
	if n, _ := d.RangeDistribution.Get("201-300"); n != 2 {
		t.Errorf("201-300 bucket = %d", n)
	}
	if d.DatasetFingerprint != "abc123" {
		t.Errorf("fingerprint = %q", d.DatasetFingerprint)
	}

	if rec := do(router, http.MethodGet, "/api/dashboard?make=%zz", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed query status = %d", rec.Code)
	}
}

func TestAPIFiltersAndOverview(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	rec := do(router, http.MethodGet, "/api/filters", "", "")
	var resp struct {
		Items []model.FilterCategory `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != len(dashboard.Attributes) {
		t.Fatalf("got %d categories", len(resp.Items))
	}
	if resp.Items[1].Key != "city" || strings.Join(resp.Items[1].Options, ",") != "Bellevue,Seattle" {
		t.Errorf("city category = %+v", resp.Items[1])
	}

	rec = do(router, http.MethodGet, "/api/overview", "", "")
	var ov model.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatal(err)
	}
	if ov.TotalEVs != 3 || ov.TopCity.City != "Seattle" || ov.TopManufacturer.Make != "TESLA" {
		t.Errorf("overview = %+v", ov)
	}
}

func TestApplyFiltersJSON(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	rec := do(router, http.MethodPost, "/api/filters/apply",
		`{"filters":[{"attribute":"Model Year","value":"2022"},{"attribute":"Base MSRP","value":"Under $30k"}]}`, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["query"] != "model_year=2022&base_msrp=Under+%2430k" {
		t.Errorf("query = %q", resp["query"])
	}
	if resp["location"] != "/dashboard?"+resp["query"] {
		t.Errorf("location = %q", resp["location"])
	}

	for _, body := range []string{`{"filters":[]}`, `{"filters":[{"attribute":"VIN","value":"x"}]}`, `not json`} {
		if rec := do(router, http.MethodPost, "/api/filters/apply", body, "application/json"); rec.Code != http.StatusBadRequest {
			t.Errorf("body %s status = %d, want 400", body, rec.Code)
		}
	}
}

func TestApplyForm(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	form := url.Values{"make": {"TESLA"}, "electric_range": {"201-300"}, "city": {""}}
	rec := do(router, http.MethodPost, "/apply", form.Encode(), "application/x-www-form-urlencoded")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard?make=TESLA&electric_range=201-300" {
		t.Errorf("Location = %q", loc)
	}

	rec = do(router, http.MethodPost, "/apply", "", "application/x-www-form-urlencoded")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty form status = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("#filters .error").Length() != 1 {
		t.Error("expected an error message on the home page")
	}
}

func TestHomePageEmptyDataset(t *testing.T) {
	router := newTestRouter(t, loadedState(nil), Options{})

	rec := do(router, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("#top-city").Text(); got != "Seattle" {
		t.Errorf("top city = %q, want fallback", got)
	}
	if !strings.Contains(doc.Find("#overview").Text(), "10,427") {
		t.Error("fallback count should be formatted with separators")
	}
	if got := doc.Find("#total-evs").Text(); got != "0" {
		t.Errorf("total = %q", got)
	}
	if n := doc.Find("select").Length(); n != len(dashboard.Attributes) {
		t.Errorf("got %d selects", n)
	}
	if n := doc.Find("select#f-city option").Length(); n != 1 {
		t.Errorf("empty dataset should only offer Any, got %d options", n)
	}
}

func TestDashboardPage(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	rec := do(router, http.MethodGet, "/dashboard?city=Seattle", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(doc.Find("#count").Text()); got != "Showing 2 vehicles" {
		t.Errorf("count = %q", got)
	}
	if got := doc.Find("#active-filters .chip").Text(); got != "City: Seattle" {
		t.Errorf("chips = %q", got)
	}
	if n := doc.Find(".charts img").Length(); n != 5 {
		t.Errorf("got %d charts, want 5", n)
	}
	src, _ := doc.Find(".charts img").First().Attr("src")
	if src != "/api/charts/make.svg?city=Seattle" {
		t.Errorf("chart src = %q", src)
	}
	if doc.Find("#summary").Length() != 1 {
		t.Error("summary should render when vehicles match")
	}

	rec = do(router, http.MethodGet, "/dashboard?city=Tacoma", "", "")
	doc, _ = goquery.NewDocumentFromReader(rec.Body)
	if doc.Find("#summary").Length() != 0 || doc.Find("#empty").Length() != 1 {
		t.Error("no-match page should hide the summary")
	}
}

func TestChartsAndExport(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{})

	rec := do(router, http.MethodGet, "/api/charts/make.png?city=Seattle", "", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("chart status = %d type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec := do(router, http.MethodGet, "/api/charts/make.png?city=Tacoma", "", ""); rec.Code != http.StatusNoContent {
		t.Errorf("empty chart status = %d, want 204", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/api/charts/colour.png", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown chart status = %d, want 404", rec.Code)
	}

	rec = do(router, http.MethodGet, "/api/export/records.csv?city=Seattle", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "ev-records.csv") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][1] != "Seattle" || rows[1][4] != "250" {
		t.Errorf("rows = %q", rows)
	}
	if rec := do(router, http.MethodGet, "/api/export/records.pdf", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown export status = %d", rec.Code)
	}
}

func TestCORSAndRateLimit(t *testing.T) {
	router := newTestRouter(t, loadedState(scenario()), Options{
		AllowedOrigins: []string{"https://ev.example.com"},
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "https://ev.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ev.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got, ok := rec.Header()["Access-Control-Allow-Origin"]; ok {
		t.Errorf("unlisted origin got allow origin %q", got)
	}

	if rec := do(router, http.MethodGet, "/api/overview", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec = do(router, http.MethodGet, "/api/overview", "", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz should not be rate limited, got %d", rec.Code)
	}
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "empty list allows all", origins: nil, origin: "https://a.test", want: "*"},
		{name: "wildcard entry", origins: []string{"*"}, origin: "https://a.test", want: "*"},
		{name: "listed origin echoed", origins: []string{"https://a.test"}, origin: "https://a.test", want: "https://a.test"},
		{name: "unlisted origin", origins: []string{"https://a.test"}, origin: "https://b.test", want: ""},
		{name: "no origin header", origins: []string{"https://a.test"}, origin: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allowOrigin(tt.origins, tt.origin); got != tt.want {
				t.Errorf("allowOrigin(%v, %q) = %q, want %q", tt.origins, tt.origin, got, tt.want)
			}
		})
	}
}

func TestAccessLogQueryHash(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	router, err := NewRouter(dashboard.NewService(stubState{state: loadedState(scenario())}, 10), Options{}, &logger)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	do(router, http.MethodGet, "/api/dashboard?make=TESLA", "", "")
	do(router, http.MethodGet, "/api/dashboard?make=tesla", "", "")

	var hashes []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry struct {
			QueryHash string `json:"query_hash"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		hashes = append(hashes, entry.QueryHash)
	}
	if len(hashes) != 2 {
		t.Fatalf("got %d log lines, want 2", len(hashes))
	}
	if hashes[0] != util.HashBytes([]byte("make=TESLA")) {
		t.Errorf("query_hash = %q", hashes[0])
	}
	if hashes[0] == hashes[1] {
		t.Error("queries differing only in case should log different hashes")
	}
}
