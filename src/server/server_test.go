package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/plot"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(argo.SampleDataset(), argo.DefaultBounds(), plot.DefaultOptions())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRecords_DefaultBoundsReturnAllSix(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/api/records")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 6 || len(body.Records) != 6 {
		t.Fatalf("expected 6 records, got %d", body.Count)
	}
	if body.Records[0].FloatID != 2903304 || body.Records[5].FloatID != 2901205 {
		t.Fatalf("order not preserved: %+v", body.Records)
	}
}

func TestRecords_QueryOverridesBounds(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/api/records?month=4")
	var body recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 0 || body.Bounds.Month != 4 {
		t.Fatalf("april should be empty: %+v", body)
	}

	resp = get(t, ts.URL+"/api/records?lat_min=-1&lat_max=5")
	body = recordsResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 3 || body.Records[0].FloatID != 2903304 {
		t.Fatalf("expected only float 2903304: %+v", body)
	}
}

func TestInvalidBoundsAre400(t *testing.T) {
	ts := newTestServer(t)
	for _, q := range []string{"lat_min=5&lat_max=-5", "month=13", "year=23", "lat_min=north", "month=march"} {
		for _, path := range []string{"/api/records", "/chart.png", "/"} {
			resp := get(t, ts.URL+path+"?"+q)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("%s?%s: status %d want 400", path, q, resp.StatusCode)
			}
		}
	}
}

func TestChartPNGAndSVG(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/chart.png")
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != plot.DefaultOptions().Width {
		t.Fatalf("png width %d", img.Bounds().Dx())
	}

	resp = get(t, ts.URL+"/chart.svg?month=4&title=Empty+April")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty chart status %d", resp.StatusCode)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(buf.String(), "Empty April") {
		t.Fatalf("title override missing from svg")
	}
}

func TestChartUnknownFormat404(t *testing.T) {
	ts := newTestServer(t)
	if resp := get(t, ts.URL+"/chart.gif"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d want 404", resp.StatusCode)
	}
}

func TestProfilesSummaries(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/api/profiles")
	var sums []argo.ProfileSummary
	if err := json.NewDecoder(resp.Body).Decode(&sums); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sums) != 2 || sums[0].Levels != 3 || sums[1].MaxDepth != 1000 {
		t.Fatalf("unexpected summaries %+v", sums)
	}
}

func TestIndexEmbedsChartWithQuery(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/?lat_min=-3")
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	page := buf.String()
	if !strings.Contains(page, `src="/chart.svg?lat_min=-3"`) {
		t.Fatalf("chart image not linked with query: %s", page)
	}
	if !strings.Contains(page, "6 records") {
		t.Fatalf("record count missing: %s", page)
	}
}

func TestCORSHeader(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	req.Header.Set("Origin", "http://example.org")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin %q", got)
	}
}
