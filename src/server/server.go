// Package server shows the profile chart in a browser tab and exposes the
// filtered records as JSON.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iafilius/ArgoProfileMonitor/src/argo"
	"github.com/iafilius/ArgoProfileMonitor/src/plot"
	"github.com/iafilius/ArgoProfileMonitor/src/types"
)

// Server serves one immutable dataset.
type Server struct {
	ds       types.Dataset
	defaults argo.Bounds
	opts     plot.Options
}

// New returns a Server whose requests fall back to defaults and opts for
// any query parameter they do not set.
func New(ds types.Dataset, defaults argo.Bounds, opts plot.Options) *Server {
	return &Server{ds: ds, defaults: defaults, opts: opts}
}

// Handler wires the routes behind permissive CORS for GET requests.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/chart.{format:png|svg}", s.handleChart).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodGet)
	api.HandleFunc("/profiles", s.handleProfiles).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": len(s.ds)})
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(r)
}

// boundsFromQuery overlays lat_min, lat_max, month and year on the defaults.
func (s *Server) boundsFromQuery(q url.Values) (argo.Bounds, error) {
	b := s.defaults
	parseF := func(key string, dst *float64) error {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", argo.ErrInvalidBounds, key, v)
		}
		*dst = f
		return nil
	}
	parseI := func(key string, dst *int) error {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", argo.ErrInvalidBounds, key, v)
		}
		*dst = n
		return nil
	}
	if err := parseF("lat_min", &b.LatMin); err != nil {
		return b, err
	}
	if err := parseF("lat_max", &b.LatMax); err != nil {
		return b, err
	}
	month := int(b.Month)
	if err := parseI("month", &month); err != nil {
		return b, err
	}
	b.Month = time.Month(month)
	if err := parseI("year", &b.Year); err != nil {
		return b, err
	}
	return b, b.Validate()
}

func (s *Server) filtered(r *http.Request) (types.Dataset, argo.Bounds, error) {
	b, err := s.boundsFromQuery(r.URL.Query())
	if err != nil {
		return nil, b, err
	}
	ds, err := argo.Filter(s.ds, b)
	return ds, b, err
}

func (s *Server) chartOptions(r *http.Request) plot.Options {
	o := s.opts
	if t := strings.TrimSpace(r.URL.Query().Get("title")); t != "" {
		o.Title = t
	}
	return o
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ds, b, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := plot.Format(mux.Vars(r)["format"])
	var buf bytes.Buffer
	if err := plot.Build(ds, s.chartOptions(r)).Render(&buf, f); err != nil {
		argo.Errorf("render chart %s: %v", b, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

type recordsResponse struct {
	Bounds  argo.Bounds   `json:"bounds"`
	Count   int           `json:"count"`
	Records types.Dataset `json:"records"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds, b, err := s.filtered(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Bounds: b, Count: len(ds), Records: ds})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.filtered(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, argo.Summarize(argo.GroupByFloat(ds)))
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="margin:0;background:#fff;font-family:sans-serif">
<p style="margin:8px">{{.Bounds}} &middot; {{.Count}} records</p>
<img src="/chart.svg?{{.Query}}" alt="{{.Title}}">
</body></html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds, b, err := s.filtered(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data := struct {
		Title  string
		Bounds string
		Count  int
		Query  template.URL
	}{
		Title:  s.chartOptions(r).Title,
		Bounds: b.String(),
		Count:  len(ds),
		Query:  template.URL(r.URL.Query().Encode()),
	}
	if data.Title == "" {
		data.Title = plot.DefaultTitle
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		argo.Errorf("index template: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		argo.Errorf("encode json response: %v", err)
	}
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	argo.Infof("serving profile chart on http://%s/", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
