package main

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/consult-cli/internal/config"
	"github.com/sells-group/consult-cli/internal/export"
	"github.com/sells-group/consult-cli/internal/extract"
	"github.com/sells-group/consult-cli/internal/pipeline"
	"github.com/sells-group/consult-cli/internal/scrape"
	"github.com/sells-group/consult-cli/internal/session"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// server serves the interactive form and keeps one result per session.
type server struct {
	cfg      *config.Config
	sessions *session.Store
	now      func() time.Time
}

func newServer(c *config.Config) *server {
	return &server{cfg: c, sessions: session.NewStore(c.Server.MaxSessions), now: time.Now}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/scrape", s.handleScrape)
	r.Get("/download/{format}", s.handleDownload)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/extract", s.handleAPIExtract)
	})

	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

type indexPage struct {
	URL            string
	Fields         string
	ScrapeProvider string
	LLMProvider    string
	Error          string
	Result         *pipeline.Result
	Columns        []string
	Rows           [][]string
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := session.ID(w, r)
	page := s.page(s.sessions.Get(id))
	s.render(w, http.StatusOK, page)
}

func (s *server) handleScrape(w http.ResponseWriter, r *http.Request) {
	id := session.ID(w, r)
	if err := r.ParseForm(); err != nil {
		page := s.page(s.sessions.Get(id))
		page.Error = "invalid form: " + err.Error()
		s.render(w, http.StatusBadRequest, page)
		return
	}

	in := pipeline.Input{
		URL:    strings.TrimSpace(r.FormValue("url")),
		Fields: splitFields(r.FormValue("fields")),
	}
	creds := pipeline.Credentials{
		ScrapeKey: strings.TrimSpace(r.FormValue("scrape_key")),
		LLMKey:    strings.TrimSpace(r.FormValue("llm_key")),
	}

	res, err := s.run(r, in, creds)
	if err != nil {
		page := s.page(s.sessions.Get(id))
		page.URL = in.URL
		page.Fields = r.FormValue("fields")
		page.Error = err.Error()
		s.render(w, statusFor(err), page)
		return
	}

	s.sessions.Put(id, res)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res := s.sessions.Get(session.ID(w, r))
	if res == nil {
		http.Error(w, "no extraction result for this session", http.StatusNotFound)
		return
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	format := chi.URLParam(r, "format")
	switch format {
	case "csv":
		data, err = export.CSV(res.Table)
		contentType = contentTypeCSV
	case "xlsx":
		data, err = export.XLSX(res.Table, s.cfg.Export.Sheet)
		contentType = contentTypeXLSX
	default:
		http.Error(w, "unknown format "+format, http.StatusNotFound)
		return
	}
	if err != nil {
		zap.L().Error("download: export failed", zap.String("format", format), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := export.TimestampedName(s.cfg.Export.DownloadPrefix, format, s.now())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type apiExtractRequest struct {
	URL       string   `json:"url"`
	Fields    []string `json:"fields"`
	ScrapeKey string   `json:"scrape_key"`
	LLMKey    string   `json:"llm_key"`
}

type apiExtractResponse struct {
	URL     string     `json:"url"`
	Source  string     `json:"source"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

func (s *server) handleAPIExtract(w http.ResponseWriter, r *http.Request) {
	var req apiExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := s.run(r, pipeline.Input{URL: req.URL, Fields: req.Fields},
		pipeline.Credentials{ScrapeKey: req.ScrapeKey, LLMKey: req.LLMKey})
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, apiExtractResponse{
		URL:     res.URL,
		Source:  res.Source,
		Columns: res.Table.Columns(),
		Rows:    res.Table.Rows(),
		Count:   res.Table.Len(),
	})
}

// run validates the input before building any client, then runs the pipeline.
func (s *server) run(r *http.Request, in pipeline.Input, creds pipeline.Credentials) (*pipeline.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := newRunner(s.cfg, creds)
	if err != nil {
		return nil, err
	}
	return p.Run(r.Context(), in)
}

func (s *server) page(res *pipeline.Result) indexPage {
	p := indexPage{
		URL:            s.cfg.Scrape.URL,
		Fields:         strings.Join(s.cfg.Scrape.Fields, ", "),
		ScrapeProvider: s.cfg.Scrape.Provider,
		LLMProvider:    s.cfg.LLM.Provider,
		Result:         res,
	}
	if res != nil {
		p.URL = res.URL
		p.Fields = strings.Join(res.Fields, ", ")
		p.Columns = res.Table.Columns()
		p.Rows = res.Table.Rows()
	}
	return p
}

func (s *server) render(w http.ResponseWriter, status int, page indexPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, page); err != nil {
		zap.L().Error("render index", zap.Error(err))
	}
}

// statusFor maps a run error to an HTTP status.
func statusFor(err error) int {
	var (
		cfgErr   *pipeline.ConfigurationError
		fetchErr *scrape.FetchError
		compErr  *extract.CompletionError
		parseErr *extract.ParseError
		shapeErr *extract.ShapeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr), errors.As(err, &compErr):
		return http.StatusBadGateway
	case errors.As(err, &parseErr), errors.As(err, &shapeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
