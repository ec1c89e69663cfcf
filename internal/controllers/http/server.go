package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/ports"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
	"github.com/cc0ffee/greenhouse-sim/internal/weather"
)

type Server struct {
	svc            ports.SimulationService
	srv            *http.Server
	siteID         string
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// New returns a runnable server.
func New(svc ports.SimulationService, addr string, siteID string, allowedOrigins []string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, siteID: siteID, allowedOrigins: allowedOrigins}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Simulation API is running!"})
	})

	// Simulation
	mux.HandleFunc("GET /v1/simulate", s.handleGetSimulate)
	mux.HandleFunc("POST /v1/simulate", s.handlePostSimulate)
	mux.HandleFunc("POST /v1/simulate/batch", s.handlePostBatch)
	mux.HandleFunc("GET /v1/simulate/ws", s.handleWS)
	// Unversioned alias for existing frontends.
	mux.HandleFunc("GET /simulate", s.handleGetSimulate)

	// Read
	mux.HandleFunc("GET /v1/latest", s.handleGetLatest)
	mux.HandleFunc("GET /v1/materials", s.handleGetMaterials)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.cors(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type simulateBody struct {
	simulation.Request
	Unit string `json:"unit"`
}

type batchBody struct {
	Requests []simulation.Request `json:"requests"`
	Unit     string               `json:"unit"`
}

type resultDTO struct {
	Status   string           `json:"status,omitempty"`
	RunID    string           `json:"run_id"`
	SiteID   string           `json:"site_id"`
	City     string           `json:"city"`
	Location weather.Location `json:"location"`
	Data     []recordDTO      `json:"data"`
	Summary  report.Summary   `json:"summary"`
}

// recordDTO keys carry a degree sign, which struct tags cannot express.
type recordDTO map[string]any

func toRecordDTO(r greenhouse.Record, fahrenheit bool) recordDTO {
	dto := recordDTO{
		"Timestamp":                 r.Timestamp.Format(report.TimestampLayout),
		"Mode":                      r.Mode.String(),
		"Internal Temperature (°C)": r.InternalTemperature,
		"External Temperature (°C)": r.ExternalTemperature,
	}
	if fahrenheit {
		dto["Internal Temperature (°F)"] = report.CelsiusToFahrenheit(r.InternalTemperature)
		dto["External Temperature (°F)"] = report.CelsiusToFahrenheit(r.ExternalTemperature)
	}
	return dto
}

func (s *Server) toResultDTO(res simulation.Result, fahrenheit bool) resultDTO {
	data := make([]recordDTO, len(res.Records))
	for i, r := range res.Records {
		data[i] = toRecordDTO(r, fahrenheit)
	}
	siteID := res.SiteID
	if siteID == "" {
		siteID = s.siteID
	}
	return resultDTO{
		RunID:    res.RunID,
		SiteID:   siteID,
		City:     res.City,
		Location: res.Location,
		Data:     data,
		Summary:  res.Summary,
	}
}

// ---- Handlers ----

func (s *Server) handleGetSimulate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := simulation.Request{
		City:      q.Get("city"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if raw := q.Get("initial_temperature"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid initial_temperature")
			return
		}
		req.InitialTemperature = &v
	}
	fahrenheit, err := parseUnit(q.Get("unit"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s.simulate(w, r, req, fahrenheit)
}

func (s *Server) handlePostSimulate(w http.ResponseWriter, r *http.Request) {
	var body simulateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	fahrenheit, err := parseUnit(body.Unit)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s.simulate(w, r, body.Request, fahrenheit)
}

func (s *Server) handlePostBatch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(body.Requests) == 0 {
		writeErr(w, http.StatusBadRequest, "missing field 'requests'")
		return
	}
	fahrenheit, err := parseUnit(body.Unit)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.svc.SimulateBatch(r.Context(), body.Requests)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	out := make([]resultDTO, len(results))
	for i, res := range results {
		out[i] = s.toResultDTO(res, fahrenheit)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "results": out})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	res, ok := s.svc.Latest()
	if !ok {
		writeErr(w, http.StatusNotFound, "no simulation has completed yet")
		return
	}
	fahrenheit, err := parseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	dto := s.toResultDTO(res, fahrenheit)
	dto.Status = "success"
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetMaterials(w http.ResponseWriter, _ *http.Request) {
	type materialDTO struct {
		Name         string  `json:"name"`
		Density      float64 `json:"density"`
		SpecificHeat float64 `json:"specific_heat"`
	}
	out := make([]materialDTO, 0)
	for _, m := range s.svc.Presets() {
		out = append(out, materialDTO{Name: m.Name, Density: m.Density, SpecificHeat: m.SpecificHeat})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- generic helpers ----

func (s *Server) simulate(w http.ResponseWriter, r *http.Request, req simulation.Request, fahrenheit bool) {
	res, err := s.svc.Simulate(r.Context(), req)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	dto := s.toResultDTO(res, fahrenheit)
	dto.Status = "success"
	writeJSON(w, http.StatusOK, dto)
}

func parseUnit(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius":
		return false, nil
	case "f", "fahrenheit":
		return true, nil
	default:
		return false, errors.New("unit must be 'c' or 'f'")
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var vErr *weather.ValidationError
	var apiErr *weather.APIError
	var netErr *weather.NetworkError
	switch {
	case errors.Is(err, simulation.ErrInvalidRequest), errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, greenhouse.ErrMalformedInput):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.allowedOrigins, "*") || slices.Contains(s.allowedOrigins, origin)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
