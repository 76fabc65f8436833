package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// MaxHoursPerRequest bounds the size of one /hours response.
const MaxHoursPerRequest = 744

type Server struct {
	svc ports.ResultsService
	srv *http.Server
}

// New returns a runnable server.
func New(svc ports.ResultsService, addr string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc}

	mux.HandleFunc("GET /v1", s.handleIndex)
	mux.HandleFunc("GET /v1/buildings", s.handleList)
	mux.HandleFunc("GET /v1/buildings/{id}", s.handleSummary)
	mux.HandleFunc("GET /v1/buildings/{id}/hours", s.handleHours)
	mux.HandleFunc("GET /v1/buildings/{id}/hours/{hour}", s.handleHour)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
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

type indexDTO struct {
	RunID     string `json:"run_id"`
	Buildings int    `json:"buildings"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

type hoursDTO struct {
	BuildingID string        `json:"building_id"`
	From       int           `json:"from"`
	To         int           `json:"to"`
	Hours      []record.Hour `json:"hours"`
}

// ---- Handlers ----

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	sums := s.svc.Summaries()
	dto := indexDTO{Buildings: len(sums)}
	for _, sum := range sums {
		if dto.RunID == "" {
			dto.RunID = sum.RunID
		}
		if sum.Failure != nil {
			dto.Failed++
		} else if sum.Completed {
			dto.Completed++
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Summaries())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sum, ok := s.svc.Summary(id)
	if !ok {
		writeErr(w, http.StatusNotFound, fmt.Sprintf("unknown building %q", id))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleHours serves the resolved hours in [from, to). Both bounds are
// optional; to defaults to from + MaxHoursPerRequest.
func (s *Server) handleHours(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, resolved, ok := s.lookup(id)
	if !ok {
		writeErr(w, http.StatusNotFound, fmt.Sprintf("unknown building %q", id))
		return
	}

	q := r.URL.Query()
	from, err := queryInt(q.Get("from"), 0)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid 'from'")
		return
	}
	to, err := queryInt(q.Get("to"), min(from+MaxHoursPerRequest, resolved))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid 'to'")
		return
	}
	if from < 0 || to > resolved || from > to {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("range [%d, %d) outside resolved hours [0, %d)", from, to, resolved))
		return
	}
	if to-from > MaxHoursPerRequest {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("range larger than %d hours", MaxHoursPerRequest))
		return
	}

	dto := hoursDTO{BuildingID: id, From: from, To: to, Hours: make([]record.Hour, 0, to-from)}
	for t := from; t < to; t++ {
		dto.Hours = append(dto.Hours, rec.Hour(t))
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleHour(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, resolved, ok := s.lookup(id)
	if !ok {
		writeErr(w, http.StatusNotFound, fmt.Sprintf("unknown building %q", id))
		return
	}
	t, err := strconv.Atoi(r.PathValue("hour"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid hour")
		return
	}
	if t < 0 || t >= resolved {
		writeErr(w, http.StatusNotFound, fmt.Sprintf("hour %d not resolved", t))
		return
	}
	writeJSON(w, http.StatusOK, rec.Hour(t))
}

// ---- generic helpers ----

// lookup returns the record of a building and how many of its hours were resolved.
func (s *Server) lookup(id string) (*record.Record, int, bool) {
	sum, ok := s.svc.Summary(id)
	if !ok {
		return nil, 0, false
	}
	rec, ok := s.svc.Record(id)
	if !ok {
		return nil, 0, false
	}
	return rec, min(sum.Hours, rec.Hours), true
}

func queryInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
