// Package health serves the monitor's status endpoints: readiness of the
// contest data the engine depends on, the last observed betting windows and
// Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-picks/internal/metrics"
	"github.com/yourusername/grid-picks/internal/repository"
	"github.com/yourusername/grid-picks/internal/window"
)

const (
	checkOK      = "ok"
	checkPending = "pending"
	readyTimeout = 3 * time.Second
)

// Pinger checks reachability of the contest backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WindowSource exposes the gates last computed for a race.
type WindowSource interface {
	LastGates(raceID int64) (window.Gates, bool)
}

// Config holds the monitor status server settings.
type Config struct {
	ServiceName    string
	Version        string
	Addr           string
	MetricsPath    string
	ChampionshipID int64
	Races          []int64
	Repos          *repository.Repositories
	Windows        WindowSource
	Backend        Pinger
	Logger         *logrus.Logger
}

// CacheStatus reports the repository cache counters.
type CacheStatus struct {
	Enabled bool    `json:"enabled"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Ratio   float64 `json:"ratio"`
	Items   int     `json:"items"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	ChampionshipID int64             `json:"championshipId"`
	Checks         map[string]string `json:"checks"`
	Cache          CacheStatus       `json:"cache"`
	Duration       string            `json:"duration"`
}

// RaceWindows is one entry of /windows.
type RaceWindows struct {
	RaceID   int64         `json:"raceId"`
	Observed bool          `json:"observed"`
	Gates    *window.Gates `json:"gates,omitempty"`
}

// Server exposes /live, /ready, /windows and the metrics path.
type Server struct {
	cfg    Config
	logger *logrus.Logger
}

// NewServer validates cfg and builds the status server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Repos == nil {
		return nil, errors.New("health: repositories are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Server{cfg: cfg, logger: log}, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/windows", s.handleWindows)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	return mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.cfg.Addr).Info("Status server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("status server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Status server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Ready runs every readiness check. Limits and each monitored schedule are
// read through the repositories, so a warm cache answers without the backend.
func (s *Server) Ready(ctx context.Context) ReadyResponse {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	checks := make(map[string]string)
	ok := true
	fail := func(name string, err error) {
		ok = false
		checks[name] = "error: " + err.Error()
	}

	if s.cfg.Backend != nil {
		if err := s.cfg.Backend.Ping(ctx); err != nil {
			fail("backend", err)
		} else {
			checks["backend"] = checkOK
		}
	}

	if _, err := s.cfg.Repos.Championship.GetLimits(ctx); err != nil {
		fail("limits", err)
	} else {
		checks["limits"] = checkOK
	}

	for _, raceID := range s.cfg.Races {
		name := fmt.Sprintf("schedule_%d", raceID)
		if _, err := s.cfg.Repos.Schedule.GetSchedule(ctx, raceID); err != nil {
			fail(name, err)
		} else {
			checks[name] = checkOK
		}
	}

	if s.cfg.Windows != nil {
		checks["monitor"] = checkOK
		for _, raceID := range s.cfg.Races {
			if _, seen := s.cfg.Windows.LastGates(raceID); !seen {
				checks["monitor"] = checkPending
				ok = false
				break
			}
		}
	}

	status := "ready"
	if !ok {
		status = "not_ready"
	}
	return ReadyResponse{
		Status:         status,
		Service:        s.cfg.ServiceName,
		ChampionshipID: s.cfg.ChampionshipID,
		Checks:         checks,
		Cache:          cacheStatus(s.cfg.Repos.Cache),
		Duration:       time.Since(start).String(),
	}
}

// Windows lists the last gates of every monitored race, ordered by race.
func (s *Server) Windows() []RaceWindows {
	races := append([]int64(nil), s.cfg.Races...)
	sort.Slice(races, func(i, j int) bool { return races[i] < races[j] })

	out := make([]RaceWindows, 0, len(races))
	for _, raceID := range races {
		entry := RaceWindows{RaceID: raceID}
		if s.cfg.Windows != nil {
			if g, seen := s.cfg.Windows.LastGates(raceID); seen {
				entry.Observed = true
				entry.Gates = &g
			}
		}
		out = append(out, entry)
	}
	return out
}

func cacheStatus(c *repository.Cache) CacheStatus {
	if c == nil {
		return CacheStatus{}
	}
	hits, misses, ratio := c.Stats()
	return CacheStatus{
		Enabled: c.Enabled(),
		Hits:    hits,
		Misses:  misses,
		Ratio:   ratio,
		Items:   c.ItemCount(),
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "alive",
		"service": s.cfg.ServiceName,
		"version": s.cfg.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := s.Ready(r.Context())
	code := http.StatusOK
	if resp.Status != "ready" {
		code = http.StatusServiceUnavailable
		s.logger.WithField("checks", resp.Checks).Warn("Readiness check failed")
	}
	writeJSON(w, code, resp)
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Windows())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
