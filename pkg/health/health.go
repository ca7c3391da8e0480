// Package health reports whether the serving process and its report
// database are usable. The check surface is deliberately small: the
// engine has one real dependency, the SQLite file, and exiftool is
// only probed when write-back is enabled.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os/exec"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth is the outcome of one checker.
type ComponentHealth struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// SystemHealth aggregates every component.
type SystemHealth struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     time.Duration              `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
}

// Manager runs the registered checkers on demand.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	started  time.Time
}

func NewManager() *Manager {
	return &Manager{started: time.Now()}
}

func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// Check runs every checker. The system is healthy only if every
// component is.
func (m *Manager) Check(ctx context.Context) SystemHealth {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	sys := SystemHealth{
		Status:     StatusHealthy,
		Timestamp:  time.Now(),
		Uptime:     time.Since(m.started),
		Components: make(map[string]ComponentHealth, len(checkers)),
	}
	for _, c := range checkers {
		ch := c.Check(ctx)
		sys.Components[c.Name()] = ch
		if ch.Status != StatusHealthy {
			sys.Status = StatusUnhealthy
		}
	}
	return sys
}

// Handler serves the aggregate as JSON, 503 when unhealthy.
func (m *Manager) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sys := m.Check(ctx)
		status := http.StatusOK
		if sys.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(sys)
	}
}

// DatabaseChecker pings the report database.
type DatabaseChecker struct {
	db *sql.DB
}

func NewDatabaseChecker(db *sql.DB) *DatabaseChecker { return &DatabaseChecker{db: db} }

func (c *DatabaseChecker) Name() string { return "report_db" }

func (c *DatabaseChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	ch := ComponentHealth{Name: c.Name(), Status: StatusHealthy, LastChecked: start}

	if err := c.db.PingContext(ctx); err != nil {
		ch.Status = StatusUnhealthy
		ch.Error = err.Error()
	}
	ch.Duration = time.Since(start)
	return ch
}

// ExiftoolChecker verifies the exiftool binary is on PATH. Only
// registered when metadata write-back is enabled.
type ExiftoolChecker struct{}

func (ExiftoolChecker) Name() string { return "exiftool" }

func (ExiftoolChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	ch := ComponentHealth{Name: "exiftool", Status: StatusHealthy, LastChecked: start}

	if _, err := exec.LookPath("exiftool"); err != nil {
		ch.Status = StatusUnhealthy
		ch.Error = err.Error()
	}
	ch.Duration = time.Since(start)
	return ch
}
