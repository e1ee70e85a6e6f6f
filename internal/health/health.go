package health

import (
	"net/http"
	"time"

	"tracker-backend/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type Handler struct {
	DB      *pgxpool.Pool
	started time.Time
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{DB: db, started: time.Now()}
}

type status struct {
	Status         string  `json:"status"`
	DatabaseStatus string  `json:"database_status"`
	ResponseTimeMs int64   `json:"response_time_ms"`
	Uptime         string  `json:"uptime"`
	CPUPercent     float64 `json:"cpu_percent,omitempty"`
	MemoryPercent  float64 `json:"memory_percent,omitempty"`
	DiskPercent    float64 `json:"disk_percent,omitempty"`
}

// Liveness is a cheap probe with no dependencies.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings the database.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	s := h.check(r)
	code := http.StatusOK
	if s.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, s)
}

// Detailed adds host resource usage on top of the readiness check.
func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	s := h.check(r)

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		s.DiskPercent = du.UsedPercent
	}

	code := http.StatusOK
	if s.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, s)
}

func (h *Handler) check(r *http.Request) status {
	s := status{
		Status:         "ok",
		DatabaseStatus: "up",
		Uptime:         time.Since(h.started).Round(time.Second).String(),
	}

	start := time.Now()
	if err := h.DB.Ping(r.Context()); err != nil {
		s.Status = "degraded"
		s.DatabaseStatus = "down"
	}
	s.ResponseTimeMs = time.Since(start).Milliseconds()
	return s
}
