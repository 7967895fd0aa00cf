package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/apiroutes"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/events"
)

// HealthHandler serves liveness, API discovery, the health report and the
// system event log.
type HealthHandler struct {
	db      *gorm.DB
	bus     *events.Bus
	started time.Time
}

func NewHealthHandler(db *gorm.DB, bus *events.Bus) *HealthHandler {
	return &HealthHandler{db: db, bus: bus, started: time.Now()}
}

// Liveness is the root connectivity probe.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Connected to CineMind API"})
}

// Discovery lists every registered route with its description.
func (h *HealthHandler) Discovery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "cinemind",
		"routes":  apiroutes.List(),
	})
}

// Health reports database reachability plus host memory and CPU load. A
// failing database ping degrades the status but the endpoint still answers
// 200 so the report itself stays reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"

	dbStatus := gin.H{"status": "up"}
	if err := database.HealthCheck(h.db); err != nil {
		status = "degraded"
		dbStatus = gin.H{"status": "down", "error": err.Error()}
	} else if stats, err := database.ConnectionStats(h.db); err == nil {
		dbStatus["open_connections"] = stats.OpenConnections
		dbStatus["in_use"] = stats.InUse
	}

	system := gin.H{}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memory_used_percent"] = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		system["cpu_percent"] = percents[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"database":       dbStatus,
		"system":         system,
	})
}

// Events returns the newest entries from the system event log.
func (h *HealthHandler) Events(c *gin.Context) {
	records, err := h.bus.Recent(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read event log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": records})
}
