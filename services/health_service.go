package services

import (
	"context"
	"runtime"
	"time"

	"classtrack_go/config"
	"classtrack_go/database"

	"github.com/gofiber/fiber/v2"
)

// HealthService aggregates dependency checks for the health endpoint.
type HealthService struct {
	serviceName string
	startTime   time.Time
	timeout     time.Duration
}

type HealthReport struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Environment  string                      `json:"environment"`
	Uptime       string                      `json:"uptime"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
	Memory       MemoryMetrics               `json:"memory"`
	Goroutines   int                         `json:"goroutines"`
}

type DependencyStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type MemoryMetrics struct {
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
}

func NewHealthService(serviceName string) *HealthService {
	if serviceName == "" {
		serviceName = "classtrack-api"
	}
	return &HealthService{
		serviceName: serviceName,
		startTime:   time.Now(),
		timeout:     3 * time.Second,
	}
}

// GetHealthReport pings the database and Redis and reports overall status.
// Redis is optional; its absence degrades the report without failing it.
func (s *HealthService) GetHealthReport() HealthReport {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	deps := make(map[string]DependencyStatus)
	overall := "healthy"

	deps["database"] = s.checkDatabase(ctx)
	if deps["database"].Status != "healthy" {
		overall = "unhealthy"
	}

	deps["redis"] = s.checkRedis(ctx)
	if deps["redis"].Status == "unhealthy" && overall == "healthy" {
		overall = "degraded"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	env := "development"
	if config.AppConfig != nil {
		env = config.AppConfig.AppEnv
	}

	return HealthReport{
		Status:       overall,
		Service:      s.serviceName,
		Environment:  env,
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
		Timestamp:    time.Now().UTC(),
		Dependencies: deps,
		Memory: MemoryMetrics{
			AllocMB:      mem.Alloc / 1024 / 1024,
			TotalAllocMB: mem.TotalAlloc / 1024 / 1024,
			SysMB:        mem.Sys / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		Goroutines: runtime.NumGoroutine(),
	}
}

// HTTPStatusForOverall maps a report status to an HTTP status code.
func (s *HealthService) HTTPStatusForOverall(status string) int {
	if status == "unhealthy" {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusOK
}

func (s *HealthService) checkDatabase(ctx context.Context) DependencyStatus {
	if database.DB == nil {
		return DependencyStatus{Status: "unhealthy", Error: "database not connected"}
	}

	sqlDB, err := database.DB.DB()
	if err != nil {
		return DependencyStatus{Status: "unhealthy", Error: err.Error()}
	}

	start := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return DependencyStatus{Status: "unhealthy", Error: err.Error()}
	}
	return DependencyStatus{
		Status:  "healthy",
		Latency: time.Since(start).Round(time.Millisecond).String(),
	}
}

func (s *HealthService) checkRedis(ctx context.Context) DependencyStatus {
	rc := database.GetRedisClient()
	if rc == nil {
		return DependencyStatus{Status: "disabled"}
	}

	start := time.Now()
	if err := rc.Ping(ctx).Err(); err != nil {
		return DependencyStatus{Status: "unhealthy", Error: err.Error()}
	}
	return DependencyStatus{
		Status:  "healthy",
		Latency: time.Since(start).Round(time.Millisecond).String(),
	}
}
