package models

import "time"

// SystemHealth is returned by GET /admin/system/health.
type SystemHealth struct {
	Status        string          `json:"status"`
	Version       string          `json:"version,omitempty"`
	UptimeSeconds int64           `json:"uptime"`
	Services      []ServiceHealth `json:"services"`
	CheckedAt     time.Time       `json:"checkedAt"`
}

// Healthy reports whether the overall status is "healthy".
func (h SystemHealth) Healthy() bool { return h.Status == "healthy" }

// Degraded returns the services not reporting "healthy".
func (h SystemHealth) Degraded() []ServiceHealth {
	var out []ServiceHealth
	for _, s := range h.Services {
		if s.Status != "healthy" {
			out = append(out, s)
		}
	}
	return out
}

// ServiceHealth is the status of one backend dependency.
type ServiceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int    `json:"latencyMs"`
	Message   string `json:"message,omitempty"`
}

// SystemMetrics is returned by GET /admin/system/metrics.
type SystemMetrics struct {
	Accounts          int   `json:"accounts"`
	Users             int   `json:"users"`
	Sources           int   `json:"sources"`
	Jobs              int   `json:"jobs"`
	ActiveJobs        int   `json:"activeJobs"`
	RunsLast24h       int   `json:"runsLast24h"`
	FailedRunsLast24h int   `json:"failedRunsLast24h"`
	StorageBytes      int64 `json:"storageBytes"`
}

// AuditEvent is one entry of GET /admin/system/audit.
type AuditEvent struct {
	EventID    string    `json:"eventId"`
	Timestamp  time.Time `json:"timestamp"`
	ActorID    string    `json:"actorId"`
	ActorEmail string    `json:"actorEmail,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	IP         string    `json:"ip,omitempty"`
}
