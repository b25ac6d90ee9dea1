package domain

import "time"

// DataSource describes a public government data source cataloged by the
// internal research screen. It is descriptive metadata only; nothing here
// drives a live ingestion pipeline.
type DataSource struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Agency          string `json:"agency"`
	Category        string `json:"category"` // permits, zoning, environmental, traffic
	Endpoint        string `json:"endpoint"`
	Format          string `json:"format,omitempty"` // json, csv, geojson, arcgis
	UpdateFrequency string `json:"update_frequency,omitempty"`
	RequiresAuth    bool   `json:"requires_auth"`
	CoverageArea    string `json:"coverage_area,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Active          bool   `json:"active"`

	// Outcome of the most recent reachability probe, if any.
	LastProbedAt  *time.Time `json:"last_probed_at,omitempty"`
	LastStatus    *int       `json:"last_status,omitempty"`
	LastLatencyMs *int64     `json:"last_latency_ms,omitempty"`
	Reachable     *bool      `json:"reachable,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ProbeResult records one GET-and-measure check against a data source endpoint.
type ProbeResult struct {
	SourceID   string    `json:"source_id"`
	StatusCode int       `json:"status_code"`
	LatencyMs  int64     `json:"latency_ms"`
	Reachable  bool      `json:"reachable"`
	Error      string    `json:"error,omitempty"`
	ProbedAt   time.Time `json:"probed_at"`
}
