package models

import "time"

// MetricsSnapshot is the derived dashboard record. It is recomputed on demand
// and never persisted outside the cache.
type MetricsSnapshot struct {
	TotalComplaints     int `json:"totalComplaints"`
	OpenComplaints      int `json:"openComplaints"`
	ResolvedComplaints  int `json:"resolvedComplaints"`
	ResolutionRate      int `json:"resolutionRate"`
	TotalWorkOrders     int `json:"totalWorkOrders"`
	CompletedWorkOrders int `json:"completedWorkOrders"`
	OverdueWorkOrders   int `json:"overdueWorkOrders"`
	TotalPPMs           int `json:"totalPPMs"`
	CompletedPPMs       int `json:"completedPPMs"`
	PPMComplianceRate   int `json:"ppmComplianceRate"`
	ActiveAssets        int `json:"activeAssets"`

	ComplaintsByStatus map[string]int `json:"complaintsByStatus"`
	WorkOrdersByStatus map[string]int `json:"workOrdersByStatus"`
	AssetsByStatus     map[string]int `json:"assetsByStatus"`
}

// SystemMetrics represents process level figures captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	SnapshotsComputed        uint64    `json:"snapshots_computed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
