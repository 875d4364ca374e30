package dto

import (
	"time"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

// DashboardQuery captures the window selection sent by clients. Values are
// taken as-is; unusable combinations degrade instead of failing.
type DashboardQuery struct {
	Window string `form:"window" json:"window"`
	Start  string `form:"start" json:"start,omitempty"`
	End    string `form:"end" json:"end,omitempty"`
}

// DashboardAction is an affordance the caller's role may use from the dashboard.
type DashboardAction string

const (
	ActionCreateServiceRequest DashboardAction = "create_service_request"
	ActionCreateWorkOrder      DashboardAction = "create_work_order"
	ActionUpdateWorkOrder      DashboardAction = "update_work_order"
	ActionRegisterAsset        DashboardAction = "register_asset"
	ActionExportDashboard      DashboardAction = "export_dashboard"
)

// DashboardResponse is the computed dashboard for one window.
type DashboardResponse struct {
	Window      timewindow.Kind        `json:"window"`
	Range       timewindow.Range       `json:"range"`
	Metrics     models.MetricsSnapshot `json:"metrics"`
	Actions     []DashboardAction      `json:"actions"`
	GeneratedAt time.Time              `json:"generatedAt"`
}
