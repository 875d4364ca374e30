package service

import (
	"math"
	"time"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

// Aggregate derives dashboard metrics from already-filtered service requests
// and work orders plus the full asset register. It never fails; empty input
// yields zero metrics.
func Aggregate(requests []models.ServiceRequest, orders []models.WorkOrder, assets []models.Asset, now time.Time) models.MetricsSnapshot {
	snap := models.MetricsSnapshot{
		TotalComplaints:    len(requests),
		TotalWorkOrders:    len(orders),
		ComplaintsByStatus: make(map[string]int),
		WorkOrdersByStatus: make(map[string]int),
		AssetsByStatus:     make(map[string]int),
	}

	for _, req := range requests {
		status := req.NormalizedStatus()
		snap.ComplaintsByStatus[bucket(string(status))]++
		switch status {
		case models.ServiceRequestOpen, models.ServiceRequestAssigned, models.ServiceRequestInProgress:
			snap.OpenComplaints++
		case models.ServiceRequestResolved:
			snap.ResolvedComplaints++
		}
	}

	for _, order := range orders {
		snap.WorkOrdersByStatus[bucket(models.NormalizeStatus(string(order.Status)))]++
		completed := order.IsCompleted()
		if completed {
			snap.CompletedWorkOrders++
		}
		if order.IsOverdue(now) {
			snap.OverdueWorkOrders++
		}
		if order.IsPreventive() {
			snap.TotalPPMs++
			if completed {
				snap.CompletedPPMs++
			}
		}
	}

	for _, asset := range assets {
		snap.AssetsByStatus[bucket(models.NormalizeStatus(string(asset.Status)))]++
		if asset.IsActive() {
			snap.ActiveAssets++
		}
	}

	snap.ResolutionRate = percentage(snap.ResolvedComplaints, snap.TotalComplaints)
	snap.PPMComplianceRate = percentage(snap.CompletedPPMs, snap.TotalPPMs)
	return snap
}

// ComputeSnapshot filters the dataset by sel and aggregates it. Assets are
// never time filtered.
func ComputeSnapshot(data models.FacilityDataset, sel timewindow.Selection, now time.Time) models.MetricsSnapshot {
	requests := timewindow.Filter(data.ServiceRequests, sel, now, models.ServiceRequest.CreatedTime)
	orders := timewindow.Filter(data.WorkOrders, sel, now, models.WorkOrder.CreatedTime)
	return Aggregate(requests, orders, data.Assets, now)
}

// percentage rounds part/total*100 half away from zero; 0 when total is 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func bucket(status string) string {
	if status == "" {
		return "unknown"
	}
	return status
}

var roleActions = map[models.UserRole][]dto.DashboardAction{
	models.RoleSuperAdmin: {dto.ActionCreateServiceRequest, dto.ActionCreateWorkOrder, dto.ActionRegisterAsset, dto.ActionExportDashboard},
	models.RoleAdmin:      {dto.ActionCreateServiceRequest, dto.ActionCreateWorkOrder, dto.ActionRegisterAsset, dto.ActionExportDashboard},
	models.RoleFacilityManager: {
		dto.ActionCreateWorkOrder, dto.ActionExportDashboard, dto.ActionCreateServiceRequest,
	},
	models.RoleTechnician: {dto.ActionUpdateWorkOrder},
	models.RoleRequester:  {dto.ActionCreateServiceRequest},
}

// ActionsForRole lists the dashboard affordances available to role. Unknown
// roles get an empty, non-nil slice.
func ActionsForRole(role models.UserRole) []dto.DashboardAction {
	actions := roleActions[role]
	out := make([]dto.DashboardAction, len(actions))
	copy(out, actions)
	return out
}
