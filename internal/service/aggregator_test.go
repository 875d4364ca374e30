package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

var aggNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func ts(t time.Time) models.Timestamp { return models.NewTimestamp(t) }

func preventive(status models.WorkOrderStatus) models.WorkOrder {
	return models.WorkOrder{Type: models.WorkOrderPreventive, Status: status, CreatedAt: ts(aggNow)}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, nil, nil, aggNow)
	assert.Zero(t, snap.TotalComplaints)
	assert.Zero(t, snap.ResolutionRate)
	assert.Zero(t, snap.TotalWorkOrders)
	assert.Zero(t, snap.CompletedWorkOrders)
	assert.Zero(t, snap.OverdueWorkOrders)
	assert.Zero(t, snap.TotalPPMs)
	assert.Zero(t, snap.PPMComplianceRate)
	assert.Zero(t, snap.ActiveAssets)
	assert.NotNil(t, snap.ComplaintsByStatus)
}

func TestAggregatePPMCompliance(t *testing.T) {
	orders := make([]models.WorkOrder, 0, 10)
	for i := 0; i < 8; i++ {
		orders = append(orders, preventive(models.WorkOrderCompleted))
	}
	orders = append(orders, preventive(models.WorkOrderPending), preventive(models.WorkOrderPending))

	snap := Aggregate(nil, orders, nil, aggNow)
	assert.Equal(t, 10, snap.TotalPPMs)
	assert.Equal(t, 8, snap.CompletedPPMs)
	assert.Equal(t, 80, snap.PPMComplianceRate)
	assert.Equal(t, 8, snap.CompletedWorkOrders)
	assert.Equal(t, map[string]int{"completed": 8, "pending": 2}, snap.WorkOrdersByStatus)
}

func TestAggregateComplaints(t *testing.T) {
	requests := []models.ServiceRequest{
		{Status: "open"},
		{Status: "Assigned"},
		{Status: "In Progress"},
		{Status: "resolved"},
		{Status: "RESOLVED"},
		{Status: "closed"},
		{Status: "escalated"},
	}
	snap := Aggregate(requests, nil, nil, aggNow)
	assert.Equal(t, 7, snap.TotalComplaints)
	assert.Equal(t, 3, snap.OpenComplaints)
	assert.Equal(t, 2, snap.ResolvedComplaints)
	assert.Equal(t, 29, snap.ResolutionRate)
	assert.Equal(t, 1, snap.ComplaintsByStatus["escalated"])
	assert.Equal(t, 1, snap.ComplaintsByStatus["in-progress"])
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 50, percentage(1, 2))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 13, percentage(1, 8))
	assert.Equal(t, 0, percentage(5, 0))
}

func TestAggregateOverdue(t *testing.T) {
	past := ts(aggNow.Add(-48 * time.Hour))
	future := ts(aggNow.Add(48 * time.Hour))
	orders := []models.WorkOrder{
		{Status: models.WorkOrderPending, DueDate: past},
		{Status: models.WorkOrderInProgress, DueDate: past},
		{Status: models.WorkOrderCompleted, DueDate: past},
		{Status: models.WorkOrderPending, DueDate: future},
		{Status: models.WorkOrderPending},
		{Status: models.WorkOrderPending, DueDate: models.ParseTimestamp("garbage")},
	}
	snap := Aggregate(nil, orders, nil, aggNow)
	assert.Equal(t, 6, snap.TotalWorkOrders)
	assert.Equal(t, 2, snap.OverdueWorkOrders)
}

func TestAggregateActiveAssets(t *testing.T) {
	assets := []models.Asset{{Status: "active"}, {Status: "Active"}, {Status: "retired"}, {Status: ""}}
	snap := Aggregate(nil, nil, assets, aggNow)
	assert.Equal(t, 2, snap.ActiveAssets)
	assert.Equal(t, map[string]int{"active": 2, "retired": 1, "unknown": 1}, snap.AssetsByStatus)
}

func TestComputeSnapshotFiltersRequestsAndOrdersOnly(t *testing.T) {
	data := models.FacilityDataset{
		ServiceRequests: []models.ServiceRequest{
			{ID: "recent", Status: "resolved", CreatedAt: ts(aggNow.AddDate(0, 0, -2))},
			{ID: "old", Status: "open", CreatedAt: ts(aggNow.AddDate(0, -2, 0))},
			{ID: "broken", Status: "open", CreatedAt: models.ParseTimestamp("nope")},
		},
		WorkOrders: []models.WorkOrder{
			{ID: "w1", Type: "preventive", Status: "completed", CreatedAt: ts(aggNow.AddDate(0, 0, -3))},
			{ID: "w2", Type: "preventive", Status: "pending", CreatedAt: ts(aggNow.AddDate(-1, -1, 0))},
		},
		Assets: []models.Asset{{Status: "active", CreatedAt: ts(aggNow.AddDate(-5, 0, 0))}},
	}

	weekly := ComputeSnapshot(data, timewindow.Weekly{}, aggNow)
	assert.Equal(t, 1, weekly.TotalComplaints)
	assert.Equal(t, 100, weekly.ResolutionRate)
	assert.Equal(t, 1, weekly.TotalPPMs)
	assert.Equal(t, 100, weekly.PPMComplianceRate)
	assert.Equal(t, 1, weekly.ActiveAssets)

	all := ComputeSnapshot(data, timewindow.All{}, aggNow)
	assert.Equal(t, 3, all.TotalComplaints)
	assert.Equal(t, 2, all.TotalPPMs)
	assert.Equal(t, 50, all.PPMComplianceRate)
	assert.Equal(t, 1, all.ActiveAssets)
}

func TestComputeSnapshotCustomSameDay(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	data := models.FacilityDataset{ServiceRequests: []models.ServiceRequest{
		{ID: "before", CreatedAt: ts(day.Add(-time.Second))},
		{ID: "start", CreatedAt: ts(day)},
		{ID: "late", CreatedAt: ts(day.Add(23*time.Hour + 59*time.Minute))},
		{ID: "after", CreatedAt: ts(day.AddDate(0, 0, 1))},
	}}
	sel, ok := timewindow.NewCustom(day, day)
	require.True(t, ok)
	snap := ComputeSnapshot(data, sel, aggNow)
	assert.Equal(t, 2, snap.TotalComplaints)
}

func TestComputeSnapshotWindowsAreMonotonic(t *testing.T) {
	var requests []models.ServiceRequest
	for days := 0; days < 400; days += 5 {
		requests = append(requests, models.ServiceRequest{CreatedAt: ts(aggNow.AddDate(0, 0, -days))})
	}
	data := models.FacilityDataset{ServiceRequests: requests}

	prev := 0
	for _, sel := range []timewindow.Selection{timewindow.Weekly{}, timewindow.Monthly{}, timewindow.Quarterly{}, timewindow.Yearly{}} {
		total := ComputeSnapshot(data, sel, aggNow).TotalComplaints
		assert.GreaterOrEqual(t, total, prev, string(sel.Kind()))
		prev = total
	}
}

func TestActionsForRole(t *testing.T) {
	assert.Equal(t, []dto.DashboardAction{dto.ActionUpdateWorkOrder}, ActionsForRole(models.RoleTechnician))
	assert.Contains(t, ActionsForRole(models.RoleAdmin), dto.ActionRegisterAsset)
	assert.NotContains(t, ActionsForRole(models.RoleFacilityManager), dto.ActionRegisterAsset)
	assert.Equal(t, []dto.DashboardAction{}, ActionsForRole("GUEST"))

	actions := ActionsForRole(models.RoleRequester)
	actions[0] = "tampered"
	assert.Equal(t, dto.ActionCreateServiceRequest, ActionsForRole(models.RoleRequester)[0])
}
