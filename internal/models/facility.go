package models

import (
	"strings"
	"time"
)

// ServiceRequestStatus tracks the lifecycle of a reported issue.
type ServiceRequestStatus string

const (
	ServiceRequestOpen       ServiceRequestStatus = "open"
	ServiceRequestAssigned   ServiceRequestStatus = "assigned"
	ServiceRequestInProgress ServiceRequestStatus = "in-progress"
	ServiceRequestResolved   ServiceRequestStatus = "resolved"
	ServiceRequestClosed     ServiceRequestStatus = "closed"
	ServiceRequestCancelled  ServiceRequestStatus = "cancelled"
)

// WorkOrderType discriminates scheduled from reactive work.
type WorkOrderType string

const (
	WorkOrderPreventive WorkOrderType = "preventive"
	WorkOrderCorrective WorkOrderType = "corrective"
	WorkOrderEmergency  WorkOrderType = "emergency"
)

// WorkOrderStatus tracks work order progress.
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderInProgress WorkOrderStatus = "in-progress"
	WorkOrderOnHold     WorkOrderStatus = "on-hold"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

// AssetStatus describes whether an asset is in service.
type AssetStatus string

const (
	AssetActive      AssetStatus = "active"
	AssetInactive    AssetStatus = "inactive"
	AssetMaintenance AssetStatus = "maintenance"
	AssetRetired     AssetStatus = "retired"
)

// ServiceRequest is a complaint ticket raised by building occupants.
type ServiceRequest struct {
	ID          string               `db:"id" json:"id" yaml:"id"`
	Title       string               `db:"title" json:"title" yaml:"title"`
	Description *string              `db:"description" json:"description,omitempty" yaml:"description"`
	Category    string               `db:"category" json:"category" yaml:"category"`
	Priority    string               `db:"priority" json:"priority" yaml:"priority"`
	Location    string               `db:"location" json:"location" yaml:"location"`
	Status      ServiceRequestStatus `db:"status" json:"status" yaml:"status"`
	ReportedBy  *string              `db:"reported_by" json:"reported_by,omitempty" yaml:"reported_by"`
	CreatedAt   Timestamp            `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt   Timestamp            `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

// CreatedTime exposes the creation instant for window filtering.
func (r ServiceRequest) CreatedTime() (time.Time, bool) {
	return r.CreatedAt.Get()
}

// NormalizedStatus folds case and separators so "In Progress" matches "in-progress".
func (r ServiceRequest) NormalizedStatus() ServiceRequestStatus {
	return ServiceRequestStatus(NormalizeStatus(string(r.Status)))
}

// WorkOrder is a unit of maintenance work.
type WorkOrder struct {
	ID          string          `db:"id" json:"id" yaml:"id"`
	Title       string          `db:"title" json:"title" yaml:"title"`
	Type        WorkOrderType   `db:"type" json:"type" yaml:"type"`
	Status      WorkOrderStatus `db:"status" json:"status" yaml:"status"`
	Priority    string          `db:"priority" json:"priority" yaml:"priority"`
	AssetID     *string         `db:"asset_id" json:"asset_id,omitempty" yaml:"asset_id"`
	AssignedTo  *string         `db:"assigned_to" json:"assigned_to,omitempty" yaml:"assigned_to"`
	DueDate     Timestamp       `db:"due_date" json:"due_date" yaml:"due_date"`
	CreatedAt   Timestamp       `db:"created_at" json:"created_at" yaml:"created_at"`
	CompletedAt Timestamp       `db:"completed_at" json:"completed_at" yaml:"completed_at"`
}

// CreatedTime exposes the creation instant for window filtering.
func (w WorkOrder) CreatedTime() (time.Time, bool) {
	return w.CreatedAt.Get()
}

// IsCompleted reports whether the order has been closed out.
func (w WorkOrder) IsCompleted() bool {
	return WorkOrderStatus(NormalizeStatus(string(w.Status))) == WorkOrderCompleted
}

// IsPreventive reports whether the order is planned maintenance.
func (w WorkOrder) IsPreventive() bool {
	return WorkOrderType(NormalizeStatus(string(w.Type))) == WorkOrderPreventive
}

// IsOverdue reports whether the due date has passed without completion.
// Orders without a usable due date are never overdue.
func (w WorkOrder) IsOverdue(now time.Time) bool {
	due, ok := w.DueDate.Get()
	return ok && due.Before(now) && !w.IsCompleted()
}

// Asset is a piece of equipment or space under maintenance.
type Asset struct {
	ID        string      `db:"id" json:"id" yaml:"id"`
	Name      string      `db:"name" json:"name" yaml:"name"`
	Category  string      `db:"category" json:"category" yaml:"category"`
	Location  string      `db:"location" json:"location" yaml:"location"`
	Status    AssetStatus `db:"status" json:"status" yaml:"status"`
	CreatedAt Timestamp   `db:"created_at" json:"created_at" yaml:"created_at"`
}

// IsActive reports whether the asset is in service.
func (a Asset) IsActive() bool {
	return AssetStatus(NormalizeStatus(string(a.Status))) == AssetActive
}

// FacilityDataset bundles the collections the dashboard is computed from.
type FacilityDataset struct {
	ServiceRequests []ServiceRequest `json:"service_requests" yaml:"service_requests"`
	WorkOrders      []WorkOrder      `json:"work_orders" yaml:"work_orders"`
	Assets          []Asset          `json:"assets" yaml:"assets"`
}

// InLocation returns a copy of d with every floating timestamp anchored to
// loc, so zoneless dates line up with calendar days in that zone.
func (d FacilityDataset) InLocation(loc *time.Location) FacilityDataset {
	out := FacilityDataset{
		ServiceRequests: make([]ServiceRequest, len(d.ServiceRequests)),
		WorkOrders:      make([]WorkOrder, len(d.WorkOrders)),
		Assets:          make([]Asset, len(d.Assets)),
	}
	for i, r := range d.ServiceRequests {
		r.CreatedAt = r.CreatedAt.In(loc)
		r.UpdatedAt = r.UpdatedAt.In(loc)
		out.ServiceRequests[i] = r
	}
	for i, w := range d.WorkOrders {
		w.CreatedAt = w.CreatedAt.In(loc)
		w.DueDate = w.DueDate.In(loc)
		w.CompletedAt = w.CompletedAt.In(loc)
		out.WorkOrders[i] = w
	}
	for i, a := range d.Assets {
		a.CreatedAt = a.CreatedAt.In(loc)
		out.Assets[i] = a
	}
	return out
}

// NormalizeStatus lower-cases raw and joins words with hyphens.
func NormalizeStatus(raw string) string {
	fields := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "-")
}
