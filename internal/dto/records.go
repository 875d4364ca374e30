package dto

// CreateServiceRequestRequest registers a new complaint.
type CreateServiceRequestRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category" validate:"required,max=64"`
	Priority    string  `json:"priority" validate:"required,oneof=low medium high critical"`
	Location    string  `json:"location" validate:"required,max=128"`
}

// UpdateServiceRequestStatusRequest moves a complaint through its lifecycle.
type UpdateServiceRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open assigned in-progress resolved closed cancelled"`
}

// CreateWorkOrderRequest schedules maintenance work.
type CreateWorkOrderRequest struct {
	Title      string  `json:"title" validate:"required,max=200"`
	Type       string  `json:"type" validate:"required,oneof=preventive corrective emergency"`
	Priority   string  `json:"priority" validate:"required,oneof=low medium high critical"`
	AssetID    *string `json:"asset_id" validate:"omitempty,uuid"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,uuid"`
	DueDate    *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateWorkOrderStatusRequest changes work order progress.
type UpdateWorkOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress on-hold completed cancelled"`
}

// CreateAssetRequest registers equipment or space.
type CreateAssetRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=64"`
	Location string `json:"location" validate:"required,max=128"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive maintenance retired"`
}

// RecordListQuery pages through a record collection.
type RecordListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
