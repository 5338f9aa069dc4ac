package report

import "github.com/google/uuid"

// ItemInput is one checklist line in a create/update payload
type ItemInput struct {
	Label  string `json:"label" validate:"required,min=1,max=300"`
	Result string `json:"result" validate:"required,oneof=pass fail n/a"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

// CreateReportRequest opens a draft report for a reservation
type CreateReportRequest struct {
	ReservationID uuid.UUID   `json:"reservation_id" validate:"required"`
	Title         string      `json:"title" validate:"required,min=1,max=300"`
	Summary       string      `json:"summary" validate:"omitempty,max=5000"`
	Items         []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateReportRequest replaces the checklist of a draft report
type UpdateReportRequest struct {
	Title   string      `json:"title" validate:"required,min=1,max=300"`
	Summary string      `json:"summary" validate:"omitempty,max=5000"`
	Items   []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// ListFilter narrows report queries
type ListFilter struct {
	ReservationID uuid.UUID
	InspectorID   uuid.UUID
	Status        string
	Page          int
	Limit         int
}
