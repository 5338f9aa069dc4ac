package report

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents report lifecycle state
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// ItemResult is the outcome recorded for one checklist item
type ItemResult string

const (
	ResultPass          ItemResult = "pass"
	ResultFail          ItemResult = "fail"
	ResultNotApplicable ItemResult = "n/a"
)

// Report is a safety inspection record for a reservation's property. Once
// finalized the checklist is frozen and the inspector and time are stamped;
// the console renders the normalized JSON into the customer-facing document.
type Report struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	ReservationID uuid.UUID      `db:"reservation_id" json:"reservation_id"`
	Title         string         `db:"title" json:"title"`
	InspectorID   uuid.UUID      `db:"inspector_id" json:"inspector_id"`
	Status        Status         `db:"status" json:"status"`
	Summary       sql.NullString `db:"summary" json:"summary,omitempty"`
	FinalizedAt   sql.NullTime   `db:"finalized_at" json:"finalized_at,omitempty"`
	FinalizedBy   uuid.NullUUID  `db:"finalized_by" json:"finalized_by,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`

	Items []*ChecklistItem `db:"-" json:"items"`
}

// ChecklistItem is one line of the inspection checklist
type ChecklistItem struct {
	ID       uuid.UUID      `db:"id" json:"id"`
	ReportID uuid.UUID      `db:"report_id" json:"report_id"`
	Label    string         `db:"label" json:"label"`
	Result   ItemResult     `db:"result" json:"result"`
	Note     sql.NullString `db:"note" json:"note,omitempty"`
	Position int            `db:"position" json:"position"`
}
