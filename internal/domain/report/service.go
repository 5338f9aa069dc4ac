package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/middleware"
)

// ErrFinalized is returned when a final report is edited
var ErrFinalized = errors.New("report is finalized and can no longer be edited")

// Service handles report business logic
type Service struct {
	repo Repository
}

// NewService creates report service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a draft report. The caller becomes the inspector of record.
func (s *Service) Create(ctx context.Context, caller middleware.CallerContext, req CreateReportRequest) (*Report, error) {
	rep := &Report{
		ID:            uuid.New(),
		ReservationID: req.ReservationID,
		Title:         req.Title,
		InspectorID:   caller.ActingUserID,
		Status:        StatusDraft,
		Summary:       sql.NullString{String: req.Summary, Valid: req.Summary != ""},
		Items:         buildItems(req.Items),
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return rep, nil
}

// Update replaces the checklist of a draft report
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateReportRequest) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status == StatusFinal {
		return nil, ErrFinalized
	}

	rep.Title = req.Title
	rep.Summary = sql.NullString{String: req.Summary, Valid: req.Summary != ""}
	rep.Items = buildItems(req.Items)

	if err := s.repo.ReplaceChecklist(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return rep, nil
}

// GetByID loads a report with its checklist
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of reports and the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Report, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Finalize freezes the checklist and stamps the finalizing user and time.
// A final report is immutable; the console renders it from this snapshot.
func (s *Service) Finalize(ctx context.Context, caller middleware.CallerContext, id uuid.UUID) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status == StatusFinal {
		return nil, ErrFinalized
	}

	rep.Status = StatusFinal
	rep.FinalizedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	rep.FinalizedBy = uuid.NullUUID{UUID: caller.ActingUserID, Valid: true}

	if err := s.repo.Finalize(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func buildItems(inputs []ItemInput) []*ChecklistItem {
	items := make([]*ChecklistItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, &ChecklistItem{
			ID:       uuid.New(),
			Label:    in.Label,
			Result:   ItemResult(in.Result),
			Note:     sql.NullString{String: in.Note, Valid: in.Note != ""},
			Position: i,
		})
	}
	return items
}
