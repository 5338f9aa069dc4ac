package report

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhub/stayhub-api/internal/middleware"
)

type fakeRepo struct {
	rows map[uuid.UUID]*Report
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]*Report)}
}

func (f *fakeRepo) Create(_ context.Context, rep *Report) error {
	cp := *rep
	f.rows[rep.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Report, error) {
	rep, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rep
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*Report, int, error) {
	var out []*Report
	for _, rep := range f.rows {
		out = append(out, rep)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ReplaceChecklist(_ context.Context, rep *Report) error {
	stored, ok := f.rows[rep.ID]
	if !ok || stored.Status != StatusDraft {
		return ErrNotFound
	}
	cp := *rep
	f.rows[rep.ID] = &cp
	return nil
}

func (f *fakeRepo) Finalize(_ context.Context, rep *Report) error {
	stored, ok := f.rows[rep.ID]
	if !ok || stored.Status != StatusDraft {
		return ErrNotFound
	}
	cp := *rep
	f.rows[rep.ID] = &cp
	return nil
}

func inspector() middleware.CallerContext {
	return middleware.CallerContext{ActingUserID: uuid.New(), Role: "agent"}
}

func draftRequest() CreateReportRequest {
	return CreateReportRequest{
		ReservationID: uuid.New(),
		Title:         "Move-in inspection",
		Items: []ItemInput{
			{Label: "Smoke detectors operational", Result: "pass"},
			{Label: "Gas shutoff accessible", Result: "fail", Note: "valve painted over"},
			{Label: "Pool fence latch", Result: "n/a"},
		},
	}
}

func TestCreateStampsInspectorAndOrdersItems(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	caller := inspector()

	rep, err := svc.Create(context.Background(), caller, draftRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, rep.Status)
	assert.Equal(t, caller.ActingUserID, rep.InspectorID)
	require.Len(t, rep.Items, 3)
	for i, item := range rep.Items {
		assert.Equal(t, i, item.Position)
	}
	assert.Equal(t, ResultFail, rep.Items[1].Result)
	assert.Equal(t, "valve painted over", rep.Items[1].Note.String)
}

func TestFinalizeFreezesReport(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	caller := inspector()

	rep, err := svc.Create(context.Background(), caller, draftRequest())
	require.NoError(t, err)

	finalizer := inspector()
	final, err := svc.Finalize(context.Background(), finalizer, rep.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFinal, final.Status)
	assert.True(t, final.FinalizedAt.Valid)
	assert.Equal(t, finalizer.ActingUserID, final.FinalizedBy.UUID)

	// A final report rejects further edits and re-finalization
	_, err = svc.Update(context.Background(), rep.ID, UpdateReportRequest{
		Title: "edited",
		Items: []ItemInput{{Label: "x", Result: "pass"}},
	})
	assert.ErrorIs(t, err, ErrFinalized)

	_, err = svc.Finalize(context.Background(), inspector(), rep.ID)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestUpdateReplacesChecklist(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	rep, err := svc.Create(context.Background(), inspector(), draftRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), rep.ID, UpdateReportRequest{
		Title:   "Move-in inspection (rev 2)",
		Summary: "gas valve fixed on site",
		Items: []ItemInput{
			{Label: "Smoke detectors operational", Result: "pass"},
			{Label: "Gas shutoff accessible", Result: "pass"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Move-in inspection (rev 2)", updated.Title)
	assert.Equal(t, "gas valve fixed on site", updated.Summary.String)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, ResultPass, updated.Items[1].Result)
}
