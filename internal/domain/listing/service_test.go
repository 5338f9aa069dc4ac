package listing

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	listings map[uuid.UUID]*Listing
	photos   map[uuid.UUID]*Photo
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings: make(map[uuid.UUID]*Listing),
		photos:   make(map[uuid.UUID]*Photo),
	}
}

func (f *fakeRepo) Create(_ context.Context, l *Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) Update(_ context.Context, l *Listing) error {
	if _, ok := f.listings[l.ID]; !ok {
		return ErrNotFound
	}
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	l, ok := f.listings[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*Listing, int, error) {
	var out []*Listing
	for _, l := range f.listings {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreatePhoto(_ context.Context, p *Photo) error {
	f.photos[p.ID] = p
	return nil
}

func (f *fakeRepo) GetPhoto(_ context.Context, id uuid.UUID) (*Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ConfirmPhoto(_ context.Context, id uuid.UUID, url string) error {
	p, ok := f.photos[id]
	if !ok || p.Status != PhotoStaged {
		return ErrNotFound
	}
	p.Status = PhotoConfirmed
	p.URL = url
	return nil
}

func (f *fakeRepo) ListPhotos(_ context.Context, listingID uuid.UUID) ([]*Photo, error) {
	var out []*Photo
	for _, p := range f.photos {
		if p.ListingID == listingID && p.Status == PhotoConfirmed {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeletePhoto(_ context.Context, id uuid.UUID) error {
	delete(f.photos, id)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[key])), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStorage) GetURL(key string) string {
	return "https://cdn.example/" + key
}

func seedListing(t *testing.T, repo *fakeRepo) *Listing {
	t.Helper()
	l := &Listing{
		ID:           uuid.New(),
		Title:        "Harbor apartment",
		Accommodates: 3,
		NightlyRate:  100,
		CleaningFee:  50,
		ServiceFee:   20,
		Currency:     "USD",
		Status:       StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestQuoteComputesBreakdownAndRejection(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakeStorage(), nil)
	l := seedListing(t, repo)

	checkIn := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Valid 90-night stay: breakdown present, no rejection
	result, err := svc.Quote(context.Background(), l.ID, QuoteRequest{
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 90),
		Guests:   2,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Rejection)
	assert.Equal(t, 90, result.Breakdown.Nights)
	assert.Equal(t, 9385.0, result.Breakdown.Total)

	// Short stay: breakdown still computed for display, rejection set
	result, err = svc.Quote(context.Background(), l.ID, QuoteRequest{
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 14),
		Guests:   2,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Rejection)
	assert.Equal(t, "CHECKOUT_TOO_SOON", result.Rejection.Code)
	assert.Equal(t, 14, result.Breakdown.Nights)
}

func TestPhotoUploadHandshake(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	svc := NewService(repo, store, nil)
	l := seedListing(t, repo)

	init, err := svc.InitPhotoUpload(context.Background(), l.ID, InitPhotoUploadRequest{
		Filename:    "living-room.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	photoID := uuid.MustParse(init.PhotoID)

	// Confirm before the bytes land fails
	_, err = svc.ConfirmPhoto(context.Background(), photoID)
	require.Error(t, err)

	require.NoError(t, svc.UploadPhotoContent(context.Background(), photoID, bytes.NewReader([]byte("jpeg bytes")), "image/jpeg"))

	p, err := svc.ConfirmPhoto(context.Background(), photoID)
	require.NoError(t, err)
	assert.Equal(t, PhotoConfirmed, p.Status)
	assert.Equal(t, "https://cdn.example/"+init.StorageKey, p.URL)

	photos, err := svc.Photos(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestInitPhotoUploadRejectsNonImages(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakeStorage(), nil)
	l := seedListing(t, repo)

	_, err := svc.InitPhotoUpload(context.Background(), l.ID, InitPhotoUploadRequest{
		Filename:    "contract.pdf",
		ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, ErrUnsupportedPhotoType)
}
