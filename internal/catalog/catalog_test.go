package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"fotoladuViewer/internal/catalog"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage"
)

type fakeStore struct {
	images   []models.Image
	err      error
	lastN    int
	getCalls int
}

func (f *fakeStore) RandomImages(_ context.Context, n int) ([]models.Image, error) {
	f.lastN = n
	if f.err != nil {
		return nil, f.err
	}
	if n > len(f.images) {
		n = len(f.images)
	}
	return f.images[:n], nil
}

func (f *fakeStore) DeleteImage(_ context.Context, id int64) error {
	for i, img := range f.images {
		if img.ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return nil
		}
	}
	return storage.ErrImageNotFound
}

func (f *fakeStore) GetImage(_ context.Context, id int64) (*models.Image, error) {
	f.getCalls++
	for _, img := range f.images {
		if img.ID == id {
			return &img, nil
		}
	}
	return nil, storage.ErrImageNotFound
}

func TestRecord(t *testing.T) {
	rec := catalog.Record(models.Image{
		ID:            42,
		FotoladuID:    261295,
		Path:          "raw/ka/1985_K150_O35_38/reduced/1985-K150-670.jpg",
		PathCorrected: sql.NullString{String: "corrected/ka/1985_K150_O35_38/reduced/1985-K150-670.jpg", Valid: true},
		Aasta:         "1985",
		W:             sql.NullFloat64{Float64: 611.4, Valid: true},
	})

	require.Equal(t, "42", rec.ID.String())
	require.Equal(t, "/data/corrected/ka/1985_K150_O35_38/reduced/1985-K150-670.jpg", rec.URL.String())
	require.Equal(t, "/data/raw/ka/1985_K150_O35_38/reduced/1985-K150-670.jpg", rec.URLRaw.String())
	require.False(t, rec.URLThumb.Present())
	require.Equal(t, "611.4", rec.W.String())
	require.False(t, rec.H.Valid)
}

func TestRandomImagesClampsCount(t *testing.T) {
	store := &fakeStore{images: []models.Image{{ID: 1, Path: "raw/a/b/reduced/c.jpg"}}}
	c := catalog.New(store)

	records, err := c.RandomImages(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, store.lastN)
	require.Len(t, records, 1)
	require.Equal(t, "/data/raw/a/b/reduced/c.jpg", records[0].URL.String())
}

func TestRandomImageEmptyCatalogue(t *testing.T) {
	c := catalog.New(&fakeStore{})

	_, err := c.RandomImage(context.Background())
	require.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestRandomImageStoreError(t *testing.T) {
	dbErr := errors.New("db error")
	c := catalog.New(&fakeStore{err: dbErr})

	_, err := c.RandomImage(context.Background())
	require.ErrorIs(t, err, dbErr)
}

func TestImage(t *testing.T) {
	c := catalog.New(&fakeStore{images: []models.Image{{ID: 3, FotoladuID: 99, Path: "raw/x/y/reduced/z.jpg"}}})

	rec, err := c.Image(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "99", rec.FotoladuID.String())

	_, err = c.Image(context.Background(), 4)
	require.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestDelete(t *testing.T) {
	store := &fakeStore{images: []models.Image{{ID: 1}, {ID: 2}}}
	c := catalog.New(store)

	require.NoError(t, c.Delete(context.Background(), 1))
	require.Len(t, store.images, 1)

	err := c.Delete(context.Background(), 1)
	require.ErrorIs(t, err, storage.ErrImageNotFound)
	require.ErrorContains(t, err, "catalog.Delete")
}
