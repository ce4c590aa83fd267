package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/lo"

	"fotoladuViewer/internal/lib/imageurl"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage"
)

type ImageStore interface {
	RandomImages(ctx context.Context, n int) ([]models.Image, error)
	GetImage(ctx context.Context, id int64) (*models.Image, error)
	DeleteImage(ctx context.Context, id int64) error
}

// Catalog turns stored images into wire records with public URLs.
type Catalog struct {
	store ImageStore
}

func New(store ImageStore) *Catalog {
	return &Catalog{store: store}
}

// RandomImages returns up to count random records. A count below one is treated as one.
func (c *Catalog) RandomImages(ctx context.Context, count int) ([]models.ImageRecord, error) {
	const op = "catalog.RandomImages"

	if count < 1 {
		count = 1
	}

	images, err := c.store.RandomImages(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lo.Map(images, func(img models.Image, _ int) models.ImageRecord {
		return Record(img)
	}), nil
}

// RandomImage returns one random record, or storage.ErrImageNotFound when the
// catalogue is empty.
func (c *Catalog) RandomImage(ctx context.Context) (models.ImageRecord, error) {
	const op = "catalog.RandomImage"

	records, err := c.RandomImages(ctx, 1)
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(records) == 0 {
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
	}

	return records[0], nil
}

func (c *Catalog) Image(ctx context.Context, id int64) (models.ImageRecord, error) {
	const op = "catalog.Image"

	img, err := c.store.GetImage(ctx, id)
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return Record(*img), nil
}

// Delete drops a record from the catalogue.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	const op = "catalog.Delete"

	if err := c.store.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func Record(img models.Image) models.ImageRecord {
	urls := imageurl.Build(img.Path, img.PathCorrected.String, img.PathThumb.String)

	return models.ImageRecord{
		ID:           models.Int(img.ID),
		URL:          optional(urls.URL),
		URLCorrected: optional(urls.Corrected),
		URLRaw:       optional(urls.Raw),
		URLThumb:     optional(urls.Thumb),
		Path:         models.Text(img.Path),
		FotoladuID:   models.Int(img.FotoladuID),
		Aasta:        models.Text(img.Aasta),
		W:            float(img.W),
		H:            float(img.H),
		Peakaust:     models.Text(img.Peakaust),
		Kaust:        models.Text(img.Kaust),
		Fail:         models.Text(img.Fail),
		Lend:         models.Text(img.Lend),
		Fotonr:       models.Text(img.Fotonr),
		Kaardileht:   models.Text(img.Kaardileht),
		Tyyp:         models.Text(img.Tyyp),
		Allikas:      models.Text(img.Allikas),
		Lat:          float(img.Lat),
		Lon:          float(img.Lon),
		Accuracy:     float(img.Accuracy),
	}
}

func optional(s string) models.Field {
	if s == "" {
		return models.Field{}
	}
	return models.Text(s)
}

func float(v sql.NullFloat64) models.Field {
	if !v.Valid {
		return models.Field{}
	}
	return models.Float(v.Float64)
}
