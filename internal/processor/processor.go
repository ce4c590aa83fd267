package processor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"fotoladuViewer/internal/fotoladu"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage"
)

const (
	RawDir       = "raw"
	CorrectedDir = "corrected"

	thumbSize   = 150
	jpegQuality = 85
	workers     = 4
)

// Archive is the remote photo archive.
type Archive interface {
	Search(ctx context.Context, params fotoladu.SearchParams) (*fotoladu.Page, error)
	BBox(ctx context.Context, params fotoladu.BBoxParams) ([]fotoladu.Entry, error)
	Download(ctx context.Context, entry fotoladu.Entry, variant, destRoot string) (string, error)
}

// ImageSaver persists catalogue rows.
type ImageSaver interface {
	SaveImage(ctx context.Context, img *models.Image) (int64, error)
	UpdateVariants(ctx context.Context, id int64, corrected, thumb string) error
}

// Stats summarises one ingest job.
type Stats struct {
	Pages   int
	Saved   int
	Skipped int
	Failed  int
}

type ImageProcessor struct {
	log      *slog.Logger
	archive  Archive
	storage  ImageSaver
	dataDir  string
	variant  string
	maxPages int
}

func NewImageProcessor(log *slog.Logger, archive Archive, storage ImageSaver, dataDir, variant string, maxPages int) *ImageProcessor {
	return &ImageProcessor{
		log:      log,
		archive:  archive,
		storage:  storage,
		dataDir:  dataDir,
		variant:  variant,
		maxPages: maxPages,
	}
}

// ProcessMessage decodes an IngestJob and runs it.
func (p *ImageProcessor) ProcessMessage(ctx context.Context, message []byte) error {
	const op = "processor.ProcessMessage"

	var job models.IngestJob
	if err := json.Unmarshal(message, &job); err != nil {
		p.log.Error("failed to unmarshal kafka message", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := p.Run(ctx, job)
	return err
}

// Run pulls every page of the job's search into the catalogue.
func (p *ImageProcessor) Run(ctx context.Context, job models.IngestJob) (Stats, error) {
	const op = "processor.Run"

	log := p.log.With(
		slog.String("op", op),
		slog.String("job_id", job.ID.String()),
	)

	log.Info("processing ingest job")

	if job.BBox != nil {
		return p.runBBox(ctx, log, job)
	}

	params := fotoladu.SearchParams{
		FotoNr:     job.FotoNr,
		Aasta:      job.Aasta,
		Kaardileht: job.Kaardileht,
		LennuNr:    job.LennuNr,
		FotoTyyp:   job.FotoTyyp,
		Allikas:    job.Allikas,
		SailikuNr:  job.SailikuNr,
		PageSize:   fotoladu.MaxPageSize,
	}

	first, err := p.archive.Search(ctx, params)
	if err != nil {
		log.Error("failed to search archive", sl.Err(err))
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	maxPages := p.maxPages
	if job.MaxPages > 0 {
		maxPages = job.MaxPages
	}

	var stats Stats
	p.processPage(ctx, log, first, &stats)

	size := first.PageSize()
	last := min(first.TotalPages(), maxPages)

	for page := 1; page < last && size > 0; page++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("%s: %w", op, err)
		}

		params.Start = page * size

		next, err := p.archive.Search(ctx, params)
		if err != nil {
			log.Warn("failed to fetch page", slog.Int("page", page), sl.Err(err))
			continue
		}
		p.processPage(ctx, log, next, &stats)
	}

	log.Info("ingest job finished",
		slog.Int("pages", stats.Pages),
		slog.Int("saved", stats.Saved),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	return stats, nil
}

// runBBox ingests every photo the archive lists inside the job's bounding box.
func (p *ImageProcessor) runBBox(ctx context.Context, log *slog.Logger, job models.IngestJob) (Stats, error) {
	const op = "processor.runBBox"

	entries, err := p.archive.BBox(ctx, fotoladu.BBoxParams{
		Aasta: job.Aasta,
		ALat:  job.BBox.ALat,
		ALng:  job.BBox.ALng,
		ULat:  job.BBox.ULat,
		ULng:  job.BBox.ULng,
	})
	if err != nil {
		log.Error("failed to query archive by bounding box", sl.Err(err))
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	var stats Stats
	p.processPage(ctx, log, &fotoladu.Page{Entries: entries}, &stats)

	log.Info("ingest job finished",
		slog.Int("entries", len(entries)),
		slog.Int("saved", stats.Saved),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	return stats, nil
}

type stored struct {
	id       int64
	rawPath  string
	thumbRel string
}

func (p *ImageProcessor) processPage(ctx context.Context, log *slog.Logger, page *fotoladu.Page, stats *Stats) {
	stats.Pages++

	var (
		mu    sync.Mutex
		batch []stored
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, entry := range page.Entries {
		entry := entry
		g.Go(func() error {
			item, err := p.storeEntry(gctx, entry)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, storage.ErrImageExists):
				stats.Skipped++
				batch = append(batch, item)
			case err != nil:
				stats.Failed++
				log.Warn("failed to store entry", slog.Int64("fotoladu_id", entry.ID), sl.Err(err))
			default:
				stats.Saved++
				batch = append(batch, item)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := p.correctBatch(ctx, batch); err != nil {
		log.Warn("failed to tone-balance page", sl.Err(err))
	}
}

// storeEntry downloads an entry with its thumbnail and saves the catalogue row.
// An existing row is returned together with storage.ErrImageExists.
func (p *ImageProcessor) storeEntry(ctx context.Context, entry fotoladu.Entry) (stored, error) {
	const op = "processor.storeEntry"

	rawRoot := filepath.Join(p.dataDir, RawDir)

	rawPath, err := p.archive.Download(ctx, entry, p.variant, rawRoot)
	if err != nil {
		return stored{}, fmt.Errorf("%s: %w", op, err)
	}

	thumbPath, err := p.archive.Download(ctx, entry, fotoladu.VariantThumbs, rawRoot)
	if err != nil {
		p.log.Debug("thumbnail download failed, generating", slog.Int64("fotoladu_id", entry.ID), sl.Err(err))

		thumbPath, err = makeThumbnail(rawPath, rawRoot, entry)
		if err != nil {
			return stored{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	img := imageFromEntry(entry, p.relative(rawPath))

	id, err := p.storage.SaveImage(ctx, img)
	if err != nil && !errors.Is(err, storage.ErrImageExists) {
		return stored{}, fmt.Errorf("%s: %w", op, err)
	}

	return stored{
		id:       id,
		rawPath:  rawPath,
		thumbRel: p.relative(thumbPath),
	}, err
}

// correctBatch tone-balances every folder the batch touched.
func (p *ImageProcessor) correctBatch(ctx context.Context, batch []stored) error {
	const op = "processor.correctBatch"

	folders := lo.GroupBy(batch, func(item stored) string {
		return filepath.Dir(item.rawPath)
	})

	var errs []error
	for dir, items := range folders {
		if err := p.correctFolder(ctx, dir, items); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// correctFolder balances all images of one flight folder against the folder's
// average levels, so a photo's output never depends on other folders or on the
// order it was downloaded in. Rows of items are pointed at their outputs.
func (p *ImageProcessor) correctFolder(ctx context.Context, rawDir string, items []stored) error {
	files, err := filepath.Glob(filepath.Join(rawDir, "*.jpg"))
	if err != nil {
		return err
	}
	files = lo.Uniq(append(files, lo.Map(items, func(item stored, _ int) string {
		return item.rawPath
	})...))
	sort.Strings(files)

	levels := make([]Levels, 0, len(files))
	usable := make([]string, 0, len(files))
	for _, file := range files {
		img, err := imaging.Open(file, imaging.AutoOrientation(true))
		if err != nil {
			p.log.Warn("failed to open image", slog.String("path", file), sl.Err(err))
			continue
		}
		levels = append(levels, MeasureLevels(img))
		usable = append(usable, file)
	}

	avg := AverageLevels(levels)

	rel, err := filepath.Rel(filepath.Join(p.dataDir, RawDir), rawDir)
	if err != nil {
		return err
	}
	outDir := filepath.Join(p.dataDir, CorrectedDir, rel)

	var errs []error
	written := make(map[string]string, len(usable))
	for _, file := range usable {
		img, err := imaging.Open(file, imaging.AutoOrientation(true))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		dest := filepath.Join(outDir, filepath.Base(file))
		if err := saveJPEG(ApplyLevels(img, avg), dest); err != nil {
			errs = append(errs, err)
			continue
		}
		written[file] = dest
	}

	for _, item := range items {
		dest, ok := written[item.rawPath]
		if !ok {
			continue
		}
		if err := p.storage.UpdateVariants(ctx, item.id, p.relative(dest), item.thumbRel); err != nil {
			errs = append(errs, err)
		}
	}

	p.log.Debug("folder tone-balanced", slog.String("folder", rel), slog.Int("images", len(written)))

	return errors.Join(errs...)
}

func (p *ImageProcessor) relative(path string) string {
	rel, err := filepath.Rel(p.dataDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func makeThumbnail(src, rawRoot string, entry fotoladu.Entry) (string, error) {
	rel, err := fotoladu.ImagePath(entry, fotoladu.VariantThumbs)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(rawRoot, rel)

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	if err := saveJPEG(imaging.Thumbnail(img, thumbSize, thumbSize, imaging.CatmullRom), dest); err != nil {
		return "", err
	}
	return dest, nil
}

func saveJPEG(img image.Image, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func imageFromEntry(e fotoladu.Entry, path string) *models.Image {
	return &models.Image{
		FotoladuID: e.ID,
		Path:       path,
		Aasta:      e.Aasta,
		W:          nullFloat(e.W),
		H:          nullFloat(e.H),
		Peakaust:   e.Peakaust,
		Kaust:      e.Kaust,
		Fail:       e.Fail,
		Lend:       e.Lend,
		Fotonr:     e.Fotonr,
		Kaardileht: e.Kaardileht,
		Tyyp:       e.Tyyp,
		Allikas:    e.Allikas,
		Lat:        nullFloat(e.B),
		Lon:        nullFloat(e.L),
		Accuracy:   nullFloat(e.Tapsus),
	}
}

func nullFloat(s string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
