package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
)

var (
	ErrNoImages           = errors.New("no images returned")
	ErrSuperseded         = errors.New("superseded by a newer load")
	ErrTagsNotImplemented = errors.New("tag submission is not implemented")
)

// Variant selects how a record is fetched and which elements it is rendered into.
type Variant int

const (
	// VariantSingle fetches one record and sets the photo element and fragment.
	VariantSingle Variant = iota
	// VariantBatch fetches a batch of one and also sets the raw photo and metadata table.
	VariantBatch
)

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "single":
		return VariantSingle, nil
	case "batch":
		return VariantBatch, nil
	}
	return 0, fmt.Errorf("unknown loader variant %q", s)
}

type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Source
type Source interface {
	RandomImage(ctx context.Context) (models.ImageRecord, error)
	RandomImages(ctx context.Context, count int) ([]models.ImageRecord, error)
}

// TagSubmitter receives tags entered for the image currently shown.
type TagSubmitter interface {
	SubmitTags(ctx context.Context, imageID string, tags []string) error
}

// NoTags is the default TagSubmitter; it always returns ErrTagsNotImplemented.
type NoTags struct{}

func (NoTags) SubmitTags(context.Context, string, []string) error {
	return ErrTagsNotImplemented
}

type Option func(*ImageLoader)

func WithTagSubmitter(ts TagSubmitter) Option {
	return func(l *ImageLoader) {
		l.tags = ts
	}
}

// ImageLoader fetches a random record and reflects it into a Renderer.
//
// Every Load takes a new sequence number and cancels the previous one still in
// flight. Only the response of the latest Load reaches the renderer.
type ImageLoader struct {
	log      *slog.Logger
	source   Source
	renderer Renderer
	variant  Variant
	tags     TagSubmitter

	pageLoad sync.Once

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	inflight int
	current  models.ImageRecord
}

func New(log *slog.Logger, source Source, renderer Renderer, variant Variant, opts ...Option) *ImageLoader {
	l := &ImageLoader{
		log:      log,
		source:   source,
		renderer: renderer,
		variant:  variant,
		tags:     NoTags{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load runs one fetch-and-render cycle. On failure nothing is rendered and the
// error is returned; a response overtaken by a later Load yields ErrSuperseded.
func (l *ImageLoader) Load(ctx context.Context) error {
	const op = "loader.Load"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.inflight++
	l.mu.Unlock()

	log := l.log.With(slog.String("op", op), slog.Uint64("seq", seq))

	record, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.inflight--

	if seq != l.seq {
		log.Debug("discarding superseded response")
		return ErrSuperseded
	}
	l.cancel = nil

	if err != nil {
		log.Error("failed to fetch image", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	l.render(record)

	log.Info("image loaded", slog.String("image_id", record.ID.String()))

	return nil
}

// OnPageLoad triggers the initial Load. Only the first call per loader fetches.
func (l *ImageLoader) OnPageLoad(ctx context.Context) error {
	var err error
	l.pageLoad.Do(func() {
		err = l.Load(ctx)
	})
	return err
}

// SubmitTags is the tag form submit: the tags go to the TagSubmitter, then exactly
// one Load follows, whatever the submitter returned.
func (l *ImageLoader) SubmitTags(ctx context.Context, tags []string) error {
	const op = "loader.SubmitTags"

	log := l.log.With(slog.String("op", op))

	var tagErr error
	if err := l.tags.SubmitTags(ctx, l.Current().ID.String(), tags); err != nil {
		if errors.Is(err, ErrTagsNotImplemented) {
			log.Debug("tag submission skipped", slog.Int("tags", len(tags)))
		} else {
			log.Error("failed to submit tags", sl.Err(err))
			tagErr = fmt.Errorf("%s: %w", op, err)
		}
	}

	return errors.Join(tagErr, l.Load(ctx))
}

// PopulateTable renders the metadata table of rec.
func (l *ImageLoader) PopulateTable(rec models.ImageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.populateTable(rec)
}

func (l *ImageLoader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inflight > 0 {
		return StateLoading
	}
	return StateIdle
}

// Current returns the record last rendered, or the zero record.
func (l *ImageLoader) Current() models.ImageRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.current
}

func (l *ImageLoader) fetch(ctx context.Context) (models.ImageRecord, error) {
	if l.variant == VariantSingle {
		return l.source.RandomImage(ctx)
	}

	records, err := l.source.RandomImages(ctx, 1)
	if err != nil {
		return models.ImageRecord{}, err
	}
	if len(records) == 0 {
		return models.ImageRecord{}, ErrNoImages
	}

	return records[0], nil
}

func (l *ImageLoader) render(rec models.ImageRecord) {
	switch l.variant {
	case VariantSingle:
		l.renderer.SetImageSource(ElementPhoto, rec.URL.String())
		l.renderer.SetFragment("#" + rec.ID.String())
	case VariantBatch:
		l.renderer.SetImageSource(ElementPhotoFix, rec.URL.String())
		l.renderer.SetFragment("#" + rec.ID.String())

		raw := RawPlaceholder
		if rec.URLRaw.Present() {
			raw = rec.URLRaw.String()
		}
		l.renderer.SetImageSource(ElementPhotoRaw, raw)

		l.populateTable(rec)
	}

	l.current = rec
}

func (l *ImageLoader) populateTable(rec models.ImageRecord) {
	l.renderer.SetTable(ElementMetadata, NewTable(rec))
}
