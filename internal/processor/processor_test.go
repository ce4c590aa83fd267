package processor_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/fotoladu"
	"fotoladuViewer/internal/lib/logger/handlers/slogdiscard"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/processor"
	"fotoladuViewer/internal/storage/sqlstore"
)

type archiveServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func testJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			v := uint8(60 + x*100/320)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v + 20, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func call(id int, fail string) string {
	return fmt.Sprintf(`kuvapiltfuncarhiiv(%d,'1985',58.6,27.1,'1','611.4','739.2','ka','k1','%s','K150','%d','O35','mv','Maa-amet')`, id, fail, id)
}

// newArchive serves three photos over two pages. c.jpg has no thumbnail.
func newArchive(t *testing.T) *archiveServer {
	t.Helper()

	jpeg := testJPEG(t)
	a := &archiveServer{}

	a.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/otsing_arhiiv.php":
			meta := "var lk_nr = 1; var ridu = 1; var limit = 2; Leitud fotosid: 3\n"
			if r.URL.Query().Get("start") == "2" {
				_, _ = w.Write([]byte(meta + call(3, "c.jpg")))
				return
			}
			_, _ = w.Write([]byte(meta + call(1, "a.jpg") + call(2, "b.jpg")))
		case r.URL.Path == "/data/archive/arhiiv/ka/k1/thumbs/c.jpg":
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/data/archive/arhiiv/ka/k1/"):
			a.downloads.Add(1)
			_, _ = w.Write(jpeg)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(a.Close)

	return a
}

func setup(t *testing.T, maxPages int) (*processor.ImageProcessor, *sqlstore.Storage, *archiveServer, string) {
	t.Helper()

	dataDir := t.TempDir()

	store, err := sqlstore.New(&config.Storage{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Migrate()
	require.NoError(t, err)

	srv := newArchive(t)

	client, err := fotoladu.New(slogdiscard.NewDiscardLogger(), srv.URL, 5*time.Second)
	require.NoError(t, err)

	p := processor.NewImageProcessor(slogdiscard.NewDiscardLogger(), client, store, dataDir, fotoladu.VariantReduced, maxPages)

	return p, store, srv, dataDir
}

func TestRun(t *testing.T) {
	p, store, srv, dataDir := setup(t, 20)
	ctx := context.Background()

	stats, err := p.Run(ctx, models.IngestJob{ID: uuid.New(), Aasta: "1985"})
	require.NoError(t, err)
	require.Equal(t, processor.Stats{Pages: 2, Saved: 3}, stats)

	n, err := store.CountImages(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	images, err := store.RandomImages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, images, 3)

	for _, img := range images {
		require.Equal(t, "raw/ka/k1/reduced/"+img.Fail, img.Path)
		require.True(t, img.PathCorrected.Valid)
		require.Equal(t, "corrected/ka/k1/reduced/"+img.Fail, img.PathCorrected.String)
		require.Equal(t, "raw/ka/k1/thumbs/"+img.Fail, img.PathThumb.String)
		require.InDelta(t, 58.6, img.Lat.Float64, 1e-9)

		require.FileExists(t, filepath.Join(dataDir, img.Path))
		require.FileExists(t, filepath.Join(dataDir, img.PathCorrected.String))
		require.FileExists(t, filepath.Join(dataDir, img.PathThumb.String))
	}

	thumb, err := imaging.Open(filepath.Join(dataDir, "raw", "ka", "k1", "thumbs", "c.jpg"))
	require.NoError(t, err)
	require.Equal(t, 150, thumb.Bounds().Dx())
	require.Equal(t, 150, thumb.Bounds().Dy())

	// reduced a,b,c plus thumbs a,b
	require.Equal(t, int32(5), srv.downloads.Load())

	stats, err = p.Run(ctx, models.IngestJob{ID: uuid.New(), Aasta: "1985"})
	require.NoError(t, err)
	require.Equal(t, processor.Stats{Pages: 2, Skipped: 3}, stats)
	require.Equal(t, int32(5), srv.downloads.Load())
}

func TestRunMaxPages(t *testing.T) {
	p, store, _, _ := setup(t, 20)
	ctx := context.Background()

	stats, err := p.Run(ctx, models.IngestJob{ID: uuid.New(), Aasta: "1985", MaxPages: 1})
	require.NoError(t, err)
	require.Equal(t, 1, stats.Pages)
	require.Equal(t, 2, stats.Saved)

	n, err := store.CountImages(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestProcessMessage(t *testing.T) {
	p, store, _, _ := setup(t, 1)
	ctx := context.Background()

	require.Error(t, p.ProcessMessage(ctx, []byte("{not json")))

	require.NoError(t, p.ProcessMessage(ctx, []byte(`{"id":"`+uuid.NewString()+`","aasta":"1985"}`)))

	n, err := store.CountImages(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRunSearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := fotoladu.New(slogdiscard.NewDiscardLogger(), srv.URL, time.Second)
	require.NoError(t, err)

	p := processor.NewImageProcessor(slogdiscard.NewDiscardLogger(), client, nil, t.TempDir(), fotoladu.VariantReduced, 5)

	_, err = p.Run(context.Background(), models.IngestJob{ID: uuid.New()})
	require.Error(t, err)
}

type photo struct {
	id    int
	kaust string
	fail  string
	jpeg  []byte
}

func gradientJPEG(t *testing.T, lo, hi int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(lo + x*(hi-lo)/200)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

// newFolderArchive serves pages of equal size; all photos are also listed by
// the bounding-box endpoint.
func newFolderArchive(t *testing.T, pages [][]photo) string {
	t.Helper()

	byPath := map[string][]byte{}
	var total int
	for _, page := range pages {
		for _, ph := range page {
			byPath[ph.kaust+"/"+ph.fail] = ph.jpeg
			total++
		}
	}
	size := len(pages[0])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/otsing_arhiiv.php":
			start, _ := strconv.Atoi(r.URL.Query().Get("start"))
			idx := start / size
			if idx >= len(pages) {
				return
			}

			body := fmt.Sprintf("var ridu = 1; var limit = %d; Leitud fotosid: %d\n", size, total)
			for _, ph := range pages[idx] {
				body += fmt.Sprintf(`kuvapiltfuncarhiiv(%d,'1985','','','','','','ka','%s','%s','L','%d','O35','mv','Maa-amet')`,
					ph.id, ph.kaust, ph.fail, ph.id)
			}
			_, _ = w.Write([]byte(body))
		case r.URL.Path == "/paring_db_arhiiv.php":
			var features []string
			for _, page := range pages {
				for _, ph := range page {
					features = append(features, fmt.Sprintf(
						`{"type":"Feature","properties":{"id":%d,"aasta":"1985","B":58.7,"L":27.1,"peakaust":"ka","kaust":%q,"fail":%q}}`,
						ph.id, ph.kaust, ph.fail))
				}
			}
			_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`))
		case strings.HasPrefix(r.URL.Path, "/data/archive/arhiiv/ka/"):
			parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/data/archive/arhiiv/ka/"), "/")
			data, ok := byPath[parts[0]+"/"+parts[len(parts)-1]]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func ingest(t *testing.T, pages [][]photo, job models.IngestJob) (*sqlstore.Storage, string, processor.Stats) {
	t.Helper()

	dataDir := t.TempDir()

	store, err := sqlstore.New(&config.Storage{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Migrate()
	require.NoError(t, err)

	client, err := fotoladu.New(slogdiscard.NewDiscardLogger(), newFolderArchive(t, pages), 5*time.Second)
	require.NoError(t, err)

	p := processor.NewImageProcessor(slogdiscard.NewDiscardLogger(), client, store, dataDir, fotoladu.VariantReduced, 20)

	job.ID = uuid.New()
	stats, err := p.Run(context.Background(), job)
	require.NoError(t, err)

	return store, dataDir, stats
}

func readCorrected(t *testing.T, dataDir, kaust, fail string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dataDir, "corrected", "ka", kaust, "reduced", fail))
	require.NoError(t, err)
	return data
}

func TestRunBalancesEachFolderOnItsOwn(t *testing.T) {
	dark := photo{id: 1, kaust: "1963_dark", fail: "a.jpg", jpeg: gradientJPEG(t, 10, 90)}
	bright := photo{id: 2, kaust: "1985_bright", fail: "b.jpg", jpeg: gradientJPEG(t, 160, 250)}

	_, mixed, _ := ingest(t, [][]photo{{dark, bright}}, models.IngestJob{Aasta: "1985"})
	_, darkOnly, _ := ingest(t, [][]photo{{dark}}, models.IngestJob{Aasta: "1985"})
	_, brightOnly, _ := ingest(t, [][]photo{{bright}}, models.IngestJob{Aasta: "1985"})

	require.Equal(t, readCorrected(t, darkOnly, "1963_dark", "a.jpg"), readCorrected(t, mixed, "1963_dark", "a.jpg"))
	require.Equal(t, readCorrected(t, brightOnly, "1985_bright", "b.jpg"), readCorrected(t, mixed, "1985_bright", "b.jpg"))
}

func TestRunRebalancesWholeFolder(t *testing.T) {
	a := photo{id: 1, kaust: "k1", fail: "a.jpg", jpeg: gradientJPEG(t, 10, 90)}
	b := photo{id: 2, kaust: "k1", fail: "b.jpg", jpeg: gradientJPEG(t, 160, 250)}

	_, twoPages, stats := ingest(t, [][]photo{{a}, {b}}, models.IngestJob{Aasta: "1985"})
	require.Equal(t, processor.Stats{Pages: 2, Saved: 2}, stats)

	_, onePage, _ := ingest(t, [][]photo{{a, b}}, models.IngestJob{Aasta: "1985"})

	require.Equal(t, readCorrected(t, onePage, "k1", "a.jpg"), readCorrected(t, twoPages, "k1", "a.jpg"))
	require.Equal(t, readCorrected(t, onePage, "k1", "b.jpg"), readCorrected(t, twoPages, "k1", "b.jpg"))
}

func TestRunBBox(t *testing.T) {
	pages := [][]photo{{
		{id: 10, kaust: "k1", fail: "a.jpg", jpeg: testJPEG(t)},
		{id: 11, kaust: "k2", fail: "b.jpg", jpeg: testJPEG(t)},
	}}

	store, dataDir, stats := ingest(t, pages, models.IngestJob{
		BBox: &models.BBox{ALat: 58.6, ALng: 27.0, ULat: 58.8, ULng: 27.2},
	})
	require.Equal(t, processor.Stats{Pages: 1, Saved: 2}, stats)

	n, err := store.CountImages(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	images, err := store.RandomImages(context.Background(), 10)
	require.NoError(t, err)
	for _, img := range images {
		require.InDelta(t, 58.7, img.Lat.Float64, 1e-9)
		require.Equal(t, "corrected/ka/"+img.Kaust+"/reduced/"+img.Fail, img.PathCorrected.String)
		require.FileExists(t, filepath.Join(dataDir, img.PathCorrected.String))
	}
}
