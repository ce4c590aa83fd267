package router_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fotoladuViewer/internal/catalog"
	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/http-server/router"
	"fotoladuViewer/internal/kafka/producer"
	"fotoladuViewer/internal/kafka/producer/mocks"
	"fotoladuViewer/internal/lib/logger/handlers/slogdiscard"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage/sqlstore"
)

type fixture struct {
	e  *httpexpect.Expect
	id int64
}

func setup(t *testing.T, jobs producer.ProducerIface, seed bool) fixture {
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

	var id int64
	if seed {
		rel := "raw/ka/k1/reduced/a.jpg"
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "raw", "ka", "k1", "reduced"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, rel), []byte("jpeg"), 0o644))

		id, err = store.SaveImage(context.Background(), &models.Image{
			FotoladuID: 261295,
			Path:       rel,
			Aasta:      "1985",
			W:          sql.NullFloat64{Float64: 611.4, Valid: true},
			Peakaust:   "ka",
			Kaust:      "k1",
			Fail:       "a.jpg",
			Allikas:    "Maa-amet",
		})
		require.NoError(t, err)
	}

	cfg := &config.Config{
		DataDir: dataDir,
		HTTPServer: config.HTTPServer{
			MaxRandomCount: 10,
		},
	}

	srv := httptest.NewServer(router.New(slogdiscard.NewDiscardLogger(), cfg, catalog.New(store), jobs))
	t.Cleanup(srv.Close)

	return fixture{e: httpexpect.Default(t, srv.URL), id: id}
}

func TestCatalogueAPI(t *testing.T) {
	f := setup(t, nil, true)

	t.Run("Random Image", func(t *testing.T) {
		obj := f.e.GET("/api/random").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		obj.Value("id").Number().IsEqual(f.id)
		obj.Value("url").String().IsEqual("/data/raw/ka/k1/reduced/a.jpg")
		obj.Value("url_raw").String().IsEqual("/data/raw/ka/k1/reduced/a.jpg")
		obj.Value("url_corrected").IsNull()
		obj.Value("aasta").String().IsEqual("1985")
		obj.Value("w").Number().IsEqual(611.4)
	})

	t.Run("Random Batch", func(t *testing.T) {
		f.e.GET("/api/random").WithQuery("count", 5).
			Expect().
			Status(http.StatusOK).
			JSON().Array().Length().IsEqual(1)

		f.e.GET("/api/random").WithQuery("count", 0).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			Value("error").String().IsEqual("count must be between 1 and 10")
	})

	t.Run("Get Image", func(t *testing.T) {
		f.e.GET("/api/image/" + strconv.FormatInt(f.id, 10)).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("fotoladu_id").Number().IsEqual(261295)

		f.e.GET("/api/image/9999").
			Expect().
			Status(http.StatusNotFound)
	})

	t.Run("Serve Image File", func(t *testing.T) {
		f.e.GET("/data/raw/ka/k1/reduced/a.jpg").
			Expect().
			Status(http.StatusOK).
			Body().IsEqual("jpeg")
	})

	t.Run("Viewer Page", func(t *testing.T) {
		f.e.GET("/").
			Expect().
			Status(http.StatusOK).
			Body().
			Contains(`id="photo-raw" src="/data/raw/ka/k1/reduced/a.jpg"`).
			Contains(`href="#` + strconv.FormatInt(f.id, 10) + `"`)
	})

	t.Run("Submit Tags", func(t *testing.T) {
		f.e.POST("/api/tags").WithJSON(map[string]any{"tags": []string{"forest"}}).
			Expect().
			Status(http.StatusNotImplemented)
	})

	t.Run("Ingest Disabled", func(t *testing.T) {
		f.e.POST("/api/ingest").WithJSON(map[string]any{"aasta": "1985"}).
			Expect().
			Status(http.StatusNotFound)
	})

	t.Run("Delete Image", func(t *testing.T) {
		f.e.DELETE("/api/image/9999").
			Expect().
			Status(http.StatusNotFound)
	})

	t.Run("Swagger", func(t *testing.T) {
		f.e.GET("/swagger/doc.json").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("paths").Object().ContainsKey("/api/random")
	})
}

func TestEmptyCatalogue(t *testing.T) {
	f := setup(t, nil, false)

	f.e.GET("/api/random").
		Expect().
		Status(http.StatusNotFound)

	f.e.GET("/api/random").WithQuery("count", 3).
		Expect().
		Status(http.StatusOK).
		JSON().Array().IsEmpty()

	f.e.GET("/").
		Expect().
		Status(http.StatusOK).
		Body().Contains("No image available")
}

func TestIngestEnabled(t *testing.T) {
	jobs := mocks.NewProducerIface(t)
	jobs.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	f := setup(t, jobs, false)

	f.e.POST("/api/ingest").WithJSON(map[string]any{"sailiku_nr": "1985_K150"}).
		Expect().
		Status(http.StatusAccepted).
		JSON().Object().
		ContainsKey("job_id").
		Value("status").String().IsEqual("OK")
}

func TestDeleteImage(t *testing.T) {
	f := setup(t, nil, true)
	path := "/api/image/" + strconv.FormatInt(f.id, 10)

	f.e.DELETE(path).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("status").String().IsEqual("OK")

	f.e.GET(path).
		Expect().
		Status(http.StatusNotFound)

	f.e.GET("/api/random").
		Expect().
		Status(http.StatusNotFound)
}
