package random

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fotoladuViewer/internal/lib/api/response"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RandomImager
type RandomImager interface {
	RandomImages(ctx context.Context, count int) ([]models.ImageRecord, error)
}

// New serves random catalogue images.
// @Summary      Random image
// @Description  Without count returns one image record; with count returns an array of up to count records
// @Tags         images
// @Produce      json
// @Param        count  query     int  false  "Number of records"
// @Success      200    {object}  models.ImageRecord
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      500    {object}  response.Response
// @Router       /api/random [get]
func New(log *slog.Logger, imager RandomImager, maxCount int) http.HandlerFunc {
	validate := validator.New()
	countRule := fmt.Sprintf("min=1,max=%d", maxCount)

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.random.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		query := r.URL.Query()
		if !query.Has("count") {
			records, err := imager.RandomImages(r.Context(), 1)
			if err != nil {
				log.Error("failed to get random image", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to get random image"))
				return
			}
			if len(records) == 0 {
				log.Warn("catalogue is empty")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("no images"))
				return
			}

			log.Debug("random image selected", slog.String("image_id", records[0].ID.String()))

			render.JSON(w, r, records[0])
			return
		}

		count, err := strconv.Atoi(query.Get("count"))
		if err != nil {
			log.Warn("invalid count", slog.String("count", query.Get("count")))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid count"))
			return
		}

		if err = validate.Var(count, countRule); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Warn("count out of range", slog.Int("count", count))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(fmt.Sprintf("count must be between 1 and %d", maxCount)))
				return
			}

			log.Error("failed to validate count", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to validate count"))
			return
		}

		records, err := imager.RandomImages(r.Context(), count)
		if err != nil {
			log.Error("failed to get random images", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get random images"))
			return
		}
		if records == nil {
			records = []models.ImageRecord{}
		}

		log.Debug("random images selected", slog.Int("count", len(records)))

		render.JSON(w, r, records)
	}
}
