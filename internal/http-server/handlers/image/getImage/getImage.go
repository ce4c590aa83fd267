package getImage

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fotoladuViewer/internal/lib/api/response"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
	"fotoladuViewer/internal/storage"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageGetter
type ImageGetter interface {
	Image(ctx context.Context, id int64) (models.ImageRecord, error)
}

// New resolves a record by the id carried in the viewer's fragment.
// @Summary      Get image
// @Tags         images
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  models.ImageRecord
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/image/{id} [get]
func New(log *slog.Logger, imageGetter ImageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.getImage.New"

		log := log.With(slog.String("op", op))

		idStr := chi.URLParam(r, "id")
		imageID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || imageID < 1 {
			log.Error("failed to parse image ID", slog.String("id", idStr))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid image ID"))
			return
		}

		image, err := imageGetter.Image(r.Context(), imageID)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Warn("image not found", slog.Int64("image_id", imageID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to get image from storage", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get image"))
			return
		}

		log.Info("image retrieved successfully", slog.Int64("image_id", imageID))

		render.JSON(w, r, image)
	}
}
