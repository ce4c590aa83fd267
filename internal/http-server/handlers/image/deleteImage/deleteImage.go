package deleteImage

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
	"fotoladuViewer/internal/storage"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageDeleter
type ImageDeleter interface {
	Delete(ctx context.Context, id int64) error
}

type Response struct {
	response.Response
}

// New drops an image from the catalogue. Downloaded files stay on disk.
// @Summary      Delete image
// @Tags         images
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  deleteImage.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/image/{id} [delete]
func New(log *slog.Logger, imageDeleter ImageDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.deleteImage.New"

		log := log.With(slog.String("op", op))

		idStr := chi.URLParam(r, "id")
		imageID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || imageID < 1 {
			log.Error("failed to parse image ID", slog.String("id", idStr))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid image ID"))
			return
		}

		log.Info("attempting to delete image", slog.Int64("image_id", imageID))

		err = imageDeleter.Delete(r.Context(), imageID)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Warn("image not found for deletion", slog.Int64("image_id", imageID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to delete image from storage", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete image"))
			return
		}

		log.Info("image deleted successfully", slog.Int64("image_id", imageID))

		render.JSON(w, r, Response{
			Response: response.OK(),
		})
	}
}
