package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/service"
	"moviehub/internal/transform"
	"moviehub/internal/xmlcodec"
)

const contentTypeHTML = "text/html; charset=utf-8"

// HTMLHandler serves the HTML projections of the catalogue. The encoded
// XML tree is the transform input, so the HTML views always agree with
// the API representation.
type HTMLHandler struct {
	svc    service.MovieService
	engine *transform.Engine
}

func NewHTMLHandler(svc service.MovieService, engine *transform.Engine) *HTMLHandler {
	return &HTMLHandler{svc: svc, engine: engine}
}

func (h *HTMLHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/html", h.ListView)
	rg.GET("/:movie_id/html", h.MovieView)
}

func (h *HTMLHandler) ListView(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movies, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list movies")
		return
	}

	page, err := h.engine.Apply(xmlcodec.EncodeMovieList(movies), "movie-list")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not render movie list")
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(page))
}

func (h *HTMLHandler) MovieView(c *gin.Context) {
	movieID := c.Param("movie_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movie, err := h.svc.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", movieID))
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load movie")
		return
	}

	page, err := h.engine.Apply(xmlcodec.EncodeMovie(*movie), "movie")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not render movie")
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(page))
}
