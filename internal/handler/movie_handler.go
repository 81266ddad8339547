package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/schema"
	"moviehub/internal/service"
	"moviehub/internal/xmlcodec"
)

type MovieHandler struct {
	svc       service.MovieService
	validator *schema.Validator
}

func NewMovieHandler(svc service.MovieService, validator *schema.Validator) *MovieHandler {
	return &MovieHandler{svc: svc, validator: validator}
}

// RegisterRoutes mounts the movie CRUD surface. Reads are public; writes
// go through the auth middleware and the staff gate.
func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired, staffOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:movie_id", h.Get)

	rg.POST("", authRequired, staffOnly, h.Create)
	rg.PUT("/:movie_id", authRequired, staffOnly, h.Update)
	rg.DELETE("/:movie_id", authRequired, staffOnly, h.Delete)
}

func (h *MovieHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movies, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list movies")
		return
	}

	respondXML(c, http.StatusOK, xmlcodec.EncodeMovieList(movies))
}

func (h *MovieHandler) Get(c *gin.Context) {
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

	respondXML(c, http.StatusOK, xmlcodec.EncodeMovie(*movie))
}

func (h *MovieHandler) Create(c *gin.Context) {
	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := h.validator.Validate(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := xmlcodec.DecodeMovie(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &movie); err != nil {
		if errors.Is(err, service.ErrMovieExists) {
			respondError(c, http.StatusConflict, fmt.Sprintf("movie %q already exists", movie.MovieID))
			return
		}
		respondError(c, http.StatusInternalServerError, "could not store movie")
		return
	}

	respondXML(c, http.StatusCreated, xmlcodec.EncodeMovie(movie))
}

func (h *MovieHandler) Update(c *gin.Context) {
	movieID := c.Param("movie_id")

	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := h.validator.Validate(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := xmlcodec.DecodeMovie(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Update(ctx, movieID, &movie); err != nil {
		switch {
		case errors.Is(err, service.ErrIDMismatch):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrMovieNotFound):
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", movieID))
		default:
			respondError(c, http.StatusInternalServerError, "could not update movie")
		}
		return
	}

	respondXML(c, http.StatusOK, xmlcodec.EncodeMovie(movie))
}

func (h *MovieHandler) Delete(c *gin.Context) {
	movieID := c.Param("movie_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, movieID); err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", movieID))
			return
		}
		respondError(c, http.StatusInternalServerError, "could not delete movie")
		return
	}

	c.Status(http.StatusNoContent)
}
