package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/middleware"
	"moviehub/internal/service"
	"moviehub/internal/xmlcodec"
)

type WatchlistHandler struct {
	svc service.WatchlistService
}

func NewWatchlistHandler(svc service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

// RegisterRoutes mounts the personal watch-list. Every route requires an
// authenticated user.
func (h *WatchlistHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/watched", authRequired, h.List)
	rg.POST("/watched", authRequired, h.Add)
}

func (h *WatchlistHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "missing authorization header")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.List(ctx, user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list watched movies")
		return
	}

	respondXML(c, http.StatusOK, xmlcodec.EncodeWatchedList(entries))
}

func (h *WatchlistHandler) Add(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "missing authorization header")
		return
	}

	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := xmlcodec.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed XML: "+err.Error())
		return
	}

	entry, err := xmlcodec.DecodeWatched(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stored, err := h.svc.Add(ctx, user.ID, &entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", entry.MovieID))
		case errors.Is(err, service.ErrAlreadyInList):
			respondError(c, http.StatusConflict, fmt.Sprintf("movie %q is already in the watch-list", entry.MovieID))
		default:
			respondError(c, http.StatusInternalServerError, "could not record watched movie")
		}
		return
	}

	respondXML(c, http.StatusCreated, xmlcodec.EncodeWatched(*stored))
}
