package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/service"
	"moviehub/internal/tmdb"
	"moviehub/internal/xmlcodec"
)

// ImportHandler pulls movie metadata from the external provider by
// title. Upstream failures map to gateway statuses so a provider outage
// is distinguishable from a bad request.
type ImportHandler struct {
	svc service.MovieService
}

func NewImportHandler(svc service.MovieService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired, staffOnly gin.HandlerFunc) {
	rg.POST("/import", authRequired, staffOnly, h.Import)
}

func (h *ImportHandler) Import(c *gin.Context) {
	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := xmlcodec.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed XML: "+err.Error())
		return
	}

	title, err := xmlcodec.DecodeImportRequest(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// The upstream search gets its own generous deadline; it is rate
	// limited and can block briefly before the request even starts.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	movie, err := h.svc.ImportByTitle(ctx, title)
	if err != nil {
		var apiErr *tmdb.APIError
		var transportErr *tmdb.TransportError
		switch {
		case errors.Is(err, service.ErrNoMatch):
			respondError(c, http.StatusNotFound, fmt.Sprintf("no movie found for title %q", title))
		case errors.Is(err, service.ErrMovieExists):
			respondError(c, http.StatusConflict, "movie has already been imported")
		case errors.As(err, &apiErr):
			respondError(c, http.StatusBadGateway, "metadata provider returned an error")
		case errors.As(err, &transportErr):
			respondError(c, http.StatusServiceUnavailable, "metadata provider is unreachable")
		default:
			respondError(c, http.StatusInternalServerError, "could not import movie")
		}
		return
	}

	respondXML(c, http.StatusCreated, xmlcodec.EncodeMovie(*movie))
}
