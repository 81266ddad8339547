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

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/:movie_id/comments", authRequired, h.List)
	rg.POST("/:movie_id/comments", authRequired, h.Add)
}

func (h *CommentHandler) List(c *gin.Context) {
	movieID := c.Param("movie_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comments, err := h.svc.ListForMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", movieID))
			return
		}
		respondError(c, http.StatusInternalServerError, "could not list comments")
		return
	}

	respondXML(c, http.StatusOK, xmlcodec.EncodeCommentList(movieID, comments))
}

func (h *CommentHandler) Add(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "missing authorization header")
		return
	}

	movieID := c.Param("movie_id")

	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := xmlcodec.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed XML: "+err.Error())
		return
	}

	in, err := xmlcodec.DecodeComment(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Add(ctx, movieID, user, in.Body)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("movie %q not found", movieID))
			return
		}
		respondError(c, http.StatusInternalServerError, "could not store comment")
		return
	}

	respondXML(c, http.StatusCreated, xmlcodec.EncodeComment(*comment))
}
