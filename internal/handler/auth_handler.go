package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/service"
	"moviehub/internal/xmlcodec"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/auth/token", h.Token)
}

func (h *AuthHandler) Register(c *gin.Context) {
	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := xmlcodec.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed XML: "+err.Error())
		return
	}

	reg, err := xmlcodec.DecodeRegistration(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.svc.Register(ctx, reg.Username, reg.Password, reg.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameInUse):
			respondError(c, http.StatusConflict, "username already in use")
		case errors.Is(err, service.ErrEmailInUse):
			respondError(c, http.StatusConflict, "email already in use")
		default:
			respondError(c, http.StatusInternalServerError, "could not register user")
		}
		return
	}

	respondXML(c, http.StatusCreated, xmlcodec.EncodeAccount(*user, token))
}

func (h *AuthHandler) Token(c *gin.Context) {
	raw, ok := readXMLBody(c)
	if !ok {
		return
	}

	root, err := xmlcodec.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed XML: "+err.Error())
		return
	}

	creds, err := xmlcodec.DecodeCredentials(root)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.svc.IssueToken(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondXML(c, http.StatusOK, xmlcodec.EncodeAccount(*user, token))
}
