package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"github.com/gomithril/embedserver"
)

const serviceName = "embedserver"

// FormLimits bounds how much of a request body is read while binding.
type FormLimits struct {
	// MaxMemory is the multipart size kept in memory; larger parts spill to disk.
	MaxMemory int64
	// MaxBody caps the whole request body.
	MaxBody int64
}

type Handler struct {
	embedder embedserver.Embedder
	limits   FormLimits
}

func NewHandler(embedder embedserver.Embedder, limits FormLimits) *Handler {
	useFormFieldNames()
	return &Handler{embedder: embedder, limits: limits}
}

// NewRouter builds the gin engine with middleware and routes installed.
func NewRouter(h *Handler, accessLog bool) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestID())
	if accessLog {
		r.Use(AccessLog())
	}
	r.Use(Recovery())
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.POST("/embed", h.embed)
}

type embedRequest struct {
	// Pointer so an empty value still counts as present.
	Text *string `form:"text" binding:"required"`
}

func (h *Handler) embed(c *gin.Context) {
	var req embedRequest
	if err := h.bindForm(c, &req); err != nil {
		log.Debug().Err(err).Str("request_id", c.GetString(ctxRequestID)).Msg("Rejected embed request")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(errBodyTooLarge))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, NewValidationErrorResponse(err, "text"))
		return
	}

	vec, err := h.embedder.Embed(c.Request.Context(), *req.Text)
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString(ctxRequestID)).Msg("Embedding failed")
		c.JSON(http.StatusInternalServerError, NewErrorResponse(errInternal))
		return
	}
	c.JSON(http.StatusOK, EmbedResponse{Embedding: vec})
}

// bindForm reads only the request body, never the query string.
func (h *Handler) bindForm(c *gin.Context, obj any) error {
	if h.limits.MaxBody > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.MaxBody)
	}
	if strings.EqualFold(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.Request.ParseMultipartForm(h.limits.MaxMemory); err != nil {
			return err
		}
		return c.ShouldBindWith(obj, binding.FormMultipart)
	}
	return c.ShouldBindWith(obj, binding.FormPost)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Version:   embedserver.Version,
		Dimension: h.embedder.Dimension(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
