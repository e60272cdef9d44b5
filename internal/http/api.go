// Package http wires the REST surface: every handler validates input shape,
// performs one store or auth operation, and shapes the status/data envelope.
package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/apperr"
	"portfolio-api/internal/auth"
	"portfolio-api/internal/domain"
	"portfolio-api/internal/repository/sqlite"
	"portfolio-api/internal/storage"
)

const maxUploadBytes = 32 << 20

// Handler wires HTTP routes to the stores and services.
type Handler struct {
	log       *logrus.Logger
	users     *sqlite.Store[domain.User]
	projects  *sqlite.Store[domain.Project]
	companies *sqlite.Store[domain.Company]
	auth      *auth.Service
	tokens    *auth.TokenManager
	storage   storage.Service
}

func NewHandler(
	log *logrus.Logger,
	users *sqlite.Store[domain.User],
	projects *sqlite.Store[domain.Project],
	companies *sqlite.Store[domain.Company],
	authSvc *auth.Service,
	tokens *auth.TokenManager,
	store storage.Service,
) *Handler {
	return &Handler{
		log:       log,
		users:     users,
		projects:  projects,
		companies: companies,
		auth:      authSvc,
		tokens:    tokens,
		storage:   store,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.logRequests(), gin.CustomRecovery(h.handlePanic))

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, failEnvelope(gin.H{"error": "not found"}))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, failEnvelope(gin.H{"error": "method not allowed"}))
	})

	router.GET("/status", h.status)
	router.POST("/login", h.login)
	router.GET("/logout", h.requireAuth(), h.logout)
	router.POST("/change-password", h.requireAuth(), h.changePassword)

	router.GET("/companies", h.listCompanies)
	router.GET("/companies/:id", h.getCompany)
	router.POST("/companies", h.requireAuth(), h.createCompany)
	router.PATCH("/companies/:id", h.requireAuth(), h.updateCompany)
	router.DELETE("/companies/:id", h.requireAuth(), h.deleteCompany)

	router.GET("/projects", h.listProjects)
	router.GET("/projects/:id", h.getProject)
	router.POST("/projects", h.requireAuth(), h.createProject)
	router.PATCH("/projects/:id", h.requireAuth(), h.updateProject)
	router.DELETE("/projects/:id", h.requireAuth(), h.deleteProject)

	router.GET("/serve-image/:filename", h.serveImage)
}

func (h *Handler) status(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"app_status": "active"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"client":   c.ClientIP(),
		}).Info("request")
	}
}

func (h *Handler) handlePanic(c *gin.Context, recovered any) {
	h.log.WithField("panic", recovered).Error("recovered from panic")
	c.JSON(http.StatusInternalServerError, failEnvelope(gin.H{"error": "internal server error"}))
}

// requireAuth rejects requests without a valid, unexpired, unrevoked bearer
// token, then places the user id and jti in the request context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			h.abort(c, apperr.Unauthorized("missing access token"))
			return
		}

		claims, err := h.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				h.abort(c, apperr.Unauthorized("token has expired"))
				return
			}
			h.abort(c, apperr.Unauthorized("invalid access token"))
			return
		}

		revoked, err := h.auth.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			h.abort(c, err)
			return
		}
		if revoked {
			h.abort(c, apperr.Unauthorized("token has been revoked"))
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxJTI, claims.ID)
		c.Next()
	}
}

const (
	ctxUserID = "userID"
	ctxJTI    = "jti"
)

func success(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func failEnvelope(data any) gin.H {
	return gin.H{"status": "fail", "data": data}
}

// fail converts an apperr.Error to its envelope and anything else to a
// generic 500 with a safe message.
func (h *Handler) fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Code, failEnvelope(ae.Payload))
		return
	}
	h.log.WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, failEnvelope(gin.H{"error": "internal server error"}))
}

func (h *Handler) abort(c *gin.Context, err error) {
	h.fail(c, err)
	c.Abort()
}

func invalidInput(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, failEnvelope(gin.H{"error": "invalid input"}))
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, failEnvelope(gin.H{"error": "not found"}))
}

// formValues parses urlencoded or multipart bodies into one field map.
func formValues(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apperr.BadRequest("malformed form input")
	}
	return c.Request.PostForm, nil
}
