package http

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/apperr"
	"portfolio-api/internal/domain"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/storage"
	"portfolio-api/internal/validation"
)

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]map[string]any, len(projects))
	for i := range projects {
		resp[i] = projects[i].Response()
	}
	success(c, http.StatusOK, resp)
}

func (h *Handler) getProject(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), repository.Fields{"id": c.Param("id")})
	if err != nil {
		h.fail(c, err)
		return
	}
	if project == nil {
		notFound(c)
		return
	}
	success(c, http.StatusOK, project.Response())
}

func (h *Handler) createProject(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Project.Validate(form) {
		invalidInput(c)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), presentFields(form, validation.Project))
	if err != nil {
		h.fail(c, err)
		return
	}

	project, err = h.attachImage(c, project)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, project.Response())
}

func (h *Handler) updateProject(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Project.Validate(form) {
		invalidInput(c)
		return
	}

	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), presentFields(form, validation.Project))
	if err != nil {
		h.fail(c, err)
		return
	}

	project, err = h.attachImage(c, project)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, project.Response())
}

func (h *Handler) deleteProject(c *gin.Context) {
	id := c.Param("id")
	project, err := h.projects.Get(c.Request.Context(), repository.Fields{"id": id})
	if err != nil {
		h.fail(c, err)
		return
	}
	if project == nil {
		h.fail(c, apperr.NotFound())
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	// cleanup after a successful row delete; a stranded blob is only a warning
	if project.Image != "" {
		if err := h.storage.Remove(c.Request.Context(), project.Image); err != nil && !errors.Is(err, storage.ErrNotExist) {
			h.log.WithError(err).Warnf("remove project image %s", project.Image)
		}
	}

	success(c, http.StatusOK, gin.H{})
}

// attachImage stores an uploaded image file as {project.id}{ext} and patches
// the image field. Without an image file it returns the project unchanged.
func (h *Handler) attachImage(c *gin.Context, project *domain.Project) (*domain.Project, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// no image attached, or the body was not multipart at all
		return project, nil
	}

	filename := project.ID + filepath.Ext(file.Filename)
	src, err := file.Open()
	if err != nil {
		return nil, apperr.BadRequest("unreadable image upload")
	}
	defer src.Close()

	if err := h.storage.Save(c.Request.Context(), filename, src); err != nil {
		return nil, err
	}
	return h.projects.Update(c.Request.Context(), project.ID, repository.Fields{"image": filename})
}

func (h *Handler) serveImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		notFound(c)
		return
	}

	blob, size, err := h.storage.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			notFound(c)
			return
		}
		h.fail(c, err)
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, blob, nil)
}
