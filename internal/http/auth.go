package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/repository"
	"portfolio-api/internal/validation"
)

func (h *Handler) login(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Login.Validate(form) {
		invalidInput(c)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Get("email"), form.Get("password"))
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "access_token": token})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Revoke(c.Request.Context(), c.GetString(ctxJTI)); err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{})
}

func (h *Handler) changePassword(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Password.Validate(form) {
		invalidInput(c)
		return
	}

	user, err := h.users.Get(c.Request.Context(), repository.Fields{"id": c.GetString(ctxUserID)})
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		notFound(c)
		return
	}

	if _, err := h.auth.Authenticate(c.Request.Context(), user.Email, form.Get("current_password")); err != nil {
		h.fail(c, err)
		return
	}

	// the store's password transform hashes the new value before persisting
	if _, err := h.users.Update(c.Request.Context(), user.ID, repository.Fields{"password": form.Get("new_password")}); err != nil {
		h.fail(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{"message": "password changed"})
}
