package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/repository"
	"portfolio-api/internal/validation"
)

func (h *Handler) listCompanies(c *gin.Context) {
	companies, err := h.companies.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]map[string]any, len(companies))
	for i := range companies {
		resp[i] = companies[i].Response()
	}
	success(c, http.StatusOK, resp)
}

func (h *Handler) getCompany(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), repository.Fields{"id": c.Param("id")})
	if err != nil {
		h.fail(c, err)
		return
	}
	if company == nil {
		notFound(c)
		return
	}
	success(c, http.StatusOK, company.Response())
}

func (h *Handler) createCompany(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Company.Validate(form) {
		invalidInput(c)
		return
	}

	company, err := h.companies.Create(c.Request.Context(), presentFields(form, validation.Company))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, company.Response())
}

func (h *Handler) updateCompany(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !validation.Company.Validate(form) {
		invalidInput(c)
		return
	}

	company, err := h.companies.Update(c.Request.Context(), c.Param("id"), presentFields(form, validation.Company))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, company.Response())
}

func (h *Handler) deleteCompany(c *gin.Context) {
	if err := h.companies.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{})
}

// presentFields keeps only the schema fields actually sent, so a PATCH leaves
// absent columns untouched.
func presentFields(form url.Values, schema validation.Schema) repository.Fields {
	fields := repository.Fields{}
	for _, name := range append(append([]string{}, schema.Required...), schema.Optional...) {
		if form.Has(name) {
			fields[name] = form.Get(name)
		}
	}
	return fields
}
