package validation_test

import (
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"

	"portfolio-api/internal/validation"
)

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name   string
		schema validation.Schema
		form   url.Values
		want   bool
	}{
		{
			name:   "login with both fields",
			schema: validation.Login,
			form:   url.Values{"email": {"a@b.com"}, "password": {"secret"}},
			want:   true,
		},
		{
			name:   "login missing password",
			schema: validation.Login,
			form:   url.Values{"email": {"a@b.com"}},
			want:   false,
		},
		{
			name:   "login with extra field",
			schema: validation.Login,
			form:   url.Values{"email": {"a@b.com"}, "password": {"secret"}, "remember": {"yes"}},
			want:   false,
		},
		{
			name:   "company with no fields",
			schema: validation.Company,
			form:   url.Values{},
			want:   true,
		},
		{
			name:   "company with one field",
			schema: validation.Company,
			form:   url.Values{"name": {"acme"}},
			want:   true,
		},
		{
			name:   "company with unknown field",
			schema: validation.Company,
			form:   url.Values{"name": {"acme"}, "founded": {"1999"}},
			want:   false,
		},
		{
			name:   "project with all fields",
			schema: validation.Project,
			form:   url.Values{"name": {"p"}, "description": {"d"}, "url": {"https://x"}},
			want:   true,
		},
		{
			name:   "password change without repeat",
			schema: validation.Password,
			form:   url.Values{"current_password": {"old"}, "new_password": {"new"}},
			want:   true,
		},
		{
			name:   "password change with repeat",
			schema: validation.Password,
			form:   url.Values{"current_password": {"old"}, "new_password": {"new"}, "repeat_password": {"new"}},
			want:   true,
		},
		{
			name:   "password change missing current",
			schema: validation.Password,
			form:   url.Values{"new_password": {"new"}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			c.Assert(tt.schema.Validate(tt.form), qt.Equals, tt.want)
		})
	}
}
