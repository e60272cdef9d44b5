// Package validation declares the per-endpoint form schemas: which fields
// must be present and which may be. Any other field rejects the input.
package validation

import "net/url"

type Schema struct {
	Required []string
	Optional []string
}

// Validate reports whether the form carries every required field and nothing
// outside the schema.
func (s Schema) Validate(form url.Values) bool {
	for _, field := range s.Required {
		if !form.Has(field) {
			return false
		}
	}
	for field := range form {
		if !s.allows(field) {
			return false
		}
	}
	return true
}

func (s Schema) allows(field string) bool {
	for _, f := range s.Required {
		if f == field {
			return true
		}
	}
	for _, f := range s.Optional {
		if f == field {
			return true
		}
	}
	return false
}

var (
	Login = Schema{
		Required: []string{"email", "password"},
	}
	Password = Schema{
		Required: []string{"current_password", "new_password"},
		Optional: []string{"repeat_password"},
	}
	Project = Schema{
		Optional: []string{"name", "description", "url"},
	}
	Company = Schema{
		Optional: []string{"name", "description"},
	}
)
