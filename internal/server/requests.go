package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/jpalmerr/outreach/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// createSchoolRequest is the body of POST /api/schools.
type createSchoolRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// Bind implements render.Binder. A whitespace-only name counts as missing.
func (c *createSchoolRequest) Bind(_ *http.Request) error {
	c.Name = strings.TrimSpace(c.Name)
	return validate.Struct(c)
}

func (c *createSchoolRequest) draft() store.Draft {
	return store.Draft{
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		Notes:         c.Notes,
	}
}

// updateStatusRequest is the body of PUT /api/schools/{id}/status.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=not-contacted called responded no-response follow-up"`
}

// Bind implements render.Binder.
func (u *updateStatusRequest) Bind(_ *http.Request) error {
	u.Status = strings.TrimSpace(u.Status)
	return validate.Struct(u)
}

// decodeAndBind decodes a JSON body into v and validates it.
//
// Unlike render.Bind it does not depend on the Content-Type header, so
// plain curl requests work.
func decodeAndBind(r *http.Request, v render.Binder) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return errors.New("invalid request body")
	}
	if err := v.Bind(r); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// validationMessage turns the first validator failure into a short
// human-readable message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
