package rest

import (
	"bytes"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

const (
	maxEmailLength = 320
	maxTitleLength = 200
)

type registerPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p registerPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.RuneLength(3, maxEmailLength), is.Email),
		validation.Field(&p.Password, validation.Required, validation.RuneLength(common.MinPasswordLength, common.MaxPasswordLength)),
	)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.RuneLength(3, maxEmailLength), is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

type noteCreatePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (p noteCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, maxTitleLength)),
		validation.Field(&p.Content, validation.Required),
	)
}

// notePatchPayload distinguishes absent fields (nil) from present ones.
type notePatchPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (p notePatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.RuneLength(1, maxTitleLength)),
		validation.Field(&p.Content, validation.NilOrNotEmpty),
	)
}

func (p notePatchPayload) update() models.NoteUpdate {
	return models.NoteUpdate{Title: p.Title, Content: p.Content}
}

type userPatchPayload struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (p userPatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Role, validation.NilOrNotEmpty, validation.In(string(models.RoleUser), string(models.RoleAdmin))),
	)
}

func (p userPatchPayload) update() models.UserUpdate {
	upd := models.UserUpdate{IsActive: p.IsActive}
	if p.Role != nil {
		r := models.Role(*p.Role)
		upd.Role = &r
	}
	return upd
}

// bind decodes the request body into dst and validates it. An empty body
// decodes to the zero payload so that missing fields surface as field errors.
func bind(c *fiber.Ctx, dst validation.Validatable) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := c.App().Config().JSONDecoder(body, dst); err != nil {
			return common.NewValidationError("body", "must be a JSON object")
		}
	}
	return validationError(dst.Validate())
}

// validationError converts ozzo field errors into the domain type.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return err
	}
	ve := &common.ValidationError{Fields: make(map[string]string, len(fields))}
	for k, e := range fields {
		ve.Fields[k] = e.Error()
	}
	return ve
}
