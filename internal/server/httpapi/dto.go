package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/models"
)

type noteRequest struct {
	Name        string  `json:"name" validate:"required"`
	Body        string  `json:"body" validate:"required"`
	Contact     *string `json:"contact,omitempty"`
	Category    string  `json:"category" validate:"required"`
	Subcategory *string `json:"subcategory,omitempty"`
	IsUrgent    bool    `json:"is_urgent"`
}

func (r noteRequest) draft() models.Draft {
	return models.Draft{
		Name:        r.Name,
		Body:        r.Body,
		Contact:     r.Contact,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		IsUrgent:    r.IsUrgent,
	}
}

type deleteRequest struct {
	DeletionType string `json:"deletion_type" validate:"required,oneof=Esborrades Finalitzades"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type purgeResponse struct {
	Removed int `json:"removed"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. Failures come back as
// *common.ValidationError.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError("request", "invalid JSON: "+err.Error())
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return common.NewValidationError(fe.Field(), validationMessage(fe))
		}
		return err
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}
