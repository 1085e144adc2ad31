// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package workflow

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/slug"
	"portfolio/internal/upload"
)

// Input is a parsed create or update submission. Text fields are expected
// to be trimmed already. A nil Cover means no new cover file was attached.
type Input struct {
	ID string

	Title            string `label:"Title" validate:"required,max=200"`
	Slug             string `label:"Slug" validate:"required,max=120,slug"`
	ShortDescription string `label:"Short description" validate:"required,max=500"`
	Description      string `label:"Description" validate:"required,max=20000"`

	Date         string   `label:"Date" validate:"max=100"`
	ExternalLink string   `label:"External link" validate:"max=2000"`
	Videos       []string `label:"Videos" validate:"max=20,dive,max=2000"`
	Objective    string   `label:"Objective" validate:"max=20000"`
	Process      string   `label:"Process" validate:"max=20000"`
	Results      string   `label:"Results" validate:"max=20000"`
	Lessons      string   `label:"Lessons" validate:"max=20000"`

	Tools    []string `label:"Tools" validate:"max=50,dive,max=100"`
	Featured bool

	Cover         *upload.File
	Gallery       []upload.File
	RemoveGallery []string
}

func (in *Input) sections() content.Sections {
	return content.Sections{
		Description:  in.Description,
		Date:         in.Date,
		ExternalLink: in.ExternalLink,
		Videos:       in.Videos,
		Objective:    in.Objective,
		Process:      in.Process,
		Results:      in.Results,
		Lessons:      in.Lessons,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	return v
}

// check validates in and converts the first failure into a user-facing
// ErrValidation error.
func (s *Service) check(in *Input) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return models.WrapError(models.ErrValidation, fieldError(ve[0]), err)
	}
	return models.WrapError(models.ErrValidation, "Invalid submission.", err)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing required fields."
	case "slug":
		return "Invalid slug."
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s has too many entries (max %s).", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s is too long (max %s characters).", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
