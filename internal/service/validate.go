package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"segmentservice/internal/apperror"
)

const maxSlugsPerRequest = 100

var (
	validate  = validator.New()
	slugRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)
)

func init() {
	if err := validate.RegisterValidation("segment_slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

func slugValidate(slug string) error {
	if err := validate.Var(slug, "required"); err != nil {
		return apperror.ErrEmptySlug
	}
	if err := validate.Var(slug, "segment_slug"); err != nil {
		return apperror.ErrSlugRegex
	}
	return nil
}

func percentValidate(autoPercent *int) error {
	if autoPercent == nil {
		return nil
	}
	if err := validate.Var(*autoPercent, "min=0,max=100"); err != nil {
		return apperror.ErrPercentRange
	}
	return nil
}

func userValidate(userID int64) error {
	if userID <= 0 {
		return apperror.ErrUserIDInvalid
	}
	return nil
}

func slugsValidate(slugs []string) error {
	if len(slugs) == 0 {
		return apperror.ErrNoSegmentsProvided
	}
	if len(slugs) > maxSlugsPerRequest {
		return apperror.ErrTooManySegments
	}
	return nil
}
