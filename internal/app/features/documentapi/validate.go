package documentapi

import (
	"errors"

	"github.com/AashishRichhariya/openleaf/internal/app/system/slug"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxSlugLength bounds slugs accepted on save.
const MaxSlugLength = slug.MaxNameLength

var errSlugFormat = errors.New("must contain only letters, digits, hyphens and underscores")

type saveInput struct {
	Slug  string `json:"slug"`
	IsNew *bool  `json:"is_new_document"`
}

// validateSave returns field errors keyed by JSON name, or nil.
func validateSave(s string, req SaveRequest) map[string]string {
	in := saveInput{Slug: s, IsNew: req.IsNewDocument}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Slug,
			validation.Required,
			validation.Length(1, MaxSlugLength),
			validation.By(func(value any) error {
				if v, _ := value.(string); v != "" && !slug.ValidName(v) {
					return errSlugFormat
				}
				return nil
			}),
		),
		validation.Field(&in.IsNew, validation.NotNil),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for k, v := range verrs {
		fields[k] = v.Error()
	}
	return fields
}
