package recommendations

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"recommender-backend/internal/recommend"
	"recommender-backend/internal/shared/telemetry"
)

// PreferencesRequest is the boundary shape of a recommendation request, shared by the JSON API
// and the HTML form.
type PreferencesRequest struct {
	ContentType    string   `json:"contentType" form:"contentType" binding:"required,contenttype"`
	Genres         []string `json:"genres" form:"genres" binding:"required,min=1,max=20,dive,notblank,max=64"`
	Mood           string   `json:"mood" form:"mood" binding:"max=64"`
	Favorites      string   `json:"favorites" form:"favorites" binding:"max=2000"`
	AdditionalInfo string   `json:"additionalInfo" form:"additionalInfo" binding:"max=4000"`
}

// Preferences converts the request into pipeline input. Genres are trimmed and de-duplicated
// in first-seen order; free text is passed through verbatim.
func (r PreferencesRequest) Preferences() recommend.Preferences {
	seen := make(map[string]struct{}, len(r.Genres))
	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return recommend.Preferences{
		ContentType:    recommend.ContentType(strings.ToLower(strings.TrimSpace(r.ContentType))),
		Genres:         genres,
		Mood:           strings.TrimSpace(r.Mood),
		Favorites:      r.Favorites,
		AdditionalInfo: r.AdditionalInfo,
	}
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator. A failure is a
// programming error and panics, since every request would otherwise hit an unknown tag.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err := fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			telemetry.Error("validation.register_failed", map[string]any{"error": err.Error()})
			panic(err)
		}
		if err := registerRules(v); err != nil {
			telemetry.Error("validation.register_failed", map[string]any{"error": err.Error()})
			panic(err)
		}
	})
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("contenttype", func(fl validator.FieldLevel) bool {
		return recommend.ContentType(strings.ToLower(strings.TrimSpace(fl.Field().String()))).Valid()
	}); err != nil {
		return fmt.Errorf("register contenttype: %w", err)
	}
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	return nil
}

// FieldErrors flattens binding errors into field -> message.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonField(fe.Field())] = describe(fe)
	}
	return out
}

func jsonField(name string) string {
	if name == "" {
		return name
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "Genres" {
			return "choose at least one genre"
		}
		return "is required"
	case "min":
		return "choose at least one genre"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "notblank":
		return "must not be blank"
	case "contenttype":
		return "must be one of books, movies, both"
	default:
		return "is invalid"
	}
}
