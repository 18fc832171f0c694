package forms

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrIncomplete = errors.New("form incomplete")
)

// FieldErrors maps a wire field name to a message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + f[k]
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error { return ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// check runs struct validation and renders failures with msgs, keyed by
// "<field>.<tag>". Unmapped failures get a generic message.
func check(v any, msgs map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[fe.Field()] = msg
	}
	return out
}

// percent is floor(done/total*100).
func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(done) / float64(total) * 100))
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }
