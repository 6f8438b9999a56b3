package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	ferrors "github.com/matzehuels/fiducial/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report TOML names ("cache.url") instead of Go field names.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks every field against its constraints. All failures are
// reported together.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "validate config")
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describe(e))
	}
	sort.Strings(msgs)
	return ferrors.New(ferrors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

// describe turns one validation failure into "section.key: problem".
func describe(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", field, e.Value(), e.Param())
	case "required_if":
		return fmt.Sprintf("%s: required when %s", field, strings.Replace(e.Param(), " ", " is ", 1))
	case "hostname_port":
		return fmt.Sprintf("%s: %q is not host:port", field, e.Value())
	case "min", "max", "gt":
		return fmt.Sprintf("%s: must be %s %s", field, map[string]string{"min": ">=", "max": "<=", "gt": ">"}[e.Tag()], e.Param())
	default:
		return fmt.Sprintf("%s: failed %s", field, e.Tag())
	}
}
