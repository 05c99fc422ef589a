// Package validator turns untrusted form fields into typed records.
//
// Parsing runs in two stages. A coercion stage reads every field tagged with
// `form` out of the raw map and converts integers. A constraint stage then runs
// go-playground/validator over the `validate` tags. Every field is checked and
// all violations are reported together.
package validator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/homeaway/backend/internal/types"
)

// MaxImageSize is the largest accepted upload, in bytes
const MaxImageSize = 1024 * 1024

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared go-playground validator with the word-count
// rules registered
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = engine.RegisterValidation("minwords", minWords)
		_ = engine.RegisterValidation("maxwords", maxWords)
	})
	return engine
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func minWords(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return wordCount(fl.Field().String()) >= n
}

func maxWords(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return wordCount(fl.Field().String()) <= n
}

// ParseProfile validates the profile form
func ParseProfile(raw map[string]string) (*types.ProfileInput, error) {
	var in types.ProfileInput
	if err := parse(raw, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ParseProperty validates the create-rental form
func ParseProperty(raw map[string]string) (*types.PropertyInput, error) {
	var in types.PropertyInput
	if err := parse(raw, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ValidateImage checks presence, size and content type of an upload
func ValidateImage(img types.ImageInput) error {
	if !img.Present {
		return &ValidationError{Messages: []string{"image is required"}}
	}
	verr := &ValidationError{}
	if img.Size > MaxImageSize {
		verr.add("File size must be less than 1 MB")
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		verr.add("File must be an image")
	}
	if len(verr.Messages) > 0 {
		return verr
	}
	return nil
}

// parse fills dst (a pointer to a struct) from raw and validates it
func parse(raw map[string]string, dst interface{}) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	// field name -> coercion message; fields listed here skip the constraint stage
	coerceErrs := make(map[string]string)

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("form")
		if key == "" || key == "-" {
			continue
		}
		value, ok := raw[key]

		switch f.Type.Kind() {
		case reflect.String:
			if !ok {
				coerceErrs[f.Name] = fmt.Sprintf("%s is required", key)
				continue
			}
			rv.Field(i).SetString(value)
		case reflect.Int, reflect.Int64:
			n, msg := coerceInt(key, value, ok)
			if msg != "" {
				coerceErrs[f.Name] = msg
				continue
			}
			rv.Field(i).SetInt(n)
		default:
			return fmt.Errorf("unsupported field kind %s for %s", f.Type.Kind(), f.Name)
		}
	}

	byField := make(map[string][]string)
	if err := Engine().Struct(dst); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range fieldErrs {
			name := fe.StructField()
			if _, skipped := coerceErrs[name]; skipped {
				continue
			}
			byField[name] = append(byField[name], messageFor(rt.Name(), fe))
		}
	}

	// report in declaration order
	verr := &ValidationError{}
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Name
		if msg, ok := coerceErrs[name]; ok {
			verr.add(msg)
			continue
		}
		for _, msg := range byField[name] {
			verr.add(msg)
		}
	}
	if len(verr.Messages) > 0 {
		return verr
	}
	return nil
}

// coerceInt mirrors numeric form coercion: blank is zero, anything else must
// parse as a whole number
func coerceInt(key, value string, present bool) (int64, string) {
	if !present {
		return 0, fmt.Sprintf("%s must be a number", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ""
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Sprintf("%s must be a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Sprintf("%s must be an integer", key)
	}
	// columns are 32-bit INTEGER
	if f > math.MaxInt32 {
		return 0, fmt.Sprintf("%s is too large", key)
	}
	if f < math.MinInt32 {
		return math.MinInt32, ""
	}
	return int64(f), ""
}
