// Package bind decodes and validates JSON request payloads
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Svc pairs the process-wide validator with its message translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the validator singleton, built on first use
func Get() *Svc {
	once.Do(func() { svc = build() })
	return svc
}

func build() *Svc {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// the default min/max messages spell out "characters in length",
	// these stay short enough for the wire
	shortTranslation(v, trans, "min", "{0} must be at least {1}")
	shortTranslation(v, trans, "max", "{0} must be at most {1}")

	return &Svc{Validator: v, Translator: trans}
}

// jsonName surfaces json tag names in validation messages instead of
// Go field names
func jsonName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func shortTranslation(v *validator.Validate, trans ut.Translator, tag, tmpl string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, tmpl, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// JSONOptions controls ParseJSON behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes the request body into T, validates it, and maps
// failures onto wire error codes
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("request body close failed")
		}
	}()

	reader, emptyOK, err := bodyReader(r, o)
	if err != nil {
		return zero, err
	}
	if emptyOK {
		return zero, nil
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.ConstraintViolationf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.ConstraintViolationf("unexpected trailing data")
	}

	if err := checkStruct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// bodyReader peeks one byte so a missing payload can be told apart from
// an empty JSON document. Safe and bodyless methods tolerate no body
func bodyReader(r *http.Request, o JSONOptions) (reader io.Reader, emptyOK bool, err error) {
	limit := func(rd io.Reader) io.Reader {
		if o.MaxBytes > 0 {
			return io.LimitReader(rd, o.MaxBytes)
		}
		return rd
	}

	if o.AllowEmptyBody {
		return limit(r.Body), false, nil
	}

	peek := make([]byte, 1)
	n, _ := r.Body.Read(peek)
	if n == 0 {
		switch r.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			return nil, true, nil
		}
		return nil, false, perr.ConstraintViolationf("empty body")
	}
	return limit(io.MultiReader(bytes.NewReader(peek[:n]), r.Body)), false, nil
}

func checkStruct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.ConstraintViolationf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.Newf(ValidationCode(err), "%s", msg), field)
}

// ValidationCode maps the first validator failure to a wire error code.
// Absent required fields and unknown question types get their own codes;
// everything else is a structural constraint violation
func ValidationCode(err error) perr.ErrorCode {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return perr.ErrorCodeConstraintViolation
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return perr.ErrorCodeMissingField
	case fe.Tag() == "oneof" && fe.Field() == "question_type":
		return perr.ErrorCodeInvalidQuestionType
	default:
		return perr.ErrorCodeConstraintViolation
	}
}

// ValidationFieldAndMessage returns the first failed field and its
// translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}
