package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// maxFormMemory bounds the in-memory part of multipart bodies
const maxFormMemory = 1 << 20

// BindError is returned when a request body cannot be decoded or fails
// validation. Message is safe to send to the client.
type BindError struct {
	Field   string
	Message string
	Err     error
}

func (e *BindError) Error() string {
	return e.Message
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Binder decodes JSON or form bodies into request structs and validates them.
//
// Fields are named by their json tag in both encodings. A failing field
// reports the text of its help tag, or a generic message when it has none:
//
//	type createCourse struct {
//		Title string `json:"title" validate:"required" help:"title is required"`
//	}
type Binder struct {
	validate *validator.Validate
}

// NewBinder creates a Binder
func NewBinder() *Binder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Binder{validate: v}
}

// Bind decodes r's body into dst, which must be a pointer to a struct, and
// validates the result
func (b *Binder) Bind(r *http.Request, dst interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		err = decodeForm(r, mediaType, dst)
	default:
		err = decodeJSON(r, dst)
	}
	if err != nil {
		return err
	}

	return b.Validate(dst)
}

// Validate runs the validate tags of dst and reports the first failing field
func (b *Binder) Validate(dst interface{}) error {
	err := b.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &BindError{Message: "invalid request", Err: err}
	}

	first := verrs[0]
	return &BindError{
		Field:   first.Field(),
		Message: helpFor(dst, first),
		Err:     err,
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &BindError{Message: "malformed JSON body", Err: err}
	}
	return nil
}

func decodeForm(r *http.Request, mediaType string, dst interface{}) error {
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return &BindError{Message: "malformed form body", Err: err}
	}

	// empty values are treated as absent so required checks still fire
	values := make(map[string]interface{}, len(r.PostForm))
	for key, vs := range r.PostForm {
		if len(vs) == 0 || vs[0] == "" {
			continue
		}
		values[key] = vs[0]
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("failed to create form decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return &BindError{Message: "malformed form body", Err: err}
	}
	return nil
}

func helpFor(dst interface{}, fe validator.FieldError) string {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if help := f.Tag.Get("help"); help != "" {
				return help
			}
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

var defaultBinder = NewBinder()

// Bind decodes and validates r's body with a shared Binder
func Bind(r *http.Request, dst interface{}) error {
	return defaultBinder.Bind(r, dst)
}
