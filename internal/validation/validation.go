// Package validation turns untrusted request payloads into typed request
// values. It runs in two stages: a shape and coercion pass over the raw
// payload, followed by constraint checks with go-playground/validator struct
// tags on the typed value. All violations are reported together as a
// *domain.ValidationError. The package performs no I/O.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Payload is a decoded request body or form: a JSON object decoded with
// UseNumber, or multipart/query string values keyed by field name.
type Payload map[string]any

// Schema identifies a request shape.
type Schema string

// Known schemas.
const (
	CategoryCreate Schema = "category-create"
	ProductCreate  Schema = "product-create"
	ProductUpdate  Schema = "product-update"
	UserCreate     Schema = "user-create"
	UserUpdate     Schema = "user-update"
	CartAdd        Schema = "cart-add"
)

// ErrUnknownSchema is returned by Validate for an unregistered schema id.
var ErrUnknownSchema = errors.New("unknown validation schema")

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Let numeric tags such as gt=0 apply to decimals.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Validate dispatches to the parser for schema and returns its typed result
// as a value (CategoryCreateRequest, ProductCreateRequest, ...).
func Validate(schema Schema, p Payload) (any, error) {
	switch schema {
	case CategoryCreate:
		return ParseCategoryCreate(p)
	case ProductCreate:
		return ParseProductCreate(p)
	case ProductUpdate:
		return ParseProductUpdate(p)
	case UserCreate:
		return ParseUserCreate(p)
	case UserUpdate:
		return ParseUserUpdate(p)
	case CartAdd:
		return ParseCartAdd(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
}

// check runs the constraint stage on v, merging its violations into the
// shape-stage errors. Fields already rejected by the shape stage are not
// reported twice.
func check(v any, r *reader) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating %T: %w", v, err)
		}
		for _, fe := range verrs {
			if r.errs.Has(fe.Field()) {
				continue
			}
			r.errs.Add(fe.Field(), constraintMessage(fe))
		}
	}
	return r.errs.Err()
}

func constraintMessage(fe validator.FieldError) string {
	numeric := fe.Kind() != reflect.String
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if numeric {
			return "Number must be greater than or equal to " + fe.Param()
		}
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		if numeric {
			return "Number must be less than or equal to " + fe.Param()
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "gt":
		return "Number must be greater than " + fe.Param()
	case "lt":
		return "Number must be less than " + fe.Param()
	case "gte":
		return "Number must be greater than or equal to " + fe.Param()
	case "email":
		return "Invalid email"
	case "url":
		return "Invalid url"
	default:
		return "Invalid value"
	}
}
