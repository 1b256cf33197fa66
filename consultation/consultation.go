package consultation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// Contact methods a client can pick on the booking form.
const (
	ContactEmail = "email"
	ContactPhone = "phone"
)

// DateLayout is the wire format for the preferred appointment date.
const DateLayout = "2006-01-02"

// Service is one of the products a client can ask to talk about.
type Service struct {
	Code        string
	Label       string
	Description string
}

// Services is the fixed catalog of products offered on the site.
var Services = []Service{
	{Code: "term-life", Label: "Term Life Insurance", Description: "Affordable protection for your family"},
	{Code: "annuity", Label: "Annuities", Description: "Secure retirement income planning"},
	{Code: "iul", Label: "IUL (Indexed Universal Life)", Description: "Life insurance with growth potential"},
}

// TimeSlots are the half-hour appointment labels offered by the booking form.
var TimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM",
}

// Request is a consultation booking as submitted by the website form.
// Age travels as text because that's what the form's number input produces.
// Exactly one of Email/Phone is expected, selected by ContactMethod.
type Request struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Age           string   `json:"age" validate:"required,age_range"`
	ContactMethod string   `json:"contactMethod" validate:"required,oneof=email phone"`
	Email         string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string   `json:"phone,omitempty" validate:"omitempty,phone_number"`
	Services      []string `json:"services" validate:"required,min=1,dive,oneof=term-life annuity iul"`
	Date          string   `json:"date" validate:"required,calendar_date"`
	Time          string   `json:"time" validate:"required"`
}

// FieldError identifies a single failed constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every failed field constraint for one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fieldErr := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message)
	}
	return strings.Join(msgs, "; ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report errors against the wire field names rather than Go struct names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := RegisterValidators(validate); err != nil {
		panic(err)
	}
}

// RegisterValidators adds the consultation-specific validations to validate.
func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("age_range", func(fl validator.FieldLevel) bool {
		age, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		if err != nil {
			return false
		}
		return age >= 18 && age <= 100
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		if len(phone) != 10 {
			return false
		}
		for _, c := range phone {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	if err != nil {
		return err
	}

	return nil
}

// Validate checks req against the booking schema and returns either nil or a
// *ValidationError listing every failing field. The conditional email/phone
// requirement is only evaluated once all unconditional checks pass, so a
// request with e.g. a bad age never also complains about a missing phone.
func Validate(req Request) error {
	var fieldErrs []FieldError

	if err := validate.Struct(req); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range vErrs {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   normalizeFieldName(fe.Field()),
				Message: messageFor(normalizeFieldName(fe.Field()), fe.Tag()),
			})
		}
		return &ValidationError{Fields: fieldErrs}
	}

	if req.ContactMethod == ContactEmail && req.Email == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "Please enter your email address."})
	}
	if req.ContactMethod == ContactPhone && req.Phone == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "phone", Message: "Please enter your phone number."})
	}

	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	return nil
}

// ServiceLabel maps a service code through the catalog. Unrecognized codes
// pass through verbatim so a stale email never renders an empty bullet.
func ServiceLabel(code string) string {
	for _, service := range Services {
		if service.Code == code {
			return service.Label
		}
	}
	return code
}

// IsTimeSlot reports whether label is one of the offered appointment slots.
func IsTimeSlot(label string) bool {
	for _, slot := range TimeSlots {
		if slot == label {
			return true
		}
	}
	return false
}

// Errors on slice elements come back as "services[0]"; collapse them onto
// the parent field so the response shape stays flat.
func normalizeFieldName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func messageFor(field, tag string) string {
	switch field {
	case "name":
		if tag == "required" {
			return "Name is required."
		}
		return "Name must be at least 2 characters."
	case "age":
		if tag == "required" {
			return "Age is required."
		}
		return "Age must be between 18 and 100."
	case "contactMethod":
		return "Please select a contact method."
	case "email":
		return "Please enter a valid email address."
	case "phone":
		return "Phone number must be exactly 10 digits."
	case "services":
		if tag == "oneof" {
			return "Please select a valid service."
		}
		return "Please select at least one service."
	case "date":
		if tag == "required" {
			return "A date is required."
		}
		return "Please enter a valid date."
	case "time":
		return "Please select a time."
	}
	return fmt.Sprintf("%s is invalid", field)
}
