package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Brianmulinge/wanderi/consultation"
	"github.com/pkg/errors"
)

// State is the submission lifecycle of a booking form.
type State int

const (
	// Idle accepts edits; submit runs local validation first.
	Idle State = iota
	// Submitting has exactly one request in flight; submit is disabled.
	Submitting
	// Succeeded means the request was accepted; fields are back at defaults.
	Succeeded
	// Failed preserves entered values for a retry; any edit returns to Idle.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Receipt is the server's acknowledgement for an accepted request.
type Receipt struct {
	Message string
	ID      string
}

// Submitter delivers a validated request to the consultation endpoint.
type Submitter interface {
	Submit(ctx context.Context, req consultation.Request) (*Receipt, error)
}

var (
	// ErrSubmitInProgress is returned when submit is pressed again while a
	// request is already in flight. No additional network call is made.
	ErrSubmitInProgress = errors.New("a submission is already in progress")

	// ErrFieldsInvalid is returned when local validation fails. The form
	// stays Idle and FieldErrors carries the per-field messages.
	ErrFieldsInvalid = errors.New("one or more fields are invalid")
)

// FailedSubmitMsg is the single retry-prompting message shown for any
// post-submit failure. Transport details never reach the user.
const FailedSubmitMsg = "Sorry, there was an error submitting your request. Please try again or contact us directly."

// Form owns the booking-form state machine: Idle -> Submitting ->
// {Succeeded, Failed}, with Failed falling back to Idle on the next edit.
type Form struct {
	mu sync.Mutex

	submitter Submitter
	now       func() time.Time

	state       State
	values      consultation.Request
	fieldErrors map[string]string
	submitErr   string
	receipt     *Receipt
}

func NewForm(submitter Submitter) *Form {
	return &Form{
		submitter:   submitter,
		now:         time.Now,
		values:      defaultValues(),
		fieldErrors: map[string]string{},
	}
}

func defaultValues() consultation.Request {
	return consultation.Request{ContactMethod: consultation.ContactEmail}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Values() consultation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// FieldErrors returns the per-field messages from the last local validation.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(map[string]string, len(f.fieldErrors))
	for field, msg := range f.fieldErrors {
		errs[field] = msg
	}
	return errs
}

// SubmitError returns the top-level message from the last failed submission.
func (f *Form) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}

// Receipt returns the acknowledgement from the last successful submission.
func (f *Form) Receipt() *Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

// Set updates a single field. Editing after a failure moves the form back to
// Idle. Switching the contact method clears the now-irrelevant contact value
// along with its error so a stale phone never rides along on an email request.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.beginEdit()

	switch field {
	case "name":
		f.values.Name = value
	case "age":
		f.values.Age = value
	case "contactMethod":
		if f.values.ContactMethod != value {
			switch value {
			case consultation.ContactEmail:
				f.values.Phone = ""
				delete(f.fieldErrors, "phone")
			case consultation.ContactPhone:
				f.values.Email = ""
				delete(f.fieldErrors, "email")
			}
		}
		f.values.ContactMethod = value
	case "email":
		f.values.Email = value
	case "phone":
		f.values.Phone = value
	case "date":
		f.values.Date = value
	case "time":
		f.values.Time = value
	}
}

// SetServices replaces the selected-services set.
func (f *Form) SetServices(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.beginEdit()
	f.values.Services = append([]string(nil), codes...)
}

func (f *Form) beginEdit() {
	if f.state == Failed || f.state == Succeeded {
		f.state = Idle
		f.submitErr = ""
	}
}

// Submit runs local validation and, if it passes, performs exactly one
// network call. While a call is in flight further submits are rejected
// without touching the network. A success resets the form to defaults;
// a failure keeps everything the user typed so they can retry.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	f.fieldErrors = f.localValidation()
	if len(f.fieldErrors) > 0 {
		f.state = Idle
		f.mu.Unlock()
		return ErrFieldsInvalid
	}

	f.state = Submitting
	values := f.values
	f.mu.Unlock()

	receipt, err := f.submitter.Submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = Failed
		f.submitErr = FailedSubmitMsg
		return err
	}

	f.state = Succeeded
	f.receipt = receipt
	f.submitErr = ""
	f.values = defaultValues()
	return nil
}

// localValidation applies the shared schema plus the two picker constraints
// the server doesn't re-enforce: the date may not be before yesterday, and
// the time must be one of the offered slots.
func (f *Form) localValidation() map[string]string {
	fieldErrs := map[string]string{}

	if err := consultation.Validate(f.values); err != nil {
		var vErr *consultation.ValidationError
		if !errors.As(err, &vErr) {
			fieldErrs["form"] = err.Error()
			return fieldErrs
		}
		for _, fe := range vErr.Fields {
			if _, taken := fieldErrs[fe.Field]; !taken {
				fieldErrs[fe.Field] = fe.Message
			}
		}
	}

	if _, taken := fieldErrs["date"]; !taken && f.values.Date != "" {
		if date, err := time.Parse(consultation.DateLayout, f.values.Date); err == nil {
			yesterday := f.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
			if date.Before(yesterday) {
				fieldErrs["date"] = "Please pick a date that isn't in the past."
			}
		}
	}

	if _, taken := fieldErrs["time"]; !taken && strings.TrimSpace(f.values.Time) != "" {
		if !consultation.IsTimeSlot(f.values.Time) {
			fieldErrs["time"] = "Please select a time."
		}
	}

	return fieldErrs
}
