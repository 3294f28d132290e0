// Package validation carries field-keyed validation errors across the
// service and HTTP layers.
package validation

// Error is one rejected field with a stable machine-readable code.
type Error struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Errors aggregates every rejection found by a validation pipeline.
type Errors struct {
	Errors []Error `json:"errors"`
}

func (e *Errors) Error() string {
	return "validation error"
}

// Add appends one rejection.
func (e *Errors) Add(field, code, message string) {
	e.Errors = append(e.Errors, Error{Field: field, Code: code, Message: message})
}

// Empty reports whether no rejection was collected.
func (e *Errors) Empty() bool {
	return len(e.Errors) == 0
}

// ErrOrNil returns the collection as an error, or nil when empty.
func (e *Errors) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// New builds a single-entry validation error.
func New(field, code, message string) *Errors {
	errs := &Errors{}
	errs.Add(field, code, message)
	return errs
}
