package servo

import "errors"

var (
	ErrInvalidCalibration = errors.New("invalid calibration")
	ErrInvalidPin         = errors.New("invalid pin")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrUnknownOutput      = errors.New("unknown pulse output")
)

// FieldError names the configuration field a validation error refers to.
type FieldError struct {
	Field string
	Msg   string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Msg != "" {
		return e.Err.Error() + ": " + e.Field + " " + e.Msg
	}
	return e.Err.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error { return e.Err }

func invalid(err error, field, msg string) error {
	return &FieldError{Field: field, Msg: msg, Err: err}
}

// SetupError reports which hardware configuration step failed.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string { return "setup " + e.Step + ": " + e.Err.Error() }

func (e *SetupError) Unwrap() error { return e.Err }
