package scup

import "fmt"

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
// Each call returns the current decoration slice; passing an empty string
// only retrieves it.
type Error interface {
	Error() string
	Decorate(string) []string
}

// Message constants for the errors produced by this package. Code that needs
// to tell the failure modes apart should compare against these through the
// Message method of CError.
const (
	GeometryNotMatching = "geometry in file does not match the target supercell"
	WrongFormat         = "wrong format in geometry file"
	PositionsNotLoaded  = "no reference positions have been loaded"
	NotEnoughPartials   = "no partial restart files given to average"
	UnableToOpen        = "unable to open file"
)

// CError is the concrete error type of the scup package. It fulfills the
// Error interface.
type CError struct {
	message  string
	filename string // the offending file, or empty string if none
	deco     []string
	critical bool
}

func (err CError) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("scup error: %s", err.message)
	}
	return fmt.Sprintf("scup file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error.
func (err CError) Decorate(deco string) []string {
	// Not a pointer receiver, but deco is a slice, hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Message returns the message constant the error was built from.
func (err CError) Message() string { return err.message }

// FileName returns the file to which the failing operation was associated.
func (err CError) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise.
func (err CError) Critical() bool { return err.critical }

// errDecorate asserts that the error implements Error and decorates it with
// the caller's name before returning it. If used with any other error it
// just returns the error.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
