package mc

import (
	"fmt"

	scup "github.com/rcote98/ezSCUP"
)

// Message constants for the errors produced by this package.
const (
	ConfNotSimulated  = "configuration has not been simulated"
	NotEnoughPartials = "no partial restart files past the equilibration threshold"
	BadPartialName    = "can't parse step number from partial filename"
	BadParameterList  = "invalid sweep parameter list"
)

// Error is the general structure for sweep and configuration errors. It
// fulfills scup.Error.
type Error struct {
	message  string
	path     string // the folder or file with problems, or empty string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.path == "" {
		return fmt.Sprintf("mc error: %s", err.message)
	}
	return fmt.Sprintf("mc error in %s: %s", err.path, err.message)
}

// Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	// Not a pointer receiver, but deco is a slice, hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Message returns the message constant the error was built from.
func (err Error) Message() string { return err.message }

// Path returns the folder or file the failing operation was associated to.
func (err Error) Path() string { return err.path }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

// errDecorate asserts that the error implements scup.Error and decorates it
// with the caller's name before returning it. Other errors pass through.
func errDecorate(err error, caller string) error {
	err2, ok := err.(scup.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
