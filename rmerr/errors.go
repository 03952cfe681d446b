//Package rmerr contains the error type shared by all rmatrix packages.
//It lives in its own package so the engine sub-packages and the root
//package can report the same kinds of failure without circular imports.
package rmerr

import (
	"fmt"
	"math"
	"strings"
)

//Kind classifies an Error. Kinds are also errors, so they can be
//used as targets for errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	//ErrConfiguration marks malformed or inconsistent input.
	ErrConfiguration = Kind("rmatrix: configuration error")
	//ErrUnsupported marks a configuration the engine explicitly does not
	//implement (e.g. an orbital angular momentum with no formula). It is
	//also a configuration error.
	ErrUnsupported = Kind("rmatrix: unsupported configuration")
	//ErrInstability marks a level matrix that can't be inverted to tolerance.
	ErrInstability = Kind("rmatrix: numerical instability")
	//ErrInvariant marks a failed unitarity, additivity or positivity check.
	ErrInvariant = Kind("rmatrix: invariant violation")
)

//Error is the error returned by all rmatrix functions.
//The Decorate method allows to add information about the call stack
//without wrapping the error in something else.
type Error struct {
	message  string
	kind     Kind
	field    string  //the offending input field, if any.
	energy   float64 //NaN if the error is not tied to a grid energy.
	channel  int     //-1 if the error is not tied to a channel.
	deco     []string
	critical bool
}

//New returns an error of the given kind. Use the With* methods
//to attach context.
func New(kind Kind, format string, a ...interface{}) *Error {
	return &Error{
		message:  fmt.Sprintf(format, a...),
		kind:     kind,
		energy:   math.NaN(),
		channel:  -1,
		critical: kind != ErrConfiguration && kind != ErrUnsupported,
	}
}

//Config is a shortcut for a configuration error on the given field.
func Config(field, format string, a ...interface{}) *Error {
	return New(ErrConfiguration, format, a...).WithField(field)
}

//Unsupported is a shortcut for an unsupported-configuration error on the given field.
func Unsupported(field, format string, a ...interface{}) *Error {
	return New(ErrUnsupported, format, a...).WithField(field)
}

//WithField sets the name of the offending input field and returns the receiver.
func (err *Error) WithField(f string) *Error {
	err.field = f
	return err
}

//WithEnergy sets the grid energy, in eV, at which the failure happened.
func (err *Error) WithEnergy(e float64) *Error {
	err.energy = e
	return err
}

//WithChannel sets the index of the channel involved in the failure.
func (err *Error) WithChannel(c int) *Error {
	err.channel = c
	return err
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(err.kind))
	if err.field != "" {
		b.WriteString(" [" + err.field + "]")
	}
	if !math.IsNaN(err.energy) {
		fmt.Fprintf(&b, " at E=%g eV", err.energy)
	}
	if err.channel >= 0 {
		fmt.Fprintf(&b, " channel %d", err.channel)
	}
	b.WriteString(": " + err.message)
	if len(err.deco) > 0 {
		b.WriteString(" (" + strings.Join(err.deco, " <- ") + ")")
	}
	return b.String()
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. An empty dec just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error makes the results unusable.
//Configuration errors are not critical: nothing was computed.
func (err *Error) Critical() bool { return err.critical }

//Kind returns the kind of the error.
func (err *Error) Kind() Kind { return err.kind }

//Field returns the offending input field, or an empty string.
func (err *Error) Field() string { return err.field }

//Energy returns the grid energy tied to the error, and whether there is one.
func (err *Error) Energy() (float64, bool) { return err.energy, !math.IsNaN(err.energy) }

//Channel returns the channel index tied to the error, or -1.
func (err *Error) Channel() int { return err.channel }

//Is allows errors.Is to match an Error against its Kind.
//An unsupported-configuration error also matches ErrConfiguration.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	if k == err.kind {
		return true
	}
	return k == ErrConfiguration && err.kind == ErrUnsupported
}

//Decorate is a helper function that decorates err with the caller's name
//if err is an *Error, and returns it unchanged otherwise.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
	}
	return err
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape           = PanicMsg("rmatrix: dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("rmatrix: index out of range")
	ErrNotBuilt        = PanicMsg("rmatrix: spin group has no computed state")
	ErrUnsupportedL    = PanicMsg("rmatrix: no formula for this orbital angular momentum")
)
