package main

import (
	"fmt"
	"io"

	"bfc/internal/fileinput"
	"bfc/internal/flushio"
)

// ioCore owns a translation's streams: the source being scanned, the
// sink collecting assembly text, and any closers adopted along the
// way. Closers are closed in reverse order.
type ioCore struct {
	in  *fileinput.Input
	out flushio.WriteFlusher

	logfn   func(mess string, args ...interface{})
	closers []io.Closer
}

func (core *ioCore) Close() (err error) {
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (core ioCore) logf(mess string, args ...interface{}) {
	if core.logfn != nil {
		core.logfn(mess, args...)
	}
}

// halt aborts the translation, first flushing the sink so that any
// buffered lines still land, then panics; the recovery in Run turns
// that into the returned error.
func (core *ioCore) halt(err error) {
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()
	func() {
		defer func() { recover() }()
		core.logf("halt: %v", err)
	}()
	panic(haltError{err})
}

func (core *ioCore) haltif(err error) {
	if err != nil {
		core.halt(err)
	}
}

// emit appends lines to the sink in order, newline terminated.
func (core *ioCore) emit(lines []string) {
	for _, line := range lines {
		if _, err := io.WriteString(core.out, line); err != nil {
			core.halt(err)
		}
		if _, err := core.out.Write(newline); err != nil {
			core.halt(err)
		}
	}
}

var newline = []byte{'\n'}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }
