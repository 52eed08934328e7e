package main

import (
	"context"
	"errors"
	"io"

	"bfc/internal/panicerr"
)

// New creates a Translator with the given options applied over the
// defaults: source from an empty reader, assembly discarded, 4096
// cell bytes.
func New(opts ...Option) *Translator {
	t := Translator{stack: makeLoopStack(stackSize)}
	t.apply(defaults...)
	t.apply(opts...)
	return &t
}

// Run consumes the source completely, writing the translated program
// to the sink. Internal halts, panics, and write failures all surface
// as the returned error.
func (t *Translator) Run(ctx context.Context) error {
	err := panicerr.Recover("translate", func() error {
		return t.run(ctx)
	})
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	}
	return err
}

func WithInput(r io.Reader) Option  { return inputOption{r} }
func WithOutput(w io.Writer) Option { return outputOption{w} }
func WithTee(w io.Writer) Option    { return teeOption{w} }
func WithCells(n uint) Option       { return cellsOption(n) }

func WithLogf(logfn func(mess string, args ...interface{})) Option { return logfnOption(logfn) }
