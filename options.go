package main

import (
	"bytes"
	"io"

	"bfc/internal/fileinput"
	"bfc/internal/flushio"
)

// Option configures a Translator under construction.
type Option interface{ apply(t *Translator) }

var defaults = []Option{
	inputOption{bytes.NewReader(nil)},
	outputOption{io.Discard},
	cellsOption(4096),
	dialectOption{ia32{}},
}

func (t *Translator) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(t)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type cellsOption uint
type dialectOption struct{ dialect }
type logfnOption func(mess string, args ...interface{})

func withDialect(d dialect) Option { return dialectOption{d} }

func (i inputOption) apply(t *Translator) {
	t.in = fileinput.New(i.Reader)
}

func (o outputOption) apply(t *Translator) {
	if t.out != nil {
		t.out.Flush()
	}
	t.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(t *Translator) {
	t.out = flushio.WriteFlushers(t.out, flushio.NewWriteFlusher(o.Writer))
	if cl, ok := o.Writer.(io.Closer); ok {
		t.closers = append(t.closers, cl)
	}
}

func (n cellsOption) apply(t *Translator) { t.cells = uint(n) }

func (d dialectOption) apply(t *Translator) { t.isa = d.dialect }

func (logfn logfnOption) apply(t *Translator) { t.logfn = logfn }
