package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"bfc/internal/fileinput"
	"bfc/internal/logio"
	"bfc/internal/panicerr"
)

type bfTestCases []bfTestCase

func (bfts bfTestCases) run(t *testing.T) {
	{
		var exclusive []bfTestCase
		for _, bft := range bfts {
			if bft.exclusive {
				exclusive = append(exclusive, bft)
			}
		}
		if len(exclusive) > 0 {
			bfts = exclusive
		}
	}
	for _, bft := range bfts {
		if !t.Run(bft.name, bft.run) {
			return
		}
	}
}

func bfTest(name string) (bft bfTestCase) {
	bft.name = name
	bft.cells = 4096
	return bft
}

type bfTestCase struct {
	name    string
	opts    []interface{}
	ops     []func(tr *Translator)
	expect  []func(t *testing.T, tr *Translator)
	timeout time.Duration
	wantErr error
	cells   uint
	out     *strings.Builder

	exclusive bool
}

func (bft bfTestCase) apply(wraps ...func(bfTestCase) bfTestCase) bfTestCase {
	for _, wrap := range wraps {
		bft = wrap(bft)
	}
	return bft
}

func (bft bfTestCase) exclusiveTest() bfTestCase {
	bft.exclusive = true
	return bft
}

func (bft bfTestCase) withOptions(opts ...Option) bfTestCase {
	for _, opt := range opts {
		bft.opts = append(bft.opts, opt)
	}
	return bft
}

func (bft bfTestCase) withSource(source string) bfTestCase {
	bft.opts = append(bft.opts, func(bft *bfTestCase, t *testing.T) Option {
		name := t.Name() + "/source"
		return WithInput(fileinput.NamedReader(name, strings.NewReader(source)))
	})
	return bft
}

func (bft bfTestCase) withNamedSource(name string, source string) bfTestCase {
	bft.opts = append(bft.opts, func(bft *bfTestCase, t *testing.T) Option {
		return WithInput(fileinput.NamedReader(name, strings.NewReader(source)))
	})
	return bft
}

func (bft bfTestCase) withCells(cells uint) bfTestCase {
	bft.cells = cells
	bft.opts = append(bft.opts, WithCells(cells))
	return bft
}

func (bft bfTestCase) do(ops ...func(tr *Translator)) bfTestCase {
	bft.ops = append(bft.ops, ops...)
	return bft
}

func (bft bfTestCase) withTimeout(timeout time.Duration) bfTestCase {
	bft.timeout = timeout
	return bft
}

func (bft bfTestCase) withTestOutput() bfTestCase {
	bft.opts = append(bft.opts, func(bft *bfTestCase, t *testing.T) Option {
		return WithTee(&logio.Writer{Logf: t.Logf, Prefix: "out: "})
	})
	return bft
}

func (bft bfTestCase) expectError(err error) bfTestCase {
	bft.wantErr = err
	return bft
}

func (bft bfTestCase) expectLoop(l label) bfTestCase {
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		assert.Equal(t, l, tr.loop, "expected label counter")
	})
	return bft
}

func (bft bfTestCase) expectDepth(depth int) bfTestCase {
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		assert.Equal(t, depth, tr.stack.depth(), "expected open loop depth")
	})
	return bft
}

func (bft bfTestCase) expectOutput(output string) bfTestCase {
	out := bft.capture()
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return bft
}

func (bft bfTestCase) expectLines(parts ...string) bfTestCase {
	out := bft.capture()
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		if diff := cmp.Diff(lines(parts...), out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})
	return bft
}

// expectBody wraps the given instruction lines in the standard
// prologue and epilogue for this case's cell count; withCells must
// come first when both are used.
func (bft bfTestCase) expectBody(parts ...string) bfTestCase {
	full := append(prologueLines(bft.cells), parts...)
	full = append(full, epilogueLines()...)
	return bft.expectLines(full...)
}

func (bft bfTestCase) expectContains(part string) bfTestCase {
	out := bft.capture()
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		assert.Contains(t, out.String(), part, "expected output fragment")
	})
	return bft
}

func (bft bfTestCase) expectNotContains(part string) bfTestCase {
	out := bft.capture()
	bft.expect = append(bft.expect, func(t *testing.T, tr *Translator) {
		assert.NotContains(t, out.String(), part, "unexpected output fragment")
	})
	return bft
}

// capture wires a shared sink builder into the case the first time an
// output expectation asks for one.
func (bft *bfTestCase) capture() *strings.Builder {
	if bft.out == nil {
		bft.out = &strings.Builder{}
		bft.opts = append(bft.opts, WithOutput(bft.out))
	}
	return bft.out
}

func (bft bfTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Now().Sub(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		bft.runTranslateTest(context.Background(), t, bft.build(t))
	}) {
		tr := bft.build(t)
		WithLogf(t.Logf).apply(tr)
		bft.runTranslateTest(context.Background(), t, tr)
	}
}

func (bft bfTestCase) runTranslateTest(ctx context.Context, t *testing.T, tr *Translator) {
	const defaultTimeout = time.Second
	timeout := bft.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			bft.dumpToTest(t, tr)
		}
	}()

	if err := bft.runTranslate(ctx, tr); bft.wantErr != nil {
		assert.True(t, errors.Is(err, bft.wantErr), "expected error: %v\ngot: %+v", bft.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected translate error")
	}

	if !t.Failed() {
		for _, expect := range bft.expect {
			expect(t, tr)
		}
	}
}

func (bft bfTestCase) runTranslate(ctx context.Context, tr *Translator) (rerr error) {
	defer func() {
		if err := tr.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("translator close failed: %w", err)
		}
	}()

	if len(bft.ops) == 0 {
		return tr.Run(ctx)
	}

	names := make([]string, len(bft.ops))
	for i, op := range bft.ops {
		names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	}
	return panicerr.Recover("bfTestCase.ops", func() error {
		for i, op := range bft.ops {
			tr.logf("do[%v] %v", i, names[i])
			op(tr)
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (bft bfTestCase) build(t *testing.T) *Translator {
	if bft.out != nil {
		bft.out.Reset()
	}

	opts := make([]Option, 0, len(bft.opts))
	for _, o := range bft.opts {
		switch impl := o.(type) {
		case func(bft *bfTestCase, t *testing.T) Option:
			opts = append(opts, impl(&bft, t))
		case Option:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported bfTestCase opt type %T", o)
			t.FailNow()
		}
	}
	return New(opts...)
}

func (bft bfTestCase) dumpToTest(t *testing.T, tr *Translator) {
	t.Logf("loop=%v depth=%v", tr.loop, tr.stack.depth())
	if bft.out != nil && bft.out.Len() > 0 {
		for i, line := range strings.Split(strings.TrimSuffix(bft.out.String(), "\n"), "\n") {
			t.Logf("out[%v]: %s", i+1, line)
		}
	}
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func prologueLines(cells uint) []string {
	return []string{
		".intel_syntax noprefix",
		".section .bss",
		fmt.Sprintf("\t.lcomm cells, %d", cells),
		".section .text",
		".globl _start",
		"_start:",
		"\tmov edi, OFFSET cells",
	}
}

func epilogueLines() []string {
	return []string{
		"mov eax, 1",
		"mov ebx, 0",
		"int 0x80",
	}
}
