package main

import (
	"context"
	"fmt"
	"io"

	"bfc/internal/fileinput"
)

// Translator performs one streaming pass over a Brainfuck source,
// appending the translated instruction lines to its sink as each
// symbol arrives. The only state carried across symbols is the label
// counter and the stack of open loops, both owned exclusively by this
// value, so separate Translators never interfere.
type Translator struct {
	ioCore
	isa dialect

	cells uint
	loop  label
	stack loopStack
}

// run is one whole compilation: frame prologue, fold the source one
// byte at a time, then frame the epilogue if every loop was closed.
// Emission is strictly streaming; nothing is buffered beyond the
// sink's own buffer and nothing emitted is ever revisited.
func (t *Translator) run(ctx context.Context) error {
	if t.cells == 0 {
		return cellCountError(t.cells)
	}

	t.emit(t.isa.prologue(t.cells))
	for {
		t.haltif(ctx.Err())

		b, err := t.in.ReadByte()
		if err == io.EOF {
			break
		}
		t.haltif(err)

		if op := symbolOps[b]; op != nil {
			t.logf("%v %q depth=%v", t.in.Loc(), b, t.stack.depth())
			op(t)
		}
	}

	if ol, ok := t.stack.pop(); ok {
		t.halt(unmatchedError{sym: '[', loc: ol.loc, open: t.stack.depth() + 1})
	}
	t.emit(t.isa.epilogue())
	return t.out.Flush()
}

// symbolOps dispatches the eight recognized symbols; every other byte
// is inert.
var symbolOps [256]func(t *Translator)

func init() {
	symbolOps['>'] = (*Translator).next
	symbolOps['<'] = (*Translator).prev
	symbolOps['+'] = (*Translator).incr
	symbolOps['-'] = (*Translator).decr
	symbolOps[','] = (*Translator).comma
	symbolOps['.'] = (*Translator).dot
	symbolOps['['] = (*Translator).loopOpen
	symbolOps[']'] = (*Translator).loopClose
}

// next and prev move the generated program's cell pointer one cell
// width forward or back.
func (t *Translator) next() { t.emit(t.isa.next()) }
func (t *Translator) prev() { t.emit(t.isa.prev()) }

// incr and decr adjust the integer in the current cell.
func (t *Translator) incr() { t.emit(t.isa.incr()) }
func (t *Translator) decr() { t.emit(t.isa.decr()) }

// comma and dot emit the generated program's one-byte kernel
// transfers; the symbol to system-call pairing is fixed by the
// dialect.
func (t *Translator) comma() { t.emit(t.isa.comma()) }
func (t *Translator) dot()   { t.emit(t.isa.dot()) }

// loopOpen allocates the next label, pushes it along with the '['
// location, and emits the zero-test entry branch and begin marker.
func (t *Translator) loopOpen() {
	t.loop++
	ol := openLoop{lbl: t.loop, loc: t.in.Loc()}
	t.stack.push(ol)
	t.logf("open .LB%d depth=%v", ol.lbl, t.stack.depth())
	t.emit(t.isa.loopOpen(ol.lbl))
}

// loopClose pops the innermost open loop and emits its backward
// branch and end marker. A ']' with nothing to pop is a structural
// error: the program is not well-formed.
func (t *Translator) loopClose() {
	ol, ok := t.stack.pop()
	if !ok {
		t.halt(unmatchedError{sym: ']', loc: t.in.Loc()})
	}
	t.logf("close .LB%d depth=%v", ol.lbl, t.stack.depth())
	t.emit(t.isa.loopClose(ol.lbl))
}

// unmatchedError reports a program that is not well-formed: either a
// ']' that closes nothing, or one or more '[' still open at end of
// input. For the latter, loc names the innermost unclosed '[' and
// open counts how many were left.
type unmatchedError struct {
	sym  byte
	loc  fileinput.Location
	open int
}

func (err unmatchedError) Error() string {
	if err.sym == '[' && err.open > 1 {
		return fmt.Sprintf("unmatched %q at %v (%v loops left open)", err.sym, err.loc, err.open)
	}
	return fmt.Sprintf("unmatched %q at %v", err.sym, err.loc)
}

// cellCountError rejects a cell array size before translation begins.
type cellCountError uint

func (n cellCountError) Error() string {
	return fmt.Sprintf("invalid cell count %v", uint(n))
}
