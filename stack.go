package main

import "bfc/internal/fileinput"

// Loop stack sizing. Growth multiplies capacity by stackGrowthFactor
// rounding down, but always advances by at least one slot.
const (
	stackSize         = 1024
	stackGrowthFactor = 1.1
)

// openLoop records a loop opened by '[' and not yet closed: the label
// naming its begin/end markers, and where it was opened for reporting
// if it never closes.
type openLoop struct {
	lbl label
	loc fileinput.Location
}

// loopStack tracks currently open loops, innermost last. LIFO order
// is the only thing pairing each ']' with its matching '['.
type loopStack struct {
	open []openLoop
}

func makeLoopStack(size int) loopStack {
	return loopStack{open: make([]openLoop, 0, size)}
}

func (st *loopStack) push(ol openLoop) {
	if len(st.open) == cap(st.open) {
		st.grow()
	}
	st.open = append(st.open, ol)
}

func (st *loopStack) grow() {
	size := int(float64(cap(st.open)) * stackGrowthFactor)
	if size <= cap(st.open) {
		size = cap(st.open) + 1
	}
	grown := make([]openLoop, len(st.open), size)
	copy(grown, st.open)
	st.open = grown
}

func (st *loopStack) pop() (openLoop, bool) {
	if i := len(st.open) - 1; i >= 0 {
		ol := st.open[i]
		st.open = st.open[:i]
		return ol, true
	}
	return openLoop{}, false
}

func (st *loopStack) depth() int { return len(st.open) }
