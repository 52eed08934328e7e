package fileinput

import (
	"bufio"
	"fmt"
	"io"
)

// Location names a byte position in an Input stream.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }

// Input reads a stream one byte at a time, tracking the Location of
// the byte most recently read to facilitate user feedback.
type Input struct {
	br   *bufio.Reader
	last Location
	next Location
}

// New creates an Input around r, taking the stream name from a
// Name() string method if r has one, as *os.File does.
func New(r io.Reader) *Input { return Named(nameOf(r), r) }

// Named creates an Input around r under the given stream name.
func Named(name string, r io.Reader) *Input {
	return &Input{
		br:   bufio.NewReader(r),
		next: Location{Name: name, Line: 1, Col: 1},
	}
}

// ReadByte reads the next byte, advancing location tracking; every
// byte counts one column, line feeds start the next line.
func (in *Input) ReadByte() (byte, error) {
	b, err := in.br.ReadByte()
	if err != nil {
		return 0, err
	}
	in.last = in.next
	if b == '\n' {
		in.next.Line++
		in.next.Col = 1
	} else {
		in.next.Col++
	}
	return b, nil
}

// Loc returns the location of the byte most recently read.
func (in *Input) Loc() Location { return in.last }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// NamedReader wraps r so that New will pick up the given stream name,
// as it would from an *os.File.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{name, r}
}

type namedReader struct {
	name string
	io.Reader
}

func (nr namedReader) Name() string { return nr.name }
