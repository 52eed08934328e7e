package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/tebeka/atexit"

	"bfc/internal/logio"
)

// stage is how far the driver takes a compilation; later stages imply
// the earlier ones.
type stage int

const (
	stageCompile  stage = iota // translate to assembly text
	stageAssemble              // assemble into an object file
	stageLink                  // link into an executable
)

func (s stage) String() string {
	switch s {
	case stageCompile:
		return "compile"
	case stageAssemble:
		return "assemble"
	case stageLink:
		return "link"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// driver turns one source file into the requested artifact: assembly
// text, an object file, or a linked executable. The final stage's
// artifact takes the out name; intermediates are named from the
// source and removed once the next stage has consumed them.
type driver struct {
	target stage
	in     string
	out    string // final artifact name; "" picks the stage default
	cells  uint
	tools  toolchain
	logfn  func(mess string, args ...interface{})
}

// toolchain assembles and links on behalf of the driver, so the
// pipeline can be tested without spawning processes.
type toolchain interface {
	assemble(ctx context.Context, obj, asm string) error
	link(ctx context.Context, bin, obj string) error
}

func (d *driver) run(ctx context.Context) error {
	if d.cells == 0 {
		return cellCountError(d.cells)
	}

	asmName := replaceExt(d.in, "s")
	if d.target == stageCompile && d.out != "" {
		asmName = d.out
	}
	d.logf("%v %v -> %v", stageCompile, d.in, asmName)
	if err := d.compile(ctx, asmName); err != nil {
		return err
	}
	if d.target == stageCompile {
		return nil
	}

	objName := replaceExt(d.in, "o")
	if d.target == stageAssemble && d.out != "" {
		objName = d.out
	}
	d.logf("%v %v -> %v", stageAssemble, asmName, objName)
	remove := removeLater(asmName)
	err := d.tools.assemble(ctx, objName, asmName)
	remove()
	if err != nil {
		return fmt.Errorf("assemble %v: %w", asmName, err)
	}
	if d.target == stageAssemble {
		return nil
	}

	binName := d.out
	if binName == "" {
		binName = "a.out"
	}
	d.logf("%v %v -> %v", stageLink, objName, binName)
	remove = removeLater(objName)
	err = d.tools.link(ctx, binName, objName)
	remove()
	if err != nil {
		return fmt.Errorf("link %v: %w", objName, err)
	}
	return nil
}

// compile opens the source and sink streams around one Translator
// run, releasing both on every path.
func (d *driver) compile(ctx context.Context, asmName string) error {
	src, err := os.Open(d.in)
	if err != nil {
		return err
	}
	defer src.Close()

	sink, err := os.Create(asmName)
	if err != nil {
		return err
	}

	t := New(
		WithInput(src),
		WithOutput(sink),
		WithCells(d.cells),
		WithLogf(d.logfn),
	)
	err = t.Run(ctx)
	if cerr := t.Close(); err == nil {
		err = cerr
	}
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *driver) logf(mess string, args ...interface{}) {
	if d.logfn != nil {
		d.logfn(mess, args...)
	}
}

// removeLater schedules removal of an intermediate file: immediately
// through the returned func, or at process exit if a failure path
// gets there first. Removal happens once either way.
func removeLater(name string) func() {
	var once sync.Once
	remove := func() { once.Do(func() { os.Remove(name) }) }
	atexit.Register(remove)
	return remove
}

// replaceExt rebuilds name with everything after its last dot, or
// nothing, replaced by ext.
func replaceExt(name, ext string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name + "." + ext
}

// execTools drives the system assembler and linker. Tool output goes
// to the parent's streams, or through the log when one is wired.
type execTools struct {
	logfn func(mess string, args ...interface{})
}

func (et execTools) assemble(ctx context.Context, obj, asm string) error {
	return et.run(ctx, "as", "-o", obj, asm)
}

func (et execTools) link(ctx context.Context, bin, obj string) error {
	return et.run(ctx, "ld", "-o", bin, obj)
}

func (et execTools) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if et.logfn != nil {
		out := &logio.Writer{Logf: et.logfn, Prefix: name + ": "}
		defer out.Close()
		cmd.Stdout = out
		cmd.Stderr = out
		et.logfn("run %v %v", name, strings.Join(args, " "))
	}
	return cmd.Run()
}
