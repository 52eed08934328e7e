/* Package main: bfc -- a Brainfuck compiler

Brainfuck is an eight-symbol language operating on an array of integer
cells through a single movable pointer. Two symbols move the pointer
(> and <), two adjust the current cell (+ and -), two transfer one
byte between the current cell and the outside world (, and .), and two
bracket loops ([ and ]) that repeat while the current cell is nonzero.
Every other byte of a source file is a comment.

That is the whole language, and it compiles without any cleverness:
each symbol expands to a fixed handful of instructions, so compilation
is a single streaming pass that never looks ahead and never revisits
what it already wrote. The one real data structure is the loop stack.
Each '[' allocates the next label from a counter and pushes it; the
']' that matches it -- and LIFO order is the entire matching
algorithm -- pops the label and emits the backward branch. A ']' with
nothing to pop, or a '[' still on the stack at end of input, means the
program is not well-formed, which is reported rather than guessed
around. The stack starts at a modest fixed capacity and grows by ten
percent (at least one slot) when a program nests deeper.

The emitted text is Intel-syntax assembly for 32-bit x86 Linux as GNU
as accepts it. Cells are dwords in a zeroed .bss block, edi holds the
cell pointer, and the generated program talks to the kernel directly
through int 0x80 -- one system call per , or . symbol and one to exit
-- so the result links standalone with no runtime library beneath it.
The translation scan lives in translate.go; the instruction text per
symbol lives behind a small dialect interface in emit.go, which keeps
the scan's label and stack discipline testable on their own.

Around the core, driver.go runs the classic compiler pipeline: write
the assembly, run as over it, run ld over that, removing each
intermediate once the next stage has consumed it. The -S and -c flags
stop the pipeline early, exactly like their cc counterparts; -o names
whichever artifact the last stage produces, with a.out the linked
default. See main.go for the flag surface.

A Translator is built from functional options (WithInput, WithOutput,
WithCells, and friends in options.go and api.go) and driven by Run.
Failures inside the scan halt through a recovered panic and come back
as ordinary errors; see io.go.
*/
package main
