package main

import "fmt"

// label identifies one loop nesting instance. Labels are allocated in
// strictly increasing source order of '[' and never reused within a
// compilation, so every loop owns a distinct begin/end marker pair.
type label uint

// dialect renders the fixed instruction template behind each source
// symbol, plus the framing around the program body. The translator
// owns all control state (label allocation, loop stack discipline); a
// dialect owns only text. Separating the two keeps the fold testable
// against a stub dialect and leaves room to retarget without touching
// the scan.
type dialect interface {
	prologue(cells uint) []string
	next() []string
	prev() []string
	incr() []string
	decr() []string
	comma() []string
	dot() []string
	loopOpen(l label) []string
	loopClose(l label) []string
	epilogue() []string
}

// ia32 emits Intel-syntax GNU as text for 32-bit x86 Linux. Cells are
// dwords in a .bss block, edi is the cell pointer, and the generated
// program does its I/O by direct int 0x80 system calls with no
// runtime library.
type ia32 struct{}

func (ia32) prologue(cells uint) []string {
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

func (ia32) next() []string { return []string{"\tadd edi, 4"} }
func (ia32) prev() []string { return []string{"\tsub edi, 4"} }
func (ia32) incr() []string { return []string{"\tinc DWORD PTR [edi]"} }
func (ia32) decr() []string { return []string{"\tdec DWORD PTR [edi]"} }

// comma transfers one byte through system call 3 on descriptor 0, dot
// through system call 4 on descriptor 1. Generated programs depend on
// this exact symbol to system-call pairing; it must never be
// reshuffled to chase naming convention.
func (ia32) comma() []string {
	return []string{
		"\tmov eax, 3",
		"\tmov ebx, 0",
		"\tmov ecx, edi",
		"\tmov edx, 1",
		"\tint 0x80",
	}
}

func (ia32) dot() []string {
	return []string{
		"\tmov eax, 4",
		"\tmov ebx, 1",
		"\tmov ecx, edi",
		"\tmov edx, 1",
		"\tint 0x80",
	}
}

func (ia32) loopOpen(l label) []string {
	return []string{
		"\tcmp DWORD PTR [edi], 0",
		fmt.Sprintf("\tjz .LE%d", l),
		fmt.Sprintf(".LB%d:", l),
	}
}

func (ia32) loopClose(l label) []string {
	return []string{
		"\tcmp DWORD PTR [edi], 0",
		fmt.Sprintf("\tjnz .LB%d", l),
		fmt.Sprintf(".LE%d:", l),
	}
}

func (ia32) epilogue() []string {
	return []string{
		"mov eax, 1",
		"mov ebx, 0",
		"int 0x80",
	}
}
