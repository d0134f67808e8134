// This file is part of dlxasm.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm_test

import (
	"testing"

	"github.com/dlxtools/dlxasm/asm"
)

func newAssembler(t *testing.T) *asm.Assembler {
	t.Helper()
	return asm.NewAssembler(asm.DefaultConfig())
}

func TestAssemble_simple(t *testing.T) {
	a := newAssembler(t)
	src := `
	.text
start:	add r1, r2, r3
	addi r1, r1, -1
	j start
`
	prog, err := a.Assemble("simple", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(prog.Cells))
	}
	for i, c := range prog.Cells {
		want := uint32(i * 4)
		if c.Address() != want {
			t.Errorf("cell %d: address = %#x, want %#x", i, c.Address(), want)
		}
	}
}

func TestAssemble_labelResolution(t *testing.T) {
	a := newAssembler(t)
	src := `
	.text
	j done
	nop
done:	nop
`
	prog, err := a.Assemble("labels", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jcell, ok := prog.Cells[0].(*asm.InstructionCell)
	if !ok {
		t.Fatalf("cell 0 is not an instruction cell: %T", prog.Cells[0])
	}
	// done is at address 8; pc-relative from address 0 is 8-(0+4) = 4.
	if jcell.Immediate != 4 {
		t.Errorf("j target = %d, want 4", jcell.Immediate)
	}
}

func TestAssemble_labelOnlyLineIsNop(t *testing.T) {
	a := newAssembler(t)
	prog, err := a.Assemble("bareLabel", []byte(".text\nfoo:\n\tj foo\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Cells) != 2 {
		t.Fatalf("expected 2 cells (nop + j), got %d", len(prog.Cells))
	}
	nop, ok := prog.Cells[0].(*asm.InstructionCell)
	if !ok || nop.Source.Opcode != "nop" {
		t.Fatalf("expected label-only line to assemble as nop, got %#v", prog.Cells[0])
	}
}

func TestAssemble_errors(t *testing.T) {
	data := []struct {
		name string
		code string
	}{
		{"undef_label", ".text\n\tj nowhere\n"},
		{"dup_label", ".text\nfoo:\tnop\nfoo:\tnop\n"},
		{"unknown_directive", ".bogus\n"},
		{"bad_register", ".text\n\tadd f1, r2, r3\n"},
		{"missing_operand", ".text\n\tadd r1, r2\n"},
	}
	for _, d := range data {
		a := newAssembler(t)
		_, err := a.Assemble(d.name, []byte(d.code))
		if err == nil {
			t.Errorf("test %s: expected error, got nil", d.name)
			continue
		}
		if _, ok := err.(asm.ErrAsm); !ok {
			t.Errorf("test %s: expected asm.ErrAsm, got %T", d.name, err)
		}
	}
}

func TestAssemble_dataDirectives(t *testing.T) {
	a := newAssembler(t)
	src := `
	.data
vals:	.word 1, 2, 3
	.asciiz "hi"
`
	prog, err := a.Assemble("data", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(prog.Cells))
	}
	str, ok := prog.Cells[3].(*asm.StringCell)
	if !ok {
		t.Fatalf("cell 3 is not a string cell: %T", prog.Cells[3])
	}
	if str.Value != "hi" {
		t.Errorf("string value = %q, want %q", str.Value, "hi")
	}
	if str.Size() != 3 {
		t.Errorf("string size = %d, want 3 (NUL-terminated)", str.Size())
	}
}

func TestAssemble_labelImmediateOperand(t *testing.T) {
	a := newAssembler(t)
	src := `
	.text
	addi r1, r2, target
target:	nop
`
	prog, err := a.Assemble("label3gpr", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addi, ok := prog.Cells[0].(*asm.InstructionCell)
	if !ok {
		t.Fatalf("cell 0 is not an instruction cell: %T", prog.Cells[0])
	}
	if addi.Immediate != 4 {
		t.Errorf("addi immediate = %d, want 4 (target's address)", addi.Immediate)
	}
}

func TestAssemble_offsetLabelOperand(t *testing.T) {
	a := newAssembler(t)
	src := `
	.text
	lw r1, table
	.data
table:	.word 42
`
	prog, err := a.Assemble("offsetlabel", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lw, ok := prog.Cells[0].(*asm.InstructionCell)
	if !ok {
		t.Fatalf("cell 0 is not an instruction cell: %T", prog.Cells[0])
	}
	if lw.Immediate != 0x200 {
		t.Errorf("lw immediate = %#x, want %#x (table's address)", lw.Immediate, 0x200)
	}
	if lw.Rs1 != 0 {
		t.Errorf("lw base register = %d, want 0 (no base given)", lw.Rs1)
	}
}

func TestAssemble_oddDPRIsParseError(t *testing.T) {
	a := newAssembler(t)
	_, err := a.Assemble("odddpr", []byte(".text\n\taddd f1, f2, f4\n"))
	if err == nil {
		t.Fatal("expected parse error for odd double-precision register, got nil")
	}
	if _, ok := err.(asm.ErrAsm); !ok {
		t.Errorf("expected asm.ErrAsm, got %T", err)
	}
}

func TestAssemble_evenDPRIsAccepted(t *testing.T) {
	a := newAssembler(t)
	_, err := a.Assemble("evendpr", []byte(".text\n\taddd f0, f2, f4\n\tmovd f6, f8\n"))
	if err != nil {
		t.Fatalf("unexpected error for even double-precision registers: %v", err)
	}
}

func TestAssemble_misalignedCellWarns(t *testing.T) {
	a := newAssembler(t)
	src := `
	.data
	.asciiz "x"
	.word 1
`
	prog, err := a.Assemble("misaligned", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, w := range prog.Warnings {
		if w.Line == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an alignment warning for the misaligned .word, got %#v", prog.Warnings)
	}
}

func TestAssemble_alignAndSpace(t *testing.T) {
	a := newAssembler(t)
	src := `
	.data
	.word 1
	.align 3
	.space 4
tail:	.word 2
`
	prog, err := a.Assemble("align", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// word 1 at data origin (0x200), align to 8 bytes -> 0x208, space 4 -> 0x20c, tail word at 0x20c.
	last := prog.Cells[len(prog.Cells)-1]
	want := uint32(0x200 + 8 + 4)
	if last.Address() != want {
		t.Errorf("tail address = %#x, want %#x", last.Address(), want)
	}
}
