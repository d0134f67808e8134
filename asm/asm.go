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

// Package asm assembles DLX assembly source into a linear machine image.
//
// Assembly proceeds in two passes. The first walks the source top to
// bottom, tracking a cursor that starts in the text segment, laying out
// every word/float/double/string/instruction cell it meets and recording
// the address of every label as it is defined. Instructions whose operand
// names a label are left with a placeholder immediate and queued for the
// second pass, since a label used before its definition cannot be resolved
// on the first pass alone. The second pass walks that queue and patches in
// the now-known address, PC-relative where the mnemonic calls for it.
//
// Segments:
//
// The .text directive switches the cursor into the instruction segment
// (origin configurable, conventionally 0x0); .data switches it into the
// data segment (origin configurable, conventionally 0x200). Both directives
// reset the cursor to that segment's origin rather than resuming wherever
// it last left off, so interleaving .text and .data sections in the same
// file revisits the same addresses rather than accumulating an offset.
//
// Labels:
//
// A label is declared by a leading identifier followed by a colon. It may
// share a line with a directive or instruction, or appear on a line by
// itself; in the latter case the assembler treats the line as though it
// had also contained a bare "nop" so the label still names a real
// instruction address. Redefining a label is a fatal error.
package asm

import (
	"sort"
)

// Config controls how an Assembler lays out a program: which opcode table
// to encode against and where the text and data segments start.
type Config struct {
	Table      *Table
	TextOrigin uint32
	DataOrigin uint32
}

// DefaultConfig returns the configuration cmd/dlxas uses when the caller
// supplies no external opcode table directory: the embedded table, text
// segment starting at 0x0 and data segment starting at 0x200.
func DefaultConfig() Config {
	return Config{Table: DefaultTable(), TextOrigin: 0x0, DataOrigin: 0x200}
}

// Program is the result of a successful assembly: every cell the source
// produced, in ascending address order, plus any non-fatal warnings.
type Program struct {
	Cells    []Cell
	Warnings []Diagnostic
}

// Assembler assembles DLX source against a fixed Config. It keeps no state
// between calls to Assemble: each call builds its symbol table and cells
// fresh and only reads the Config, so an Assembler and its Config may be
// shared freely.
type Assembler struct {
	cfg Config
}

// NewAssembler returns an Assembler configured by cfg. If cfg.Table is
// nil, DefaultTable() is used.
func NewAssembler(cfg Config) *Assembler {
	if cfg.Table == nil {
		cfg.Table = DefaultTable()
	}
	return &Assembler{cfg: cfg}
}

// pendingLabel is an instruction cell whose immediate names a label that
// could not be resolved on the first pass.
type pendingLabel struct {
	cell *InstructionCell
	file string
	line int
}

// Assemble assembles the source in src, named filename for diagnostics.
// On success it returns the assembled Program; on any fatal diagnostic it
// returns a nil Program and an ErrAsm. Non-fatal warnings are always
// attached to a successful Program, never to the error.
func (a *Assembler) Assemble(filename string, src []byte) (*Program, error) {
	var diags diagnostics

	lineToks := tokenizeLines(filename, src, &diags)
	records := make([]LineRecord, 0, len(lineToks))
	for _, lt := range lineToks {
		records = append(records, parseLine(filename, lt.Line, lt.Toks, &diags))
		if diags.abort() {
			break
		}
	}
	if diags.hasErrors() {
		return nil, diags.asErr()
	}

	cursor := a.cfg.TextOrigin
	symbols := make(map[string]uint32)
	symbolDefLine := make(map[string]int)
	cells := make(map[uint32]Cell)
	var order []uint32
	var pending []pendingLabel

	place := func(addr uint32, c Cell) {
		if _, dup := cells[addr]; !dup {
			order = append(order, addr)
		}
		cells[addr] = c
	}

	for _, rec := range records {
		if diags.abort() {
			break
		}

		if rec.Label != "" {
			if _, dup := symbols[rec.Label]; dup {
				diags.errorf(rec.File, rec.Line, 1, "label %q redefined", rec.Label)
				diags.errorf(rec.File, symbolDefLine[rec.Label], 1, "previous definition of %q here", rec.Label)
			} else {
				symbols[rec.Label] = cursor
				symbolDefLine[rec.Label] = rec.Line
			}
		}

		switch {
		case rec.HasDirective:
			switch rec.Directive.Kind {
			case DirText:
				cursor = a.cfg.TextOrigin
			case DirData:
				cursor = a.cfg.DataOrigin
			case DirAlign:
				align := uint32(1) << uint(rec.Directive.Nums[0])
				if align > 0 && cursor%align != 0 {
					cursor += align - cursor%align
				}
			case DirSpace:
				cursor += uint32(rec.Directive.Nums[0])
			case DirWord:
				for _, v := range rec.Directive.Nums {
					if cursor%4 != 0 {
						diags.warnf(rec.File, rec.Line, 1, "word at address %#x is not 4-byte aligned", cursor)
					}
					place(cursor, NewWordCell(cursor, int32(v)))
					cursor += 4
				}
			case DirFloat:
				for _, v := range rec.Directive.Floats {
					if cursor%4 != 0 {
						diags.warnf(rec.File, rec.Line, 1, "float at address %#x is not 4-byte aligned", cursor)
					}
					place(cursor, NewFloatCell(cursor, float32(v)))
					cursor += 4
				}
			case DirDouble:
				for _, v := range rec.Directive.Floats {
					if cursor%8 != 0 {
						diags.warnf(rec.File, rec.Line, 1, "double at address %#x is not 8-byte aligned", cursor)
					}
					place(cursor, NewDoubleCell(cursor, v))
					cursor += 8
				}
			case DirAsciiz:
				c := NewStringCell(cursor, rec.Directive.Str)
				place(cursor, c)
				cursor += uint32(c.Size())
			}
		case rec.HasInstruction:
			cell := a.buildInstruction(&diags, rec.File, rec.Line, cursor, rec.Instruction)
			place(cursor, cell)
			if cell.Source.HasLabel {
				pending = append(pending, pendingLabel{cell, rec.File, rec.Line})
			}
			cursor += 4
		default:
			// a label-only line still occupies one instruction slot, per
			// package doc: it behaves as though the line also said "nop".
			cell := a.buildInstruction(&diags, rec.File, rec.Line, cursor, InstructionSource{Opcode: "nop"})
			place(cursor, cell)
			cursor += 4
		}
	}

	for _, p := range pending {
		if diags.abort() {
			break
		}
		target, ok := symbols[p.cell.Source.Label]
		if !ok {
			diags.errorf(p.file, p.line, 1, "undefined label %q", p.cell.Source.Label)
			continue
		}
		var imm int64
		if p.cell.Format == FormatJ || branchIsPCRelative(p.cell.Source.Opcode) {
			imm = pcRelative(p.cell.Address(), int64(target))
		} else {
			imm = int64(target)
		}
		a.checkImmediateRange(&diags, p.file, p.line, p.cell.Format, p.cell.Source.Opcode, imm)
		p.cell.Immediate = int32(imm)
	}

	if diags.hasErrors() {
		return nil, diags.asErr()
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	prog := &Program{Warnings: diags.warnings}
	for _, addr := range order {
		prog.Cells = append(prog.Cells, cells[addr])
	}
	return prog, nil
}

func (a *Assembler) buildInstruction(diags *diagnostics, file string, line int, addr uint32, src InstructionSource) *InstructionCell {
	format, ok := a.cfg.Table.TypeOf(src.Opcode)
	if !ok {
		diags.errorf(file, line, 1, "mnemonic %q not present in opcode table", src.Opcode)
	}
	opcode, _ := a.cfg.Table.OpcodeOf(src.Opcode)
	funcCode, _ := a.cfg.Table.FuncodeOf(src.Opcode)

	cell := &InstructionCell{addr: addr, Format: format, Opcode: opcode, FuncCode: funcCode, Source: src}
	if src.Rd != nil {
		cell.Rd = src.Rd.Index
	}
	if src.Rs1 != nil {
		cell.Rs1 = src.Rs1.Index
	}
	if src.Rs2 != nil {
		cell.Rs2 = src.Rs2.Index
	}
	if src.Immediate != nil {
		imm := int64(*src.Immediate)
		if branchIsPCRelative(src.Opcode) {
			imm = pcRelative(addr, imm)
		}
		a.checkImmediateRange(diags, file, line, format, src.Opcode, imm)
		cell.Immediate = int32(imm)
	}
	return cell
}

// isUnsignedImmediateOpcode reports whether opcode's operand grammar takes
// an unsigned immediate (GPR_UINT/2GPR_UINT), per spec §4.4 and the
// original grammar's separate unsigned/int productions.
func isUnsignedImmediateOpcode(opcode string) bool {
	switch instructionClasses[opcode] {
	case ClassGPR_UINT, Class2GPR_UINT:
		return true
	}
	return false
}

// checkImmediateRange warns when a resolved immediate does not fit the
// field width its format allocates. J-type offsets get a 26-bit signed
// range check. I-type immediates split by the mnemonic's own grammar,
// matching the original's p_unsigned/p_int: unsigned-class mnemonics warn
// above 0xffff, everything else warns outside [-65536, 65535] (the
// original's own range, wider than a strict two's-complement 16 bits).
// Out-of-range values are truncated (matching the encode step's masking)
// rather than rejected, but the assembler flags it since it almost always
// indicates a label too far from its use.
func (a *Assembler) checkImmediateRange(diags *diagnostics, file string, line int, format Format, opcode string, imm int64) {
	switch format {
	case FormatI:
		if isUnsignedImmediateOpcode(opcode) {
			if imm > 0xffff {
				diags.warnf(file, line, 1, "unsigned immediate %d larger than 16 bits", imm)
			}
		} else if imm > 65535 || imm < -65536 {
			diags.warnf(file, line, 1, "signed immediate %d larger than 16 bits", imm)
		}
	case FormatJ:
		if imm < -(1<<25) || imm >= (1<<25) {
			diags.warnf(file, line, 1, "offset %d out of 26-bit signed range for J-type instruction", imm)
		}
	}
}
