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

package asm

import "fmt"

// DirectiveAction is a parsed directive statement: which directive, plus
// whichever of its operands the grammar requires (spec §4.1's directive
// table: .align/.space take a single number, .word/.float/.double take a
// list of numeric operands, .asciiz takes a single string, .data/.text take
// no operand).
type DirectiveAction struct {
	Kind   DirectiveKind
	Nums   []int64
	Floats []float64
	Str    string
}

// LineRecord is one parsed source line: an optional label definition,
// and at most one of a directive or an instruction statement. A line
// carrying only a label (no directive, no instruction) is legal per spec
// §4.2 and implies a nop at assembly time.
type LineRecord struct {
	File  string
	Line  int
	Label string

	HasDirective bool
	Directive    DirectiveAction

	HasInstruction bool
	Instruction    InstructionSource
}

// parseLine turns one line's tokens into a LineRecord, reporting
// diagnostics against diags. toks never contains newline or comment
// tokens (tokenizeLines already stripped them).
func parseLine(file string, line int, toks []Token, diags *diagnostics) LineRecord {
	rec := LineRecord{File: file, Line: line}
	i := 0

	if i < len(toks) && toks[i].Kind == TokIdent && i+1 < len(toks) && toks[i+1].Kind == TokColon {
		rec.Label = toks[i].Text
		i += 2
	}

	if i >= len(toks) {
		return rec
	}

	switch toks[i].Kind {
	case TokDirective:
		rec.HasDirective = true
		rec.Directive = parseDirective(file, toks[i], toks[i+1:], diags)
	case TokUnknownDirective:
		diags.errorf(file, toks[i].Line, toks[i].Col, "unknown directive %q", toks[i].Text)
	case TokInstruction:
		rec.HasInstruction = true
		rec.Instruction = parseInstruction(file, toks[i], toks[i+1:], diags)
	default:
		diags.errorf(file, toks[i].Line, toks[i].Col, "expected directive or instruction, found %q", toks[i].Text)
	}
	return rec
}

func parseDirective(file string, dirTok Token, rest []Token, diags *diagnostics) DirectiveAction {
	act := DirectiveAction{Kind: dirTok.Dir}
	switch dirTok.Dir {
	case DirData, DirText:
		expectEnd(file, dirTok, rest, diags)
	case DirAlign, DirSpace:
		n, ok := expectOneNumber(file, dirTok, rest, diags)
		if ok && n < 0 {
			diags.errorf(file, dirTok.Line, dirTok.Col, "%s requires a non-negative operand, found %d", dirTok.Text, n)
			ok = false
		}
		if ok {
			act.Nums = []int64{n}
		}
	case DirWord:
		act.Nums = expectNumberList(file, dirTok, rest, diags)
	case DirFloat, DirDouble:
		act.Floats = expectFloatList(file, dirTok, rest, diags)
	case DirAsciiz:
		s, ok := expectOneString(file, dirTok, rest, diags)
		if ok {
			act.Str = s
		}
	}
	return act
}

func expectEnd(file string, tok Token, rest []Token, diags *diagnostics) {
	if len(rest) != 0 {
		diags.errorf(file, rest[0].Line, rest[0].Col, "unexpected operand %q after %s", rest[0].Text, tok.Text)
	}
}

func expectOneNumber(file string, tok Token, rest []Token, diags *diagnostics) (int64, bool) {
	if len(rest) == 0 || rest[0].Kind != TokNumber || rest[0].IsFloat {
		diags.errorf(file, tok.Line, tok.Col, "%s requires one integer operand", tok.Text)
		return 0, false
	}
	expectEnd(file, tok, rest[1:], diags)
	return rest[0].IntValue, true
}

func expectOneString(file string, tok Token, rest []Token, diags *diagnostics) (string, bool) {
	if len(rest) == 0 || rest[0].Kind != TokString {
		diags.errorf(file, tok.Line, tok.Col, "%s requires a string operand", tok.Text)
		return "", false
	}
	expectEnd(file, tok, rest[1:], diags)
	return rest[0].Text, true
}

func expectNumberList(file string, tok Token, rest []Token, diags *diagnostics) []int64 {
	var out []int64
	if len(rest) == 0 {
		diags.errorf(file, tok.Line, tok.Col, "%s requires at least one operand", tok.Text)
		return nil
	}
	i := 0
	for {
		if i >= len(rest) || rest[i].Kind != TokNumber || rest[i].IsFloat {
			diags.errorf(file, tok.Line, tok.Col, "%s expects a number", tok.Text)
			return out
		}
		out = append(out, rest[i].IntValue)
		i++
		if i >= len(rest) {
			break
		}
		if rest[i].Kind != TokComma {
			diags.errorf(file, rest[i].Line, rest[i].Col, "expected , between operands")
			return out
		}
		i++
	}
	return out
}

func expectFloatList(file string, tok Token, rest []Token, diags *diagnostics) []float64 {
	var out []float64
	if len(rest) == 0 {
		diags.errorf(file, tok.Line, tok.Col, "%s requires at least one operand", tok.Text)
		return nil
	}
	i := 0
	for {
		if i >= len(rest) || rest[i].Kind != TokNumber {
			diags.errorf(file, tok.Line, tok.Col, "%s expects a number", tok.Text)
			return out
		}
		if rest[i].IsFloat {
			out = append(out, rest[i].FloatValue)
		} else {
			out = append(out, float64(rest[i].IntValue))
		}
		i++
		if i >= len(rest) {
			break
		}
		if rest[i].Kind != TokComma {
			diags.errorf(file, rest[i].Line, rest[i].Col, "expected , between operands")
			return out
		}
		i++
	}
	return out
}

// parseInstruction dispatches on the instruction's operand class (spec
// §4.4) to pull out exactly the operands that class names, in order.
func parseInstruction(file string, opTok Token, rest []Token, diags *diagnostics) InstructionSource {
	src := InstructionSource{Opcode: opTok.Text}
	p := &opParser{file: file, opTok: opTok, toks: rest, diags: diags}

	switch opTok.Class {
	case ClassNONE:
	case ClassNUM:
		src.Immediate = p.number()
	case ClassNAME:
		src.Label, src.HasLabel = p.name()
	case ClassGPR:
		src.Rd = p.reg(RegGPR)
	case ClassGPR_NAME:
		// the tested register is read, not written: keep it in Rs1 so the
		// I-type encoding places it in the rs1 field rather than rd.
		src.Rs1 = p.reg(RegGPR)
		p.comma()
		src.Label, src.HasLabel = p.name()
	case ClassGPR_FPR:
		src.Rd = p.reg(RegGPR)
		p.comma()
		src.Rs1 = p.reg(RegFPR)
	case ClassFPR_GPR:
		src.Rd = p.reg(RegFPR)
		p.comma()
		src.Rs1 = p.reg(RegGPR)
	case ClassGPR_UINT:
		src.Rd = p.reg(RegGPR)
		p.comma()
		src.Immediate = p.unsignedNumber()
	case Class2FPR:
		src.Rd = p.reg(RegFPR)
		p.comma()
		src.Rs1 = p.reg(RegFPR)
	case ClassFPR_DPR:
		src.Rd = p.reg(RegFPR)
		p.comma()
		src.Rs1 = p.regDPR()
	case ClassDPR_FPR:
		src.Rd = p.regDPR()
		p.comma()
		src.Rs1 = p.reg(RegFPR)
	case Class2DPR:
		src.Rd = p.regDPR()
		p.comma()
		src.Rs1 = p.regDPR()
	case Class2GPR_INT, Class2GPR_UINT:
		src.Rd = p.reg(RegGPR)
		p.comma()
		src.Rs1 = p.reg(RegGPR)
		p.comma()
		if t, ok := p.cur(); ok && t.Kind == TokIdent {
			p.pos++
			src.Label, src.HasLabel = t.Text, true
		} else if opTok.Class == Class2GPR_UINT {
			src.Immediate = p.unsignedNumber()
		} else {
			src.Immediate = p.number()
		}
	case Class3GPR:
		src.Rd = p.reg(RegGPR)
		p.comma()
		src.Rs1 = p.reg(RegGPR)
		p.comma()
		src.Rs2 = p.reg(RegGPR)
	case Class3FPR:
		src.Rd = p.reg(RegFPR)
		p.comma()
		src.Rs1 = p.reg(RegFPR)
		p.comma()
		src.Rs2 = p.reg(RegFPR)
	case Class3DPR:
		src.Rd = p.regDPR()
		p.comma()
		src.Rs1 = p.regDPR()
		p.comma()
		src.Rs2 = p.regDPR()
	case ClassGPR_OFFSET, ClassDPR_OFFSET, ClassFPR_OFFSET:
		switch opTok.Class {
		case ClassGPR_OFFSET:
			src.Rd = p.reg(RegGPR)
		case ClassFPR_OFFSET:
			src.Rd = p.reg(RegFPR)
		case ClassDPR_OFFSET:
			src.Rd = p.regDPR()
		}
		p.comma()
		off := p.offset(RegGPR)
		src.Immediate, src.Rs1, src.Label, src.HasLabel = off.Imm, off.Base, off.Label, off.HasLabel
	case ClassOFFSET_GPR, ClassOFFSET_DPR, ClassOFFSET_FPR:
		off := p.offset(RegGPR)
		src.Immediate, src.Rs1, src.Label, src.HasLabel = off.Imm, off.Base, off.Label, off.HasLabel
		p.comma()
		// the stored value shares the I-type's other register field with
		// loads (Rd), not a third field: DLX has no rs2 in I-type encoding.
		switch opTok.Class {
		case ClassOFFSET_GPR:
			src.Rd = p.reg(RegGPR)
		case ClassOFFSET_FPR:
			src.Rd = p.reg(RegFPR)
		case ClassOFFSET_DPR:
			src.Rd = p.regDPR()
		}
	default:
		diags.errorf(file, opTok.Line, opTok.Col, "unhandled operand class for %q", opTok.Text)
	}
	p.end()
	return src
}

// opParser consumes a flat token list matching one operand-class grammar,
// reporting diagnostics and keeping the caller code above free of manual
// bounds checks.
type opParser struct {
	file  string
	opTok Token
	toks  []Token
	pos   int
	diags *diagnostics
}

func (p *opParser) cur() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *opParser) fail(msg string) {
	line, col := p.opTok.Line, p.opTok.Col
	if t, ok := p.cur(); ok {
		line, col = t.Line, t.Col
	}
	p.diags.errorf(p.file, line, col, "%s: %s", p.opTok.Text, msg)
}

func (p *opParser) reg(want RegKind) *RegRef {
	t, ok := p.cur()
	if !ok || t.Kind != TokRegister || t.RegKind != want {
		kind := "r"
		if want == RegFPR {
			kind = "f"
		}
		p.fail(fmt.Sprintf("expected %s-register operand", kind))
		return &RegRef{}
	}
	p.pos++
	return &RegRef{Name: t.Text, Index: t.RegIdx}
}

// regDPR parses an FPR operand that names a double-precision register pair.
// DLX double-precision values occupy two adjacent FPRs starting at an even
// index (spec §4.4); an odd index is a parse-error, matching the original
// grammar's p_dpr range check.
func (p *opParser) regDPR() *RegRef {
	t, ok := p.cur()
	ref := p.reg(RegFPR)
	if ok && t.Kind == TokRegister && ref.Index%2 != 0 {
		p.diags.errorf(p.file, t.Line, t.Col, "%s: double-precision register must be even-numbered, found f%d", p.opTok.Text, ref.Index)
	}
	return ref
}

func (p *opParser) number() *int32 {
	t, ok := p.cur()
	if !ok || t.Kind != TokNumber || t.IsFloat {
		p.fail("expected integer operand")
		var zero int32
		return &zero
	}
	p.pos++
	v := int32(t.IntValue)
	return &v
}

// unsignedNumber parses an immediate that the grammar requires to be
// non-negative (spec §4.4's unsigned classes), matching the original
// grammar's p_unsigned: a negative literal is a parse-error, not merely a
// range warning.
func (p *opParser) unsignedNumber() *int32 {
	t, ok := p.cur()
	if !ok || t.Kind != TokNumber || t.IsFloat {
		p.fail("expected integer operand")
		var zero int32
		return &zero
	}
	if t.IntValue < 0 {
		p.diags.errorf(p.file, t.Line, t.Col, "%s: unsigned operand required, found %d", p.opTok.Text, t.IntValue)
	}
	p.pos++
	v := int32(t.IntValue)
	return &v
}

func (p *opParser) name() (string, bool) {
	t, ok := p.cur()
	if !ok || t.Kind != TokIdent {
		p.fail("expected label operand")
		return "", false
	}
	p.pos++
	return t.Text, true
}

func (p *opParser) comma() {
	t, ok := p.cur()
	if !ok || t.Kind != TokComma {
		p.fail("expected ,")
		return
	}
	p.pos++
}

// offsetResult is what offset() parses: either an "num(reg)" pair, or a bare
// label naming an address with no explicit base register.
type offsetResult struct {
	Imm      *int32
	Base     *RegRef
	Label    string
	HasLabel bool
}

// offset parses the OFFSET operand shape used by loads/stores (spec §4.4):
// either "int_literal ( gpr )", or a bare identifier that resolves to a
// label's address with no base register.
func (p *opParser) offset(baseKind RegKind) offsetResult {
	if t, ok := p.cur(); ok && t.Kind == TokIdent {
		p.pos++
		return offsetResult{Label: t.Text, HasLabel: true}
	}

	num := p.number()
	t, ok := p.cur()
	if !ok || t.Kind != TokLParen {
		p.fail("expected ( after offset")
		return offsetResult{Imm: num, Base: &RegRef{}}
	}
	p.pos++
	base := p.reg(baseKind)
	t, ok = p.cur()
	if !ok || t.Kind != TokRParen {
		p.fail("expected ) after base register")
		return offsetResult{Imm: num, Base: base}
	}
	p.pos++
	return offsetResult{Imm: num, Base: base}
}

func (p *opParser) end() {
	if t, ok := p.cur(); ok {
		p.diags.errorf(p.file, t.Line, t.Col, "unexpected operand %q after %s", t.Text, p.opTok.Text)
	}
}
