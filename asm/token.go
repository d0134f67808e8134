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

// TokenKind tags a lexical token.
type TokenKind int

// Recognised token kinds.
const (
	TokEOF TokenKind = iota
	TokNewline
	TokNumber
	TokString
	TokIdent
	TokRegister
	TokInstruction
	TokDirective
	TokUnknownDirective
	TokComma
	TokLParen
	TokRParen
	TokColon
	TokComment
)

// RegKind distinguishes general-purpose from floating-point registers.
type RegKind int

// Register kinds.
const (
	RegGPR RegKind = iota
	RegFPR
)

// OperandClass is the operand shape a given instruction mnemonic matches,
// per spec §4.4's class table.
type OperandClass int

// Operand classes, one per row of the spec §4.4 instruction table.
const (
	ClassNONE OperandClass = iota
	ClassNUM
	ClassNAME
	ClassGPR
	ClassGPR_NAME
	ClassGPR_FPR
	ClassFPR_GPR
	ClassGPR_UINT
	Class2FPR
	Class2DPR
	ClassFPR_DPR
	ClassDPR_FPR
	Class2GPR_INT
	Class2GPR_UINT
	Class3GPR
	Class3DPR
	Class3FPR
	ClassGPR_OFFSET
	ClassDPR_OFFSET
	ClassFPR_OFFSET
	ClassOFFSET_GPR
	ClassOFFSET_DPR
	ClassOFFSET_FPR
)

// DirectiveKind tags one of the eight recognised assembler directives.
type DirectiveKind int

// Recognised directives.
const (
	DirAlign DirectiveKind = iota
	DirData
	DirText
	DirSpace
	DirWord
	DirFloat
	DirDouble
	DirAsciiz
)

var directiveNames = map[string]DirectiveKind{
	".align":  DirAlign,
	".data":   DirData,
	".text":   DirText,
	".space":  DirSpace,
	".word":   DirWord,
	".float":  DirFloat,
	".double": DirDouble,
	".asciiz": DirAsciiz,
}

// instructionClasses maps every mnemonic in spec §4.4 to its operand class.
var instructionClasses = map[string]OperandClass{
	"nop": ClassNONE,

	"trap": ClassNUM,

	"j":   ClassNAME,
	"jal": ClassNAME,

	"jr":   ClassGPR,
	"jalr": ClassGPR,

	"beqz": ClassGPR_NAME,
	"bnez": ClassGPR_NAME,

	"movfp2i": ClassGPR_FPR,

	"movi2fp": ClassFPR_GPR,

	"lhi": ClassGPR_UINT,

	"cvtf2i": Class2FPR,
	"cvti2f": Class2FPR,
	"movf":   Class2FPR,

	"movd": Class2DPR,

	"cvtd2f": ClassFPR_DPR,
	"cvtd2i": ClassFPR_DPR,

	"cvtf2d": ClassDPR_FPR,
	"cvti2d": ClassDPR_FPR,

	"addi": Class2GPR_INT,
	"seqi": Class2GPR_INT,
	"sgei": Class2GPR_INT,
	"sgti": Class2GPR_INT,
	"slei": Class2GPR_INT,
	"slti": Class2GPR_INT,
	"snei": Class2GPR_INT,
	"subi": Class2GPR_INT,

	"addui": Class2GPR_UINT,
	"andi":  Class2GPR_UINT,
	"ori":   Class2GPR_UINT,
	"slli":  Class2GPR_UINT,
	"srai":  Class2GPR_UINT,
	"srli":  Class2GPR_UINT,
	"subui": Class2GPR_UINT,
	"xori":  Class2GPR_UINT,

	"add":  Class3GPR,
	"addu": Class3GPR,
	"and":  Class3GPR,
	"or":   Class3GPR,
	"seq":  Class3GPR,
	"sge":  Class3GPR,
	"sgt":  Class3GPR,
	"sle":  Class3GPR,
	"sll":  Class3GPR,
	"slt":  Class3GPR,
	"sne":  Class3GPR,
	"sra":  Class3GPR,
	"srl":  Class3GPR,
	"sub":  Class3GPR,
	"subu": Class3GPR,
	"xor":  Class3GPR,

	"addd":  Class3DPR,
	"divd":  Class3DPR,
	"multd": Class3DPR,
	"subd":  Class3DPR,

	"addf":  Class3FPR,
	"div":   Class3FPR,
	"divf":  Class3FPR,
	"divu":  Class3FPR,
	"mult":  Class3FPR,
	"multf": Class3FPR,
	"multu": Class3FPR,
	"subf":  Class3FPR,

	"lb":  ClassGPR_OFFSET,
	"lbu": ClassGPR_OFFSET,
	"lh":  ClassGPR_OFFSET,
	"lhu": ClassGPR_OFFSET,
	"lw":  ClassGPR_OFFSET,

	"ld": ClassDPR_OFFSET,

	"lf": ClassFPR_OFFSET,

	"sb": ClassOFFSET_GPR,
	"sh": ClassOFFSET_GPR,
	"sw": ClassOFFSET_GPR,

	"sd": ClassOFFSET_DPR,

	"sf": ClassOFFSET_FPR,
}

// Token is a tagged triple of (kind, lexeme, source line) as specified in
// spec §3, extended with the decoded literal value for numbers/strings and
// the disambiguated sub-kind for registers/instructions/directives.
type Token struct {
	Kind  TokenKind
	Text  string
	Line  int
	Col   int

	IntValue   int64
	FloatValue float64
	IsFloat    bool

	RegKind RegKind
	RegIdx  int

	Class OperandClass
	Dir   DirectiveKind
}
