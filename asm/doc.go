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

// Directives:
//
//	.text			switch to the instruction segment
//	.data			switch to the data segment
//	.align n		pad the cursor up to a 2^n byte boundary
//	.space n		reserve n bytes, uninitialised
//	.word  v, ...		lay out one or more 32-bit integer cells
//	.float v, ...		lay out one or more 32-bit IEEE-754 cells
//	.double v, ...		lay out one or more 64-bit IEEE-754 cells
//	.asciiz "s"		lay out a NUL-terminated byte string
//
// Operand classes:
//
// Every mnemonic in the grammar belongs to exactly one operand-class shape
// (see token.go's instructionClasses); the parser uses that class alone to
// decide which tokens follow the mnemonic, independent of which of the
// three opcode tables (Rtypes, Itypes, Jtypes) ultimately encodes it:
//
//	class          example          operands
//	NONE           nop              (none)
//	NUM            trap 3           immediate
//	NAME           j foo            label
//	GPR            jr r4            rd
//	GPR,NAME       beqz r1, foo     rs1, label
//	GPR,FPR        movfp2i r1, f2   rd (gpr), rs1 (fpr)
//	FPR,GPR        movi2fp f1, r2   rd (fpr), rs1 (gpr)
//	GPR,UINT       lhi r1, 40       rd, immediate
//	2GPR,INT       addi r1,r2,-3    rd, rs1, immediate
//	2GPR,UINT      andi r1,r2,3     rd, rs1, immediate
//	3GPR           add r1,r2,r3     rd, rs1, rs2
//	3FPR / 3DPR    addf f1,f2,f3 / addd f0,f2,f4  rd, rs1, rs2
//	GPR,OFFSET     lw r1, 4(r2)     rd, immediate(rs1 base)
//	OFFSET,GPR     sw 4(r2), r1     immediate(rs1 base), rd
//
// The remaining classes (2FPR, FPR_DPR, DPR_OFFSET, ...) follow the same
// shape with the register file swapped for floating point or double.

package asm
