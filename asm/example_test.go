package asm_test

import (
	"fmt"
	"os"

	"github.com/dlxtools/dlxasm/asm"
)

// Shows off assembling a small program mixing a text and a data segment,
// then dumping it with Emit.
func ExampleAssembler_Assemble() {
	code := `
	.text
start:	addi r1, r0, 10
loop:	addi r1, r1, -1
	bnez r1, loop
	trap 0

	.data
msg:	.asciiz "done"
`
	a := asm.NewAssembler(asm.DefaultConfig())
	prog, err := a.Assemble("demo", []byte(code))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := asm.Emit(os.Stdout, prog); err != nil {
		fmt.Println(err)
	}

	// Output:
	// 00000000: 2001000a # addi rd=r1 rs1=r0 imm=10
	// 00000004: 2021ffff # addi rd=r1 rs1=r1 imm=-1
	// 00000008: 1820fff8 # bnez rs1=r1 label=loop
	// 0000000c: 10000000 # trap imm=0
	// 00000200: 646f6e6500 # string "done"
}
