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

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cell is the uniform interface over everything that can occupy an
// address in the assembled program: a word, a float, a double, a
// NUL-terminated string, or an instruction. It is a sum type expressed as
// an interface rather than as a class hierarchy: every variant implements
// the same three operations.
type Cell interface {
	// Address returns the byte address this cell was placed at.
	Address() uint32
	// Size returns the number of bytes this cell occupies.
	Size() int
	// Description returns a short human-readable annotation for output.
	Description() string
	// EncodeHex returns the cell's bytes as a lowercase hex string of
	// exactly Size()*2 characters.
	EncodeHex() string
}

func hexBytes(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

// WordCell is a signed 32-bit integer stored big-endian.
type WordCell struct {
	addr  uint32
	Value int32
}

// NewWordCell returns a Word cell at addr holding value.
func NewWordCell(addr uint32, value int32) *WordCell { return &WordCell{addr, value} }

func (c *WordCell) Address() uint32  { return c.addr }
func (c *WordCell) Size() int        { return 4 }
func (c *WordCell) Description() string { return fmt.Sprintf("word %d", c.Value) }
func (c *WordCell) EncodeHex() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(c.Value))
	return hexBytes(b[:])
}

// FloatCell is an IEEE-754 binary32 value stored big-endian.
type FloatCell struct {
	addr  uint32
	Value float32
}

// NewFloatCell returns a Float cell at addr holding value.
func NewFloatCell(addr uint32, value float32) *FloatCell { return &FloatCell{addr, value} }

func (c *FloatCell) Address() uint32  { return c.addr }
func (c *FloatCell) Size() int        { return 4 }
func (c *FloatCell) Description() string { return fmt.Sprintf("float %v", c.Value) }
func (c *FloatCell) EncodeHex() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(c.Value))
	return hexBytes(b[:])
}

// DoubleCell is an IEEE-754 binary64 value stored big-endian.
type DoubleCell struct {
	addr  uint32
	Value float64
}

// NewDoubleCell returns a Double cell at addr holding value.
func NewDoubleCell(addr uint32, value float64) *DoubleCell { return &DoubleCell{addr, value} }

func (c *DoubleCell) Address() uint32  { return c.addr }
func (c *DoubleCell) Size() int        { return 8 }
func (c *DoubleCell) Description() string { return fmt.Sprintf("double %v", c.Value) }
func (c *DoubleCell) EncodeHex() string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(c.Value))
	return hexBytes(b[:])
}

// StringCell is a NUL-terminated byte string. Escape sequences have
// already been expanded by the lexer by the time a StringCell is built.
type StringCell struct {
	addr  uint32
	Value string
}

// NewStringCell returns a String cell at addr holding value.
func NewStringCell(addr uint32, value string) *StringCell { return &StringCell{addr, value} }

func (c *StringCell) Address() uint32 { return c.addr }
func (c *StringCell) Size() int       { return len(c.Value) + 1 }
func (c *StringCell) Description() string {
	return fmt.Sprintf("string %q", c.Value)
}
func (c *StringCell) EncodeHex() string {
	b := make([]byte, len(c.Value)+1)
	copy(b, c.Value)
	b[len(c.Value)] = 0
	return hexBytes(b)
}

// RegRef names a register operand as written in the source (e.g. "r5",
// "f12") together with its parsed numeric index.
type RegRef struct {
	Name  string
	Index int
}

// InstructionSource is the structured instruction record produced by the
// parser: the opcode mnemonic plus whichever of rd/rs1/rs2/immediate/label
// the matched operand class populates. It is retained on the assembled
// InstructionCell purely for the Description() annotation and for label
// resolution; the bit-exact encoding only ever looks at the fields an
// operand class actually set.
type InstructionSource struct {
	Opcode    string
	Rd        *RegRef
	Rs1       *RegRef
	Rs2       *RegRef
	Immediate *int32
	Label     string
	HasLabel  bool
}

// InstructionCell is an assembled instruction: its format-specific fields
// plus the source record it was built from, for diagnostics and output.
type InstructionCell struct {
	addr     uint32
	Format   Format
	Opcode   int
	FuncCode int
	Rd       int
	Rs1      int
	Rs2      int
	// Immediate is the resolved 16-bit (I-type) or 26-bit (J-type) field.
	// For R-type instructions it is unused.
	Immediate int32
	Source    InstructionSource
}

func (c *InstructionCell) Address() uint32 { return c.addr }
func (c *InstructionCell) Size() int       { return 4 }

func (c *InstructionCell) Description() string {
	d := c.Source.Opcode
	if c.Source.Rd != nil {
		d += " rd=" + c.Source.Rd.Name
	}
	if c.Source.Rs1 != nil {
		d += " rs1=" + c.Source.Rs1.Name
	}
	if c.Source.Rs2 != nil {
		d += " rs2=" + c.Source.Rs2.Name
	}
	if c.Source.HasLabel {
		d += " label=" + c.Source.Label
	}
	if c.Source.Immediate != nil {
		d += fmt.Sprintf(" imm=%d", *c.Source.Immediate)
	}
	return d
}

func (c *InstructionCell) EncodeHex() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], c.encode())
	return hexBytes(b[:])
}
