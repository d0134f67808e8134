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
	"bufio"
	"embed"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies one of the three DLX instruction encodings.
type Format int

// Recognised instruction formats.
const (
	FormatR Format = iota
	FormatI
	FormatJ
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatJ:
		return "J"
	default:
		return "?"
	}
}

// tableFiles maps a Format to the external data file name that defines it,
// per the spec: three files named Rtypes, Itypes and Jtypes, one per format.
var tableFiles = [...]string{
	FormatR: "Rtypes",
	FormatI: "Itypes",
	FormatJ: "Jtypes",
}

type opInfo struct {
	format   Format
	opcode   int
	funcCode int
}

// Table is the process-wide mnemonic -> (format, opcode, function code)
// mapping loaded from the opcode/function-code data files. It is built once
// and treated as immutable afterwards; the zero value is not usable, use
// LoadTable or DefaultTable.
type Table struct {
	ops map[string]opInfo
}

//go:embed testdata/Rtypes testdata/Itypes testdata/Jtypes
var defaultTableFiles embed.FS

// DefaultTable returns the built-in mnemonic table covering every mnemonic
// named in the DLX grammar. It is the table cmd/dlxas uses when the caller
// does not point it at an external Rtypes/Itypes/Jtypes directory.
func DefaultTable() *Table {
	t := &Table{ops: make(map[string]opInfo)}
	for format, name := range tableFiles {
		f, err := defaultTableFiles.Open("testdata/" + name)
		if err != nil {
			// the embedded defaults are part of the binary; a failure here
			// is a build-time mistake, not a runtime condition to recover from.
			panic(errors.Wrapf(err, "embedded table %s", name))
		}
		if err := t.load(Format(format), name, f); err != nil {
			panic(err)
		}
		f.Close()
	}
	return t
}

// LoadTable loads the opcode/function-code table from the three files
// Rtypes, Itypes and Jtypes inside dir. Any malformed line fails the load
// with a table-format-error; a missing or unreadable file fails with an
// io-error. Both are fatal to startup, wrapped with github.com/pkg/errors
// so the caller can inspect the underlying cause.
func LoadTable(dir string) (*Table, error) {
	t := &Table{ops: make(map[string]opInfo)}
	for format, name := range tableFiles {
		path := name
		if dir != "" {
			path = dir + string(os.PathSeparator) + name
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening opcode table %s", path)
		}
		err = t.load(Format(format), path, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// load parses one opcode table file: each non-blank line is
// "<mnemonic> <opcode> [<function_code>]", case-folded on the mnemonic.
func (t *Table) load(format Format, name string, r io.Reader) error {
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 && len(fields) != 3 {
			return errors.Errorf("%s:%d: expected \"mnemonic opcode [funcode]\", got %q", name, lineNo, line)
		}
		mnemonic := strings.ToLower(fields[0])
		opcode, err := strconv.Atoi(fields[1])
		if err != nil {
			return errors.Wrapf(err, "%s:%d: invalid opcode for %s", name, lineNo, mnemonic)
		}
		if opcode < 0 || opcode > 63 {
			return errors.Errorf("%s:%d: opcode %d for %s out of range 0-63", name, lineNo, opcode, mnemonic)
		}
		funcCode := 0
		if len(fields) == 3 {
			funcCode, err = strconv.Atoi(fields[2])
			if err != nil {
				return errors.Wrapf(err, "%s:%d: invalid function code for %s", name, lineNo, mnemonic)
			}
			if funcCode < 0 || funcCode > 2047 {
				return errors.Errorf("%s:%d: function code %d for %s out of range 0-2047", name, lineNo, funcCode, mnemonic)
			}
		}
		t.ops[mnemonic] = opInfo{format: format, opcode: opcode, funcCode: funcCode}
	}
	if err := s.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	return nil
}

// TypeOf returns the instruction format for mnemonic.
func (t *Table) TypeOf(mnemonic string) (Format, bool) {
	i, ok := t.ops[mnemonic]
	return i.format, ok
}

// OpcodeOf returns the opcode for mnemonic.
func (t *Table) OpcodeOf(mnemonic string) (int, bool) {
	i, ok := t.ops[mnemonic]
	return i.opcode, ok
}

// FuncodeOf returns the function code for mnemonic.
func (t *Table) FuncodeOf(mnemonic string) (int, bool) {
	i, ok := t.ops[mnemonic]
	return i.funcCode, ok
}
