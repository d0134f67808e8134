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
	"fmt"
	"strings"
)

// maxDiagnostics caps how many fatal diagnostics a single run accumulates,
// so a thoroughly malformed file doesn't produce unbounded output. Mirrors
// the teacher's asm.maxErrors cap in asm/parser.go.
const maxDiagnostics = 50

// Diagnostic is one assembler-reported condition: a fatal error or a
// non-fatal warning, tied to a source position.
type Diagnostic struct {
	File    string
	Line    int
	Col     int
	Msg     string
	Warning bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Col, d.Msg)
}

// ErrAsm collects every fatal diagnostic produced during a run: parse
// errors, unknown mnemonics, duplicate labels and unresolved labels.
// Warnings never appear here; they are collected separately (see
// Program.Warnings) and never set the error flag.
type ErrAsm []Diagnostic

func (e ErrAsm) Error() string {
	lines := make([]string, len(e))
	for i, d := range e {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// diagnostics accumulates both fatal errors and warnings for one run.
type diagnostics struct {
	errs     []Diagnostic
	warnings []Diagnostic
}

func (d *diagnostics) errorf(file string, line, col int, format string, args ...interface{}) {
	if len(d.errs) >= maxDiagnostics {
		return
	}
	d.errs = append(d.errs, Diagnostic{File: file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)})
}

func (d *diagnostics) warnf(file string, line, col int, format string, args ...interface{}) {
	d.warnings = append(d.warnings, Diagnostic{File: file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...), Warning: true})
}

func (d *diagnostics) abort() bool { return len(d.errs) >= maxDiagnostics }

func (d *diagnostics) hasErrors() bool { return len(d.errs) > 0 }

func (d *diagnostics) asErr() error {
	if len(d.errs) == 0 {
		return nil
	}
	return ErrAsm(d.errs)
}
