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
	"io"

	"github.com/dlxtools/dlxasm/internal/ngi"
)

// Emit writes prog's cells to w, one line per cell in ascending address
// order: an 8-digit hex address, a colon, the cell's hex-encoded bytes,
// and a "# " annotation describing the cell. Write errors are collected
// and returned once at the end rather than aborting mid-stream, so a
// caller redirecting to a pipe sees the first failure rather than a
// partial, silently-truncated dump.
func Emit(w io.Writer, prog *Program) error {
	ew := ngi.NewErrWriter(w)
	for _, c := range prog.Cells {
		fmt.Fprintf(ew, "%08x: %s # %s\n", c.Address(), c.EncodeHex(), c.Description())
	}
	return ew.Err
}
