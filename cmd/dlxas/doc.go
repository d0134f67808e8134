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

// Command dlxas assembles DLX assembly source files.
//
//	dlxas assemble [--tables dir] [--text-origin addr] [--data-origin addr] file
//
// Without --tables, the opcode/function-code table embedded in the binary
// is used. Warnings are printed to stderr; the assembled image, one cell
// per line, is printed to stdout.
package main
