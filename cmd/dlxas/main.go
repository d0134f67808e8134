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

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/dlxtools/dlxasm/asm"
)

func assembleFile(file, tableDir string, textOrigin, dataOrigin int64) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "reading %s", file)
	}

	table := asm.DefaultTable()
	if tableDir != "" {
		table, err = asm.LoadTable(tableDir)
		if err != nil {
			return err
		}
	}

	a := asm.NewAssembler(asm.Config{
		Table:      table,
		TextOrigin: uint32(textOrigin),
		DataOrigin: uint32(dataOrigin),
	})

	prog, err := a.Assemble(file, src)
	if err != nil {
		return err
	}
	for _, w := range prog.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
	return asm.Emit(os.Stdout, prog)
}

func main() {
	app := cli.NewApp()
	app.Name = "dlxas"
	app.Usage = "Assemble DLX assembly source into a hex-annotated machine image"
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "assemble",
			Aliases:   []string{"as"},
			Usage:     "Assemble a source file and print its machine image",
			ArgsUsage: "file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "tables",
					Usage: "directory containing Rtypes, Itypes and Jtypes (defaults to the built-in table)",
				},
				cli.Int64Flag{
					Name:  "text-origin",
					Value: 0x0,
					Usage: "address the .text segment starts at",
				},
				cli.Int64Flag{
					Name:  "data-origin",
					Value: 0x200,
					Usage: "address the .data segment starts at",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("missing source file", 1)
				}
				if err := assembleFile(c.Args().First(), c.String("tables"), c.Int64("text-origin"), c.Int64("data-origin")); err != nil {
					if asmErr, ok := err.(asm.ErrAsm); ok {
						fmt.Fprintln(os.Stderr, asmErr.Error())
						return cli.NewExitError("", 1)
					}
					return cli.NewExitError(err.Error(), 1)
				}
				return nil
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
