/*
 * Capstan - Schema-driven codecs for smart-contract program data
 *
 * Copyright Onsol Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// capstan decodes program data against an interface description.
//
//	capstan decode-account --idl program.json [--name Layout] [--hex] [file]
//	capstan decode-instruction --idl program.json [--hex] [file]
//	capstan discriminator <namespace> <name>
//	capstan size --idl program.json --type Name [--hex] [file]
//
// Record data is read from the given file, or from stdin. With --hex the
// input is hex, optionally 0x-prefixed, with whitespace ignored.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/pflag"

	"github.com/onsol/capstan/coder"
	"github.com/onsol/capstan/encoding/borsh"
	"github.com/onsol/capstan/idl"
)

func main() {
	if len(os.Args) < 2 {
		exitWithUsage()
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "decode-account":
		decodeAccount(args)

	case "decode-instruction":
		decodeInstruction(args)

	case "discriminator":
		discriminator(args)

	case "size":
		size(args)

	default:
		exitWithError(fmt.Errorf("unsupported command: %s", command))
	}
}

func exitWithUsage() {
	_, _ = fmt.Fprintln(
		os.Stderr,
		"usage: capstan <decode-account|decode-instruction|discriminator|size> [flags]",
	)
	os.Exit(1)
}

func exitWithError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
	os.Exit(1)
}

func decodeAccount(args []string) {
	flags := pflag.NewFlagSet("decode-account", pflag.ExitOnError)
	idlPath := flags.String("idl", "", "path of the interface description")
	name := flags.String("name", "", "expected account layout name")
	hexInput := flags.Bool("hex", false, "input is hex-encoded")
	_ = flags.Parse(args)

	program := loadIDL(*idlPath)
	data := readInput(flags.Args(), *hexInput)

	accounts, err := coder.NewAccountCoder(program)
	if err != nil {
		exitWithError(err)
	}

	var value any
	if *name != "" {
		decoded, err := accounts.DecodeAs(*name, data)
		if err != nil {
			exitWithError(err)
		}
		value = decoded
		fmt.Println(aurora.Bold(*name).String())
	} else {
		decodedName, decoded, err := accounts.Decode(data)
		if err != nil {
			exitWithError(err)
		}
		value = decoded
		fmt.Println(aurora.Bold(decodedName).String())
	}

	_, _ = pp.Println(value)
}

func decodeInstruction(args []string) {
	flags := pflag.NewFlagSet("decode-instruction", pflag.ExitOnError)
	idlPath := flags.String("idl", "", "path of the interface description")
	hexInput := flags.Bool("hex", false, "input is hex-encoded")
	_ = flags.Parse(args)

	program := loadIDL(*idlPath)
	data := readInput(flags.Args(), *hexInput)

	instructions, err := coder.NewInstructionCoder(program)
	if err != nil {
		exitWithError(err)
	}

	method, values, err := instructions.Decode(data)
	if err != nil {
		exitWithError(err)
	}

	fmt.Println(aurora.Bold(method).String())
	_, _ = pp.Println(values)
}

func discriminator(args []string) {
	if len(args) != 2 {
		exitWithError(fmt.Errorf("expected: capstan discriminator <namespace> <name>"))
	}
	namespace, name := args[0], args[1]

	var d coder.Discriminator
	switch namespace {
	case coder.AccountNamespace:
		d = coder.AccountDiscriminator(name)
	case coder.InstructionNamespace:
		d = coder.InstructionDiscriminator(name)
	case coder.EventNamespace:
		d = coder.EventDiscriminator(name)
	default:
		exitWithError(fmt.Errorf("unsupported namespace: %s", namespace))
	}

	fmt.Printf("%x\n", d.Bytes())
}

func size(args []string) {
	flags := pflag.NewFlagSet("size", pflag.ExitOnError)
	idlPath := flags.String("idl", "", "path of the interface description")
	typeName := flags.String("type", "", "declared type name")
	hexInput := flags.Bool("hex", false, "input is hex-encoded")
	_ = flags.Parse(args)

	if *typeName == "" {
		exitWithError(fmt.Errorf("missing --type"))
	}

	program := loadIDL(*idlPath)

	schema, err := program.ResolveTypeDef(*typeName)
	if err != nil {
		exitWithError(err)
	}

	// Without input the static width answers the question. Dynamic types
	// need the value's bytes to probe.
	if len(flags.Args()) == 0 && isStdinTerminal() {
		n, err := borsh.StaticSize(schema)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(n)
		return
	}

	data := readInput(flags.Args(), *hexInput)
	n, err := borsh.Size(schema, data)
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(n)
}

func loadIDL(path string) *idl.Idl {
	if path == "" {
		exitWithError(fmt.Errorf("missing --idl"))
	}
	program, err := idl.ParseFile(path)
	if err != nil {
		exitWithError(err)
	}
	return program
}

func readInput(args []string, hexInput bool) []byte {
	var data []byte
	var err error

	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitWithError(err)
	}

	if hexInput {
		text := strings.Join(strings.Fields(string(data)), "")
		text = strings.TrimPrefix(text, "0x")
		data, err = hex.DecodeString(text)
		if err != nil {
			exitWithError(fmt.Errorf("invalid hex input: %w", err))
		}
	}

	return data
}

func isStdinTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
