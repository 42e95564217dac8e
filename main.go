// Package main provides the entry point for ladisasm.
// ladisasm is a LoongArch instruction decoder and disassembler.
//
// For the full CLI, use: go run ./cmd/ladisasm
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ladisasm - LoongArch disassembler")
	fmt.Println("")
	fmt.Println("Usage: ladisasm [flags] <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  word <hex>...   Decode instruction words")
	fmt.Println("  raw <file>      Disassemble a flat binary")
	fmt.Println("  elf <file>      Disassemble a LoongArch ELF64 file")
	fmt.Println("  table           Print or check the instruction table")
	fmt.Println("  version         Print the version")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ladisasm' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ladisasm' instead.")
	}
}
