package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/maxgio92/movimm"
)

var rule = strings.Repeat("=", 50)

type block struct {
	arch    movimm.Arch
	listing *movimm.Listing
	disasm  []movimm.Instruction
	err     error
}

func newBlock(arch movimm.Arch, value uint32, decimal, reg string, disasm bool) block {
	b := block{arch: arch}
	b.listing, b.err = movimm.Generate(arch, value, reg)
	if b.err != nil {
		return b
	}
	b.listing.Decimal = decimal
	if !disasm {
		return b
	}
	b.disasm, b.err = movimm.Disassemble(b.listing)
	return b
}

func (b block) text() string {
	s := movimm.RenderResult(b.listing, b.err)
	if b.err != nil || len(b.disasm) == 0 {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s)
	sb.WriteString("\ndisassembly:")
	for _, in := range b.disasm {
		fmt.Fprintf(&sb, "\n  %04x: %-14s %s", in.Offset, in.Bytes, in.Text)
	}
	return sb.String()
}

func writeText(w io.Writer, blocks []block) {
	for _, b := range blocks {
		fmt.Fprintf(w, "\n%s\n%s\n", rule, b.text())
	}
	fmt.Fprintln(w, rule)
}

type jsonBlock struct {
	Arch        movimm.Arch          `json:"arch"`
	Register    string               `json:"register,omitempty"`
	Value       uint32               `json:"value"`
	Decimal     string               `json:"decimal,omitempty"`
	Hex         string               `json:"hex,omitempty"`
	Assembly    []string             `json:"assembly,omitempty"`
	HexCode     string               `json:"hexcode,omitempty"`
	Disassembly []movimm.Instruction `json:"disassembly,omitempty"`
	Error       string               `json:"error,omitempty"`
}

func writeJSON(w io.Writer, blocks []block) error {
	out := make([]jsonBlock, 0, len(blocks))
	for _, b := range blocks {
		jb := jsonBlock{Arch: b.arch}
		if b.err != nil {
			jb.Error = b.err.Error()
		}
		if b.listing != nil {
			jb.Register = b.listing.Register
			jb.Value = b.listing.Value
			jb.Decimal = b.listing.Decimal
			jb.Hex = b.listing.Hex
			jb.Assembly = b.listing.Assembly
			jb.HexCode = b.listing.HexCode()
			jb.Disassembly = b.disasm
		}
		out = append(out, jb)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	return nil
}
