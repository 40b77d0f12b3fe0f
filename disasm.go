package movimm

import (
	"fmt"

	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

const badInsn = "(bad)"

// Disassemble decodes the bytes of a listing the way the target CPU would.
// The templates are fixed and do not always form the instruction named in
// the assembly text, so the result is what actually executes. Undecodable
// bytes are reported as "(bad)" and decoding continues.
func Disassemble(l *Listing) ([]Instruction, error) {
	switch l.Arch {
	case ArchX86:
		return disassembleX86(l.Bytes, 32)
	case ArchX8664:
		return disassembleX86(l.Bytes, 64)
	case ArchARM32:
		return disassembleARM32(l.Bytes)
	case ArchARM64:
		return disassembleARM64(l.Bytes)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArch, l.Arch)
	}
}

func disassembleX86(code []byte, mode int) ([]Instruction, error) {
	var result []Instruction

	offset := 0
	for offset < len(code) {
		// Truncated input decodes as a one-byte pseudo-instruction with no Op.
		inst, err := x86asm.Decode(code[offset:], mode)
		if err != nil || inst.Op == 0 {
			result = append(result, Instruction{
				Offset: offset,
				Bytes:  hexTokens(code[offset : offset+1]),
				Text:   badInsn,
			})
			offset++
			continue
		}

		result = append(result, Instruction{
			Offset: offset,
			Bytes:  hexTokens(code[offset : offset+inst.Len]),
			Text:   x86asm.IntelSyntax(inst, uint64(offset), nil),
		})
		offset += inst.Len
	}

	return result, nil
}

// ARM words are fixed-width; a trailing partial word is an error.
const armInsnLen = 4

func disassembleARM32(code []byte) ([]Instruction, error) {
	if len(code)%armInsnLen != 0 {
		return nil, fmt.Errorf("arm32 code length %d is not a multiple of %d", len(code), armInsnLen)
	}
	var result []Instruction

	for offset := 0; offset+armInsnLen <= len(code); offset += armInsnLen {
		word := code[offset : offset+armInsnLen]
		text := badInsn
		if inst, err := armasm.Decode(word, armasm.ModeARM); err == nil {
			text = armasm.GNUSyntax(inst)
		}
		result = append(result, Instruction{
			Offset: offset,
			Bytes:  hexTokens(word),
			Text:   text,
		})
	}

	return result, nil
}

func disassembleARM64(code []byte) ([]Instruction, error) {
	if len(code)%armInsnLen != 0 {
		return nil, fmt.Errorf("arm64 code length %d is not a multiple of %d", len(code), armInsnLen)
	}
	var result []Instruction

	for offset := 0; offset+armInsnLen <= len(code); offset += armInsnLen {
		word := code[offset : offset+armInsnLen]
		text := badInsn
		if inst, err := arm64asm.Decode(word); err == nil {
			text = arm64asm.GNUSyntax(inst)
		}
		result = append(result, Instruction{
			Offset: offset,
			Bytes:  hexTokens(word),
			Text:   text,
		})
	}

	return result, nil
}
