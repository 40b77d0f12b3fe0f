package movimm

import "fmt"

// Default registers used when the caller does not name one.
const (
	DefaultX86Register   = "eax"
	DefaultARM32Register = "r9"
	DefaultARM64Register = "x9"
)

const (
	arm32RegisterCount = 13
	arm64RegisterCount = 31

	// fallbackOpcode is mov eax, imm32.
	fallbackOpcode = "B8"
)

var x86Registers = []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp"}

// mov r32, imm32 is B8+rd.
var x86Opcodes = map[string]string{
	"eax": "B8",
	"ebx": "BB",
	"ecx": "B9",
	"edx": "BA",
	"esi": "BE",
	"edi": "BF",
	"ebp": "BD",
	"esp": "BC",
}

// ValidRegisters returns the register names accepted for arch, in catalog
// order. The result is freshly allocated. Unknown architectures yield an
// empty slice.
func ValidRegisters(arch Arch) []string {
	switch arch {
	case ArchX86, ArchX8664:
		return append([]string(nil), x86Registers...)
	case ArchARM32:
		return indexedRegisters("r", arm32RegisterCount)
	case ArchARM64:
		return indexedRegisters("x", arm64RegisterCount)
	}
	return []string{}
}

func indexedRegisters(prefix string, n int) []string {
	regs := make([]string, n)
	for i := range regs {
		regs[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return regs
}

// DefaultRegister returns the register used for arch when none is given.
func DefaultRegister(arch Arch) string {
	switch arch {
	case ArchX86, ArchX8664:
		return DefaultX86Register
	case ArchARM32:
		return DefaultARM32Register
	case ArchARM64:
		return DefaultARM64Register
	}
	return ""
}

// OpcodeFor returns the one-byte mov-immediate opcode for reg on the x86
// family, as two uppercase hex digits. Registers outside the table map to
// the eax opcode. Other architectures return "".
func OpcodeFor(reg string, arch Arch) string {
	if !arch.IsX86() {
		return ""
	}
	if op, ok := x86Opcodes[reg]; ok {
		return op
	}
	return fallbackOpcode
}
