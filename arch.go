package movimm

// Arch represents a CPU architecture.
type Arch string

// Supported architectures.
const (
	ArchX86   Arch = "x86"
	ArchX8664 Arch = "x86-64"
	ArchARM32 Arch = "arm32"
	ArchARM64 Arch = "arm64"
)

// Archs returns the supported architectures in output order.
func Archs() []Arch {
	return []Arch{ArchX86, ArchX8664, ArchARM32, ArchARM64}
}

// Title returns the heading printed above a listing.
func (a Arch) Title() string {
	switch a {
	case ArchX86:
		return "x86 (32-bit)"
	case ArchX8664:
		return "x86-64 (64-bit)"
	case ArchARM32:
		return "armeabi-v7a (ARM 32-bit)"
	case ArchARM64:
		return "arm64-v8a (ARM 64-bit)"
	}
	return string(a)
}

// IsX86 reports whether a belongs to the x86 family, which shares one
// register set and opcode table.
func (a Arch) IsX86() bool {
	return a == ArchX86 || a == ArchX8664
}

// Listing is the result of loading a 32-bit value into a register.
// Decimal is the value as the caller wrote it; it differs from Value when
// the input was wider than 32 bits.
type Listing struct {
	Arch     Arch     `json:"arch"`
	Register string   `json:"register"`
	Value    uint32   `json:"value"`
	Decimal  string   `json:"decimal"`
	Hex      string   `json:"hex"`
	Assembly []string `json:"assembly"`
	Bytes    []byte   `json:"-"`
}

// Instruction is one instruction recovered by disassembling a listing.
type Instruction struct {
	Offset int    `json:"offset"`
	Bytes  string `json:"bytes"`
	Text   string `json:"text"`
}
