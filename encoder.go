package movimm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRegister is matched by every *RegisterError.
	ErrInvalidRegister = errors.New("invalid register")
	// ErrUnsupportedArch is returned for architectures outside Archs.
	ErrUnsupportedArch = errors.New("unsupported architecture")
)

// RegisterError reports a register name that is not valid for Arch.
type RegisterError struct {
	Arch     Arch
	Register string
	Valid    []string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("Error: Invalid register %s for %s. Choose from %v", e.Register, e.Arch, e.Valid)
}

func (e *RegisterError) Is(target error) bool {
	return target == ErrInvalidRegister
}

// Generate builds the listing that loads value into reg on arch.
// An empty reg selects DefaultRegister(arch). A register outside
// ValidRegisters(arch) yields a *RegisterError.
func Generate(arch Arch, value uint32, reg string) (*Listing, error) {
	if !slices.Contains(Archs(), arch) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArch, arch)
	}
	if reg == "" {
		reg = DefaultRegister(arch)
	}
	valid := ValidRegisters(arch)
	idx := slices.Index(valid, reg)
	if idx < 0 {
		return nil, &RegisterError{Arch: arch, Register: reg, Valid: valid}
	}

	l := &Listing{
		Arch:     arch,
		Register: reg,
		Value:    value,
		Decimal:  strconv.FormatUint(uint64(value), 10),
		Hex:      fmt.Sprintf("%08X", value),
	}

	// Catalog position doubles as the ARM register number.
	low, high := uint16(value), uint16(value>>16)
	regNum := byte(idx)

	switch arch {
	case ArchX86, ArchX8664:
		op, err := strconv.ParseUint(OpcodeFor(reg, arch), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("failed to parse opcode for %s: %w", reg, err)
		}
		l.Assembly = []string{
			fmt.Sprintf("mov %s, 0x%08x", reg, value),
			"ret",
		}
		l.Bytes = []byte{byte(op), 0, 0, 0, 0, 0xC3}
		binary.LittleEndian.PutUint32(l.Bytes[1:5], value)
	case ArchARM32:
		l.Assembly = []string{
			fmt.Sprintf("movw %s, #0x%04x", reg, low),
			fmt.Sprintf("movt %s, #0x%04x", reg, high),
			"bx lr",
		}
		l.Bytes = []byte{
			byte(low), byte(low >> 8), regNum, 0xE3,
			byte(high), byte(high >> 8), 0x40, 0xE3,
			0x1E, 0xFF, 0x2F, 0xE1,
		}
	case ArchARM64:
		// Only the upper byte of each half lands in the encoding.
		l.Assembly = []string{
			fmt.Sprintf("movz %s, #0x%04x, lsl #0", reg, low),
			fmt.Sprintf("movk %s, #0x%04x, lsl #16", reg, high),
			"ret",
		}
		l.Bytes = []byte{
			regNum, byte(low >> 8), 0x80, 0xD2,
			regNum, byte(high >> 8), 0x00, 0xF2,
			0xC0, 0x03, 0x5F, 0xD6,
		}
	}
	return l, nil
}

// GenerateX86 is Generate for ArchX86.
func GenerateX86(value uint32, reg string) (*Listing, error) {
	return Generate(ArchX86, value, reg)
}

// GenerateX8664 is Generate for ArchX8664.
func GenerateX8664(value uint32, reg string) (*Listing, error) {
	return Generate(ArchX8664, value, reg)
}

// GenerateARM32 is Generate for ArchARM32.
func GenerateARM32(value uint32, reg string) (*Listing, error) {
	return Generate(ArchARM32, value, reg)
}

// GenerateARM64 is Generate for ArchARM64.
func GenerateARM64(value uint32, reg string) (*Listing, error) {
	return Generate(ArchARM64, value, reg)
}

// Render returns the printable block for arch, or the error text when the
// listing cannot be generated.
func Render(arch Arch, value uint32, reg string) string {
	return RenderResult(Generate(arch, value, reg))
}

// RenderResult prints either outcome of Generate: the error text when err is
// set, the listing block otherwise.
func RenderResult(l *Listing, err error) string {
	if err != nil {
		return err.Error()
	}
	return l.String()
}

// HexCode returns the encoding as space-separated uppercase byte tokens.
func (l *Listing) HexCode() string {
	return hexTokens(l.Bytes)
}

func (l *Listing) String() string {
	var b strings.Builder
	b.WriteString(l.Arch.Title())
	b.WriteString(":\n")
	for _, line := range l.Assembly {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	decimal := l.Decimal
	if decimal == "" {
		decimal = strconv.FormatUint(uint64(l.Value), 10)
	}
	fmt.Fprintf(&b, "%s = %s", l.HexCode(), decimal)
	return b.String()
}

// Halves returns the low and high 16-bit immediates of an ARM listing.
// arm32 carries both halves little-endian in its encoding; the arm64
// encoding keeps only their upper bytes, so those are read back from the
// movz/movk text. The x86 family has no halves and returns zeros.
func (l *Listing) Halves() (low, high uint16) {
	switch l.Arch {
	case ArchARM32:
		if len(l.Bytes) < 6 {
			return 0, 0
		}
		return binary.LittleEndian.Uint16(l.Bytes[0:2]), binary.LittleEndian.Uint16(l.Bytes[4:6])
	case ArchARM64:
		if len(l.Assembly) < 2 {
			return 0, 0
		}
		return armImmediate(l.Assembly[0]), armImmediate(l.Assembly[1])
	}
	return 0, 0
}

// Immediate reassembles the loaded value from the listing: the
// little-endian imm32 after the opcode byte on x86, high<<16|low on ARM.
func (l *Listing) Immediate() uint32 {
	if l.Arch.IsX86() {
		if len(l.Bytes) < 5 {
			return 0
		}
		return binary.LittleEndian.Uint32(l.Bytes[1:5])
	}
	low, high := l.Halves()
	return uint32(high)<<16 | uint32(low)
}

// armImmediate extracts the #0xNNNN operand of a movz/movk line.
func armImmediate(line string) uint16 {
	i := strings.Index(line, "#0x")
	if i < 0 || len(line) < i+7 {
		return 0
	}
	v, err := strconv.ParseUint(line[i+3:i+7], 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func hexTokens(code []byte) string {
	tokens := make([]string, len(code))
	for i, c := range code {
		tokens[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(tokens, " ")
}
