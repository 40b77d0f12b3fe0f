package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter replays canned replies in order.
type scriptedPrompter struct {
	replies []string
	labels  []string
}

func (p *scriptedPrompter) Prompt(label string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.replies) == 0 {
		return "", io.EOF
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return strings.TrimSpace(r), nil
}

func (p *scriptedPrompter) Close() error { return nil }

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const defaultOutput = `
==================================================
x86 (32-bit):
mov eax, 0x00989298
ret
B8 98 92 98 00 C3 = 9999000

==================================================
x86-64 (64-bit):
mov eax, 0x00989298
ret
B8 98 92 98 00 C3 = 9999000

==================================================
armeabi-v7a (ARM 32-bit):
movw r9, #0x9298
movt r9, #0x0098
bx lr
98 92 09 E3 98 00 40 E3 1E FF 2F E1 = 9999000

==================================================
arm64-v8a (ARM 64-bit):
movz x9, #0x9298, lsl #0
movk x9, #0x0098, lsl #16
ret
09 92 80 D2 09 00 00 F2 C0 03 5F D6 = 9999000
==================================================
`

func TestRun_Defaults(t *testing.T) {
	assert.Equal(t, defaultOutput, execute(t, "9999000"))
}

func TestRun_InvalidNumber(t *testing.T) {
	for _, in := range []string{"abc", "12.5", "0x10", "1_000"} {
		t.Run(in, func(t *testing.T) {
			out := execute(t, in)
			assert.Equal(t, invalidNumberMsg+"\n", out)
			assert.NotContains(t, out, "x86")
		})
	}
}

func TestRun_InvalidRegisterKeepsOtherBlocks(t *testing.T) {
	out := execute(t, "--x86-reg", "zzz", "--arm64-reg", "x31", "305419896")

	assert.Equal(t, 2, strings.Count(out, "Error: Invalid register zzz for"))
	assert.Contains(t, out, "Error: Invalid register zzz for x86. Choose from [eax ebx ecx edx esi edi ebp esp]")
	assert.Contains(t, out, "Error: Invalid register zzz for x86-64.")
	assert.Contains(t, out, "Error: Invalid register x31 for arm64.")
	assert.Contains(t, out, "movw r9, #0x5678")
	assert.Equal(t, 5, strings.Count(out, strings.Repeat("=", 50)))
}

func TestRun_Truncates(t *testing.T) {
	out := execute(t, "4294967297")
	assert.Contains(t, out, "mov eax, 0x00000001")
	assert.Contains(t, out, "B8 01 00 00 00 C3 = 4294967297")
}

func TestRun_BeyondInt64(t *testing.T) {
	// 99999999999999999999 mod 2^32 = 0x630FFFFF
	out := execute(t, "99999999999999999999")
	assert.NotContains(t, out, invalidNumberMsg)
	assert.Contains(t, out, "mov eax, 0x630fffff")
	assert.Contains(t, out, "B8 FF FF 0F 63 C3 = 99999999999999999999")
	assert.Contains(t, out, "movw r9, #0xffff")
	assert.Contains(t, out, "movt r9, #0x630f")
	assert.Equal(t, 4, strings.Count(out, "= 99999999999999999999"))
}

func TestRun_Disasm(t *testing.T) {
	out := execute(t, "--disasm", "42")
	assert.Equal(t, 4, strings.Count(out, "disassembly:"))
	assert.Contains(t, out, "0005: C3")
}

func TestRun_JSON(t *testing.T) {
	out := execute(t, "--json", "--arm32-reg", "r99", "9999000")

	var got []jsonBlock
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 4)

	assert.Equal(t, "x86", string(got[0].Arch))
	assert.Equal(t, "00989298", got[0].Hex)
	assert.Equal(t, "B8 98 92 98 00 C3", got[0].HexCode)
	assert.Equal(t, []string{"mov eax, 0x00989298", "ret"}, got[0].Assembly)

	assert.Equal(t, "arm32", string(got[2].Arch))
	assert.Contains(t, got[2].Error, "Invalid register r99")
	assert.Empty(t, got[2].HexCode)

	assert.Equal(t, "x9", got[3].Register)
	assert.Equal(t, "9999000", got[3].Decimal)
}

func TestRun_BadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--log-level", "loud", "1"})
	assert.Error(t, cmd.Execute())
}

func TestRun_Interactive(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	opts := &options{x86Reg: "eax", arm32Reg: "r9", arm64Reg: "x9"}
	p := &scriptedPrompter{replies: []string{"9999000", "ebx", "", " x0 "}}

	require.NoError(t, run(cmd, nil, opts, discardLogger(), p))

	require.Len(t, p.labels, 4)
	assert.Equal(t, "Enter a decimal number (e.g., 9999000): ", p.labels[0])
	assert.Equal(t, "Enter register for x86/x86-64 (default: eax): ", p.labels[1])
	assert.Equal(t, "Enter register for arm32 (default: r9): ", p.labels[2])
	assert.Equal(t, "Enter register for arm64 (default: x9): ", p.labels[3])

	s := out.String()
	assert.Contains(t, s, "Available registers for x86/x86-64: [eax ebx ecx edx esi edi ebp esp]")
	assert.Contains(t, s, "Available registers for arm32: [r0 r1 r2 r3 r4 r5 r6 r7 r8 r9 r10 r11 r12]")
	assert.Contains(t, s, "mov ebx, 0x00989298")
	assert.Contains(t, s, "BB 98 92 98 00 C3 = 9999000")
	assert.Contains(t, s, "movw r9, #0x9298")
	assert.Contains(t, s, "movz x0, #0x9298, lsl #0")
}

func TestRun_InteractiveInvalidNumber(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	opts := &options{x86Reg: "eax", arm32Reg: "r9", arm64Reg: "x9"}
	p := &scriptedPrompter{replies: []string{"not a number"}}

	require.NoError(t, run(cmd, nil, opts, discardLogger(), p))
	assert.Equal(t, invalidNumberMsg+"\n", out.String())
	// Registers are never asked for once the value is rejected.
	assert.Len(t, p.labels, 1)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in          string
		want        uint32
		wantDecimal string
		wantErr     bool
	}{
		{"0", 0, "0", false},
		{" 9999000 ", 9999000, "9999000", false},
		{"+7", 7, "7", false},
		{"4294967295", 0xFFFFFFFF, "4294967295", false},
		{"4294967296", 0, "4294967296", false},
		{"-1", 0xFFFFFFFF, "-1", false},
		{"18446744073709551615", 0xFFFFFFFF, "18446744073709551615", false},
		{"99999999999999999999", 0x630FFFFF, "99999999999999999999", false},
		{"ten", 0, "", true},
		{"1e3", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, decimal, err := parseValue(tt.in, discardLogger())
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDecimal, decimal)
		})
	}
}

func TestParseValue_WarnsOnTruncation(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	_, _, err := parseValue("9999000", logger)
	require.NoError(t, err)
	assert.Empty(t, logs.String())

	_, _, err = parseValue("4294967297", logger)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "value truncated to 32 bits")
}

func TestRun_PipedInputEchoesPrompts(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader("9999000\nebx\n\nx0\n"))
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "Enter a decimal number (e.g., 9999000): ")
	assert.Contains(t, s, "Enter register for x86/x86-64 (default: eax): ")
	assert.Contains(t, s, "Enter register for arm32 (default: r9): ")
	assert.Contains(t, s, "Enter register for arm64 (default: x9): ")
	assert.Contains(t, s, "BB 98 92 98 00 C3 = 9999000")
	assert.Contains(t, s, "movw r9, #0x9298")
	assert.Contains(t, s, "movz x0, #0x9298, lsl #0")
}

func TestLinePrompter_EOF(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(strings.NewReader(""), &out)
	_, err := p.Prompt("value: ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "value: ", out.String())
}
