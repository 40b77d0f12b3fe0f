// movimm prints the instructions and encoding bytes that load a decimal
// value into a register on x86, x86-64, ARM 32-bit and ARM 64-bit.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/maxgio92/movimm"
	"github.com/spf13/cobra"
)

const invalidNumberMsg = "Error: Please enter a valid number!"

type options struct {
	x86Reg   string
	arm32Reg string
	arm64Reg string
	disasm   bool
	json     bool
	logLevel string
}

// errInvalidNumber aborts the run before any listing is printed.
var errInvalidNumber = errors.New("invalid number")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "movimm [value]",
		Short: "Encode a decimal value as register-load instructions",
		Long: `movimm renders the assembly and raw encoding bytes that load a 32-bit
value into a register for x86, x86-64, armeabi-v7a and arm64-v8a.

Without a value argument it prompts for the value and the registers.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			return run(cmd, args, opts, logger, nil)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.Flags().StringVar(&opts.x86Reg, "x86-reg", movimm.DefaultX86Register, "Register for x86/x86-64")
	cmd.Flags().StringVar(&opts.arm32Reg, "arm32-reg", movimm.DefaultARM32Register, "Register for arm32")
	cmd.Flags().StringVar(&opts.arm64Reg, "arm64-reg", movimm.DefaultARM64Register, "Register for arm64")
	cmd.Flags().BoolVar(&opts.disasm, "disasm", false, "Disassemble the emitted bytes")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print listings as JSON")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

// run drives one invocation. When p is nil and no value argument is given, a
// prompter is opened on the command's input.
func run(cmd *cobra.Command, args []string, opts *options, logger *slog.Logger, p prompter) error {
	out := cmd.OutOrStdout()

	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		if p == nil {
			np, err := newPrompter(cmd.InOrStdin(), out)
			if err != nil {
				return fmt.Errorf("failed to start prompt: %w", err)
			}
			defer np.Close()
			p = np
		}
		var err error
		input, err = p.Prompt("Enter a decimal number (e.g., 9999000): ")
		if err != nil {
			return fmt.Errorf("failed to read value: %w", err)
		}
	}

	value, decimal, err := parseValue(input, logger)
	if err != nil {
		logger.Debug("rejected value", "input", input, "err", err)
		fmt.Fprintln(out, invalidNumberMsg)
		return nil
	}

	if len(args) == 0 {
		if err := promptRegisters(out, p, opts); err != nil {
			return err
		}
	}

	regs := map[movimm.Arch]string{
		movimm.ArchX86:   opts.x86Reg,
		movimm.ArchX8664: opts.x86Reg,
		movimm.ArchARM32: opts.arm32Reg,
		movimm.ArchARM64: opts.arm64Reg,
	}

	blocks := make([]block, 0, len(movimm.Archs()))
	for _, arch := range movimm.Archs() {
		b := newBlock(arch, value, decimal, regs[arch], opts.disasm)
		if b.err != nil {
			logger.Info("listing not generated", "arch", arch, "register", regs[arch], "err", b.err)
		} else {
			logger.Debug("generated listing", "arch", arch, "register", b.listing.Register, "hex", b.listing.Hex)
		}
		blocks = append(blocks, b)
	}

	if opts.json {
		return writeJSON(out, blocks)
	}
	writeText(out, blocks)
	return nil
}

var low32 = new(big.Int).SetUint64(0xFFFFFFFF)

// parseValue accepts any base-10 integer and keeps its low 32 bits, two's
// complement for negatives. The canonical decimal of the full input is
// returned alongside for display.
func parseValue(s string, logger *slog.Logger) (uint32, string, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	value := uint32(new(big.Int).And(v, low32).Uint64())
	if v.Sign() < 0 || v.Cmp(low32) > 0 {
		logger.Warn("value truncated to 32 bits", "input", v.String(), "value", value)
	}
	return value, v.String(), nil
}

func promptRegisters(out io.Writer, p prompter, opts *options) error {
	families := []struct {
		label string
		arch  movimm.Arch
		reg   *string
	}{
		{"x86/x86-64", movimm.ArchX86, &opts.x86Reg},
		{"arm32", movimm.ArchARM32, &opts.arm32Reg},
		{"arm64", movimm.ArchARM64, &opts.arm64Reg},
	}
	for _, f := range families {
		fmt.Fprintf(out, "\nAvailable registers for %s: %v\n", f.label, movimm.ValidRegisters(f.arch))
		reply, err := p.Prompt(fmt.Sprintf("Enter register for %s (default: %s): ", f.label, *f.reg))
		if err != nil {
			return fmt.Errorf("failed to read %s register: %w", f.label, err)
		}
		if reply != "" {
			*f.reg = reply
		}
	}
	return nil
}
