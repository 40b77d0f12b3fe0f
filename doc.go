// Package movimm renders short instruction sequences that load a 32-bit
// immediate into a register, together with their literal encoding bytes.
//
// Four targets are supported: x86 (mov reg, imm32; ret), x86-64 (same
// encoding), ARM 32-bit (movw/movt; bx lr) and ARM 64-bit (movz/movk; ret).
// Every listing comes from a fixed per-architecture template: the value is
// split into byte fields and interleaved with a register-specific opcode or
// register index.
//
// Use [Generate] (or the per-architecture helpers such as [GenerateX86]) to
// build a [Listing], and [Disassemble] to see how the emitted bytes decode on
// real hardware.
package movimm
