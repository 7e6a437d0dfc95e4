package probe

// Transport is the debug link to an attached device. Every register or
// memory access travels over a serial debug transport, so any access can
// fail with a communication error. A failed transport is presumed gone:
// callers must not try to issue cleanup writes after one.
type Transport interface {
	// ReadWord reads a 32-bit word from the target address space.
	ReadWord(addr uint32) (uint32, error)

	// WriteWord writes a 32-bit word to the target address space.
	WriteWord(addr uint32, value uint32) error

	// ReadBytes fills buf from the target address space.
	ReadBytes(addr uint32, buf []byte) error

	// WriteBytes streams data to the target address space as a single
	// block transfer. Peripherals that auto-increment (flash write
	// buffers) rely on this being one transfer, not per-word writes.
	WriteBytes(addr uint32, data []byte) error

	Close() error
}
