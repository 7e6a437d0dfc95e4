// Package probesim models the flash subsystem of an STM32H74x closely
// enough to exercise the driver stack without hardware: two flash
// controller register blocks with the lock/command/status protocol, a
// 2 MiB dual bank flash array, the RAM windows, the DBGMCU identity block
// and the factory UID words.
package probesim

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	fpec1Base = 0x52002000
	fpecSpan  = 0x100

	regACR     = 0x00
	regKEYR    = 0x04
	regOPTKEYR = 0x08
	regCR      = 0x0c
	regSR      = 0x10
	regCCR     = 0x14
	regOPTCR   = 0x18
	regOPTSR   = 0x20
	regCRCCR   = 0x50
	regCRCDATA = 0x5c

	key1 = 0x45670123
	key2 = 0xCDEF89AB

	crLock        = 1 << 0
	crProgram     = 1 << 1
	crSectorErase = 1 << 2
	crBankErase   = 1 << 3
	crStart       = 1 << 7
	crCRCEnable   = 1 << 15

	srComplete   = 1 << 16
	srProgSeqErr = 1 << 18

	crccrStart   = 1 << 16
	optsrIWDG1SW = 1 << 4

	dbgmcuIDC = 0x5c001000
	dbgmcuCR  = 0x5c001004

	bank1Start = 0x08000000
	bank2Start = 0x08100000
	bankLength = 0x00100000
	sectorSize = 0x20000

	uidBase    = 0x1ff1e800
	uidBase7Bx = 0x08fff800
)

// Config selects the simulated silicon. The zero value is an STM32H743
// revision Y with a software watchdog.
type Config struct {
	PartID       uint16 // DBGMCU_IDC[11:0]
	RevisionID   uint16 // DBGMCU_IDC[31:16]
	HardwareIWDG bool   // run the IWDG as a hardware watchdog
	UID          [3]uint32
}

type bank struct {
	base uint32

	locked   bool
	keyStage int

	cr      uint32
	sr      uint32
	acr     uint32
	crccr   uint32
	crcData uint32
}

type window struct {
	start uint32
	data  []byte
}

// Sim implements probe.Transport against the software device model.
type Sim struct {
	cfg   Config
	banks [2]bank
	flash [2][]byte
	ram   []window
	dbgCR uint32
}

func New(cfg Config) *Sim {
	if cfg.PartID == 0 {
		cfg.PartID = 0x450
	}
	if cfg.RevisionID == 0 {
		cfg.RevisionID = 0x1003
	}
	if cfg.UID == ([3]uint32{}) {
		cfg.UID = [3]uint32{0x30343756, 0x30313233, 0x34353637}
	}

	s := &Sim{cfg: cfg}
	for i := range s.banks {
		s.banks[i] = bank{base: fpec1Base + uint32(i)*fpecSpan, locked: true}
		s.flash[i] = make([]byte, bankLength)
		for j := range s.flash[i] {
			s.flash[i][j] = 0xff
		}
	}

	for _, w := range []struct{ start, length uint32 }{
		{0x00000000, 0x10000},
		{0x20000000, 0x20000},
		{0x24000000, 0x80000},
		{0x30000000, 0x20000},
		{0x30020000, 0x20000},
		{0x30040000, 0x08000},
		{0x38000000, 0x10000},
	} {
		s.ram = append(s.ram, window{start: w.start, data: make([]byte, w.length)})
	}
	return s
}

// Bank exposes the raw flash array of one bank for test assertions.
func (s *Sim) Bank(i int) []byte { return s.flash[i] }

func (s *Sim) Close() error { return nil }

func (s *Sim) bankForReg(addr uint32) (*bank, uint32, bool) {
	for i := range s.banks {
		b := &s.banks[i]
		if addr >= b.base && addr < b.base+fpecSpan {
			return b, addr - b.base, true
		}
	}
	return nil, 0, false
}

func (s *Sim) memory(addr uint32) ([]byte, uint32, bool) {
	if addr >= bank1Start && addr < bank2Start+bankLength {
		i := 0
		base := uint32(bank1Start)
		if addr >= bank2Start {
			i, base = 1, bank2Start
		}
		return s.flash[i], addr - base, true
	}
	for _, w := range s.ram {
		if addr >= w.start && addr < w.start+uint32(len(w.data)) {
			return w.data, addr - w.start, true
		}
	}
	return nil, 0, false
}

func (s *Sim) uidWord(addr uint32) (uint32, bool) {
	base := uint32(uidBase)
	if s.cfg.PartID == 0x480 {
		base = uidBase7Bx
	}
	if addr >= base && addr < base+12 && addr%4 == 0 {
		return s.cfg.UID[(addr-base)/4], true
	}
	return 0, false
}

func (s *Sim) ReadWord(addr uint32) (uint32, error) {
	if b, off, ok := s.bankForReg(addr); ok {
		return s.readReg(b, off), nil
	}

	switch addr {
	case dbgmcuIDC:
		return uint32(s.cfg.RevisionID)<<16 | uint32(s.cfg.PartID), nil
	case dbgmcuCR:
		return s.dbgCR, nil
	}

	if v, ok := s.uidWord(addr); ok {
		return v, nil
	}
	if mem, off, ok := s.memory(addr); ok {
		return binary.LittleEndian.Uint32(mem[off : off+4]), nil
	}
	return 0, fmt.Errorf("bus fault: read at %08x", addr)
}

func (s *Sim) WriteWord(addr uint32, value uint32) error {
	if b, off, ok := s.bankForReg(addr); ok {
		s.writeReg(b, off, value)
		return nil
	}

	if addr == dbgmcuCR {
		s.dbgCR = value
		return nil
	}

	if mem, off, ok := s.memory(addr); ok {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], value)
		return s.memWrite(addr, mem, off, buf[:])
	}
	return fmt.Errorf("bus fault: write at %08x", addr)
}

func (s *Sim) ReadBytes(addr uint32, buf []byte) error {
	mem, off, ok := s.memory(addr)
	if !ok {
		return fmt.Errorf("bus fault: read at %08x", addr)
	}
	copy(buf, mem[off:])
	return nil
}

func (s *Sim) WriteBytes(addr uint32, data []byte) error {
	mem, off, ok := s.memory(addr)
	if !ok {
		return fmt.Errorf("bus fault: write at %08x", addr)
	}
	return s.memWrite(addr, mem, off, data)
}

// memWrite applies a memory-space write. Writes into the flash windows are
// routed through the controller model: they require an unlocked bank in
// program mode and can only clear bits, as real flash does.
func (s *Sim) memWrite(addr uint32, mem []byte, off uint32, data []byte) error {
	if addr >= bank1Start && addr < bank2Start+bankLength {
		b := &s.banks[0]
		if addr >= bank2Start {
			b = &s.banks[1]
		}
		if b.locked || b.cr&crProgram == 0 {
			b.sr |= srProgSeqErr
			return nil
		}
		for i, v := range data {
			mem[off+uint32(i)] &= v
		}
		b.sr |= srComplete
		return nil
	}

	copy(mem[off:], data)
	return nil
}

func (s *Sim) readReg(b *bank, off uint32) uint32 {
	switch off {
	case regACR:
		return b.acr
	case regCR:
		cr := b.cr
		if b.locked {
			cr |= crLock
		}
		return cr
	case regSR:
		return b.sr
	case regOPTSR:
		if s.cfg.HardwareIWDG {
			return 0
		}
		return optsrIWDG1SW
	case regCRCCR:
		return b.crccr
	case regCRCDATA:
		return b.crcData
	}
	return 0
}

func (s *Sim) writeReg(b *bank, off uint32, value uint32) {
	switch off {
	case regACR:
		b.acr = value

	case regKEYR:
		if !b.locked {
			return
		}
		if b.keyStage == 0 && value == key1 {
			b.keyStage = 1
		} else if b.keyStage == 1 && value == key2 {
			b.locked = false
			b.keyStage = 0
		} else {
			b.keyStage = 0
		}

	case regCR:
		if b.locked {
			return
		}
		b.cr = value &^ crStart
		if value&crStart == 0 {
			return
		}
		bankIndex := int((b.base - fpec1Base) / fpecSpan)
		if value&crBankErase != 0 {
			s.eraseRange(bankIndex, 0, bankLength)
			b.sr |= srComplete
		} else if value&crSectorErase != 0 {
			sector := (value >> 8) & 7
			s.eraseRange(bankIndex, sector*sectorSize, sectorSize)
			b.sr |= srComplete
		}

	case regCCR:
		b.sr &^= value

	case regCRCCR:
		b.crccr = value &^ crccrStart
		if value&crccrStart != 0 && b.cr&crCRCEnable != 0 {
			bankIndex := int((b.base - fpec1Base) / fpecSpan)
			b.crcData = crc32.ChecksumIEEE(s.flash[bankIndex])
		}
	}
}

func (s *Sim) eraseRange(bankIndex int, off uint32, length uint32) {
	mem := s.flash[bankIndex][off : off+length]
	for i := range mem {
		mem[i] = 0xff
	}
}
