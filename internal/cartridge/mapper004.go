package cartridge

const (
	prgBank8K = 0x2000
	chrBank1K = 0x0400
)

// mapper004 implements MMC3 (mapper 4).
// Eight bank registers drive four 8KB PRG windows and eight 1KB CHR
// windows; a scanline counter clocked by the PPU raises IRQ when it reaches
// zero with interrupts enabled.
type mapper004 struct {
	cart   *Cartridge
	mirror MirrorMode

	bankSelect uint8
	bankRegs   [8]uint8

	prgRAMEnable  bool
	prgRAMProtect bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	prgOffset [4]int // 8KB windows at $8000/$A000/$C000/$E000
	chrOffset [8]int // 1KB windows
}

func newMapper004(cart *Cartridge, mirror MirrorMode) *mapper004 {
	m := &mapper004{
		cart:         cart,
		mirror:       mirror,
		prgRAMEnable: true,
	}
	m.updatePRGBanks()
	m.updateCHRBanks()
	return m
}

func (m *mapper004) updatePRGBanks() {
	banks := len(m.cart.prgROM) / prgBank8K
	last := banks - 1
	secondToLast := banks - 2

	if m.bankSelect&0x40 != 0 {
		// $C000 swappable, $8000 fixed to second-to-last
		m.prgOffset[0] = secondToLast * prgBank8K
		m.prgOffset[1] = (int(m.bankRegs[7]) % banks) * prgBank8K
		m.prgOffset[2] = (int(m.bankRegs[6]) % banks) * prgBank8K
	} else {
		// $8000 swappable, $C000 fixed to second-to-last
		m.prgOffset[0] = (int(m.bankRegs[6]) % banks) * prgBank8K
		m.prgOffset[1] = (int(m.bankRegs[7]) % banks) * prgBank8K
		m.prgOffset[2] = secondToLast * prgBank8K
	}
	m.prgOffset[3] = last * prgBank8K
}

func (m *mapper004) updateCHRBanks() {
	banks := len(m.cart.chrMem) / chrBank1K
	if banks == 0 {
		return
	}

	// R0/R1 are 2KB banks (low bit ignored), R2-R5 are 1KB banks. Bit 7 of
	// the bank select swaps which half of the pattern space gets which.
	r0 := int(m.bankRegs[0] & 0xFE)
	r1 := int(m.bankRegs[1] & 0xFE)
	if m.bankSelect&0x80 != 0 {
		m.chrOffset[0] = (int(m.bankRegs[2]) % banks) * chrBank1K
		m.chrOffset[1] = (int(m.bankRegs[3]) % banks) * chrBank1K
		m.chrOffset[2] = (int(m.bankRegs[4]) % banks) * chrBank1K
		m.chrOffset[3] = (int(m.bankRegs[5]) % banks) * chrBank1K
		m.chrOffset[4] = (r0 % banks) * chrBank1K
		m.chrOffset[5] = ((r0 + 1) % banks) * chrBank1K
		m.chrOffset[6] = (r1 % banks) * chrBank1K
		m.chrOffset[7] = ((r1 + 1) % banks) * chrBank1K
	} else {
		m.chrOffset[0] = (r0 % banks) * chrBank1K
		m.chrOffset[1] = ((r0 + 1) % banks) * chrBank1K
		m.chrOffset[2] = (r1 % banks) * chrBank1K
		m.chrOffset[3] = ((r1 + 1) % banks) * chrBank1K
		m.chrOffset[4] = (int(m.bankRegs[2]) % banks) * chrBank1K
		m.chrOffset[5] = (int(m.bankRegs[3]) % banks) * chrBank1K
		m.chrOffset[6] = (int(m.bankRegs[4]) % banks) * chrBank1K
		m.chrOffset[7] = (int(m.bankRegs[5]) % banks) * chrBank1K
	}
}

func (m *mapper004) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		bank := int(address-0x8000) / prgBank8K
		offset := int(address-0x8000) % prgBank8K
		return m.cart.prgROM[(m.prgOffset[bank]+offset)%len(m.cart.prgROM)]
	case address >= 0x6000:
		if m.prgRAMEnable {
			return m.cart.sram[address-0x6000]
		}
	}
	return 0
}

func (m *mapper004) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		if address >= 0x6000 && m.prgRAMEnable && !m.prgRAMProtect {
			m.cart.sram[address-0x6000] = value
		}
		return
	}

	even := address&0x0001 == 0
	switch {
	case address < 0xA000:
		if even { // bank select
			m.bankSelect = value
			m.updatePRGBanks()
			m.updateCHRBanks()
		} else { // bank data
			reg := m.bankSelect & 0x07
			m.bankRegs[reg] = value
			if reg < 6 {
				m.updateCHRBanks()
			} else {
				m.updatePRGBanks()
			}
		}
	case address < 0xC000:
		if even { // mirroring
			if value&0x01 != 0 {
				m.mirror = MirrorHorizontal
			} else {
				m.mirror = MirrorVertical
			}
		} else { // PRG RAM protect
			m.prgRAMProtect = value&0x40 != 0
			m.prgRAMEnable = value&0x80 != 0
		}
	case address < 0xE000:
		if even { // IRQ latch
			m.irqLatch = value
		} else { // IRQ reload on next scanline clock
			m.irqCounter = 0
			m.irqReload = true
		}
	default:
		if even { // IRQ disable + acknowledge
			m.irqEnabled = false
			m.irqPending = false
		} else { // IRQ enable
			m.irqEnabled = true
		}
	}
}

// Scanline clocks the IRQ counter. The PPU emits this signal once per
// rendered scanline at the sprite fetch edge.
func (m *mapper004) Scanline() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mapper004) ReadCHR(address uint16) uint8 {
	bank := int(address) / chrBank1K
	offset := int(address) % chrBank1K
	return m.cart.chrMem[(m.chrOffset[bank]+offset)%len(m.cart.chrMem)]
}

func (m *mapper004) WriteCHR(address uint16, value uint8) {
	if !m.cart.hasCHRRAM {
		return
	}
	bank := int(address) / chrBank1K
	offset := int(address) % chrBank1K
	m.cart.chrMem[(m.chrOffset[bank]+offset)%len(m.cart.chrMem)] = value
}

func (m *mapper004) Mirroring() MirrorMode { return m.mirror }
func (m *mapper004) IRQPending() bool      { return m.irqPending }
