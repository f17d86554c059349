package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ConventionalSize is the 640 KiB of conventional memory of a real-mode machine.
const ConventionalSize = 640 * 1024

var ErrOutOfBounds = errors.New("memory access out of bounds")

// Memory is a flat, linearly addressed byte store.
// It knows nothing about segments: callers pass physical addresses.
type Memory struct {
	data []uint8
}

func New(size int) *Memory {
	if size <= 0 {
		panic(fmt.Sprintf("memory: invalid size %d", size))
	}
	return &Memory{data: make([]uint8, size)}
}

func (m *Memory) Size() int {
	return len(m.data)
}

// check fails when any of the n bytes starting at addr is outside the buffer.
func (m *Memory) check(op string, addr uint32, n int) error {
	if uint64(addr)+uint64(n) > uint64(len(m.data)) {
		return fmt.Errorf("%w: %s at %05X (size %05X)", ErrOutOfBounds, op, addr, len(m.data))
	}
	return nil
}

func (m *Memory) Read8(addr uint32) (uint8, error) {
	if err := m.check("read8", addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Read16 reads a little-endian word. No alignment is required.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	if err := m.check("read16", addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[addr:]), nil
}

func (m *Memory) Write8(addr uint32, data uint8) error {
	if err := m.check("write8", addr, 1); err != nil {
		return err
	}
	m.data[addr] = data
	return nil
}

func (m *Memory) Write16(addr uint32, data uint16) error {
	if err := m.check("write16", addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[addr:], data)
	return nil
}

// Load copies data into memory starting at addr.
// Nothing is written if the block does not fit.
func (m *Memory) Load(addr uint32, data []uint8) error {
	if err := m.check("load", addr, len(data)); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}
