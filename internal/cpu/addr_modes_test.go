package cpu

import (
	"testing"

	"github.com/nevisdale/rmcore/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memMock struct {
	mock.Mock
}

func (m *memMock) Read8(addr uint32) (uint8, error) {
	args := m.Called(addr)
	return args.Get(0).(uint8), args.Error(1)
}

func (m *memMock) Read16(addr uint32) (uint16, error) {
	args := m.Called(addr)
	return args.Get(0).(uint16), args.Error(1)
}

func (m *memMock) Write8(addr uint32, data uint8) error {
	return m.Called(addr, data).Error(0)
}

func (m *memMock) Write16(addr uint32, data uint16) error {
	return m.Called(addr, data).Error(0)
}

// setAddressingRegs gives every base and index register a distinct value
// and puts DS and SS apart so the chosen segment shows in the address.
func setAddressingRegs(r *Registers) {
	r.Set16(BX, 0x0100)
	r.Set16(SI, 0x0010)
	r.Set16(DI, 0x0020)
	r.Set16(BP, 0x0200)
	r.SetSeg(DS, 0x1000)
	r.SetSeg(SS, 0x2000)
}

func Test_ResolveRM_RoundTrip(t *testing.T) {
	for b := 0; b < 0x100; b++ {
		m := modRM(b)

		mem := memory.New(0x40000)
		require.NoError(t, mem.Load(0, []uint8{0x89, uint8(b), 0x34, 0x12}))
		c := NewCPU(mem, nil)
		setAddressingRegs(&c.regs)

		expectedIP := uint16(0)
		switch m.mod() {
		case modMemDisp8:
			expectedIP = 1
		case modMemDisp16:
			expectedIP = 2
		}

		dst, err := c.resolveRM(m)
		require.NoError(t, err, "mode byte %02X", b)
		assert.Equal(t, expectedIP, c.regs.IP(), "displacement bytes consumed by %02X", b)
		require.NoError(t, c.write16(dst, 0xbeef))

		c.regs.SetIP(0)
		src, err := c.resolveRM(m)
		require.NoError(t, err)
		v, err := c.read16(src)
		require.NoError(t, err)
		assert.Equal(t, uint16(0xbeef), v, "word round trip through %02X", b)

		require.NoError(t, c.write8(src, 0x5a))
		v8, err := c.read8(src)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x5a), v8, "byte round trip through %02X", b)
	}
}

func Test_ResolveRM_Address(t *testing.T) {
	type testArgs struct {
		mode         uint8
		disp         []uint8
		expectedSeg  SegReg
		expectedEA   uint16
		expectedAddr uint32
	}

	testDo := func(t *testing.T, in testArgs) {
		mem := memory.New(0x40000)
		require.NoError(t, mem.Load(2, in.disp))
		c := NewCPU(mem, nil)
		setAddressingRegs(&c.regs)

		op, err := c.resolveRM(modRM(in.mode))
		require.NoError(t, err)

		assert.True(t, op.mem)
		assert.Equal(t, in.expectedSeg, op.seg, "segment")
		assert.Equal(t, in.expectedEA, op.ea, "effective address")
		assert.Equal(t, in.expectedAddr, op.addr, "physical address")
	}

	t.Run("[BX+SI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_000, expectedSeg: DS, expectedEA: 0x0110, expectedAddr: 0x10110})
	})

	t.Run("[BX+DI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_001, expectedSeg: DS, expectedEA: 0x0120, expectedAddr: 0x10120})
	})

	t.Run("[BP+SI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_010, expectedSeg: SS, expectedEA: 0x0210, expectedAddr: 0x20210})
	})

	t.Run("[BP+DI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_011, expectedSeg: SS, expectedEA: 0x0220, expectedAddr: 0x20220})
	})

	t.Run("[SI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_100, expectedSeg: DS, expectedEA: 0x0010, expectedAddr: 0x10010})
	})

	t.Run("[DI]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_101, expectedSeg: DS, expectedEA: 0x0020, expectedAddr: 0x10020})
	})

	t.Run("[BP] without displacement", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_110, expectedSeg: SS, expectedEA: 0x0200, expectedAddr: 0x20200})
	})

	t.Run("[BX]", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b00_000_111, expectedSeg: DS, expectedEA: 0x0100, expectedAddr: 0x10100})
	})

	t.Run("disp8 is added unsigned", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b01_000_000, disp: []uint8{0xfe}, expectedSeg: DS, expectedEA: 0x020e, expectedAddr: 0x1020e})
	})

	t.Run("disp8 with BP base", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b01_000_010, disp: []uint8{0x05}, expectedSeg: SS, expectedEA: 0x0215, expectedAddr: 0x20215})
	})

	t.Run("disp16 is little-endian", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b10_000_111, disp: []uint8{0x34, 0x12}, expectedSeg: DS, expectedEA: 0x1334, expectedAddr: 0x11334})
	})

	t.Run("effective address wraps", func(t *testing.T) {
		testDo(t, testArgs{mode: 0b10_000_110, disp: []uint8{0x00, 0xff}, expectedSeg: SS, expectedEA: 0x0100, expectedAddr: 0x20100})
	})
}

func Test_ResolveRM_Register(t *testing.T) {
	c := NewCPU(nil, nil)
	c.regs.Set16(SI, 0x1234)
	c.regs.Set16(DX, 0xabcd)

	op, err := c.resolveRM(modRM(0b11_000_110))
	require.NoError(t, err)
	assert.False(t, op.mem)

	v, err := c.read16(op)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v, "word access selects SI")

	v8, err := c.read8(op)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xab), v8, "byte access selects DH")

	assert.Equal(t, uint16(0), c.regs.IP(), "no displacement fetched")
}

func Test_ResolveRM_BusTraffic(t *testing.T) {
	bus := &memMock{}
	c := NewCPU(bus, nil)
	c.regs.SetSeg(CS, 0x0100)
	c.regs.SetIP(0x0010)

	// displacement bytes sit right after the mode byte
	bus.On("Read8", uint32(0x1012)).Return(uint8(0x34), nil).Once()
	bus.On("Read8", uint32(0x1013)).Return(uint8(0x12), nil).Once()
	bus.On("Read16", uint32(0x1234)).Return(uint16(0xcafe), nil).Once()

	op, err := c.resolveRM(modRM(0b10_000_111))
	require.NoError(t, err)
	v, err := c.read16(op)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xcafe), v)
	assert.Equal(t, uint16(0x0012), c.regs.IP())
	bus.AssertExpectations(t)
}

func Test_ResolveRM_DisplacementOutOfBounds(t *testing.T) {
	mem := memory.New(2)
	require.NoError(t, mem.Load(0, []uint8{0x89, 0x47}))
	c := NewCPU(mem, nil)

	_, err := c.resolveRM(modRM(0x47))
	assert.ErrorIs(t, err, memory.ErrOutOfBounds)
	assert.Equal(t, uint16(0), c.regs.IP())
}

func Test_SegOperand(t *testing.T) {
	for reg := uint8(0); reg < 8; reg++ {
		m := modRM(0b11_000_000 | reg<<3)
		seg, err := segOperand(m)
		if reg > uint8(DS) {
			assert.ErrorIs(t, err, ErrInvalidOperandEncoding, "reg field %d", reg)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, SegReg(reg), seg)
	}
}
