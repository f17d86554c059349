package machine

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/nevisdale/rmcore/internal/cpu"
	"github.com/nevisdale/rmcore/internal/memory"
	"golang.org/x/exp/maps"
)

// Runs the per-opcode JSON vectors of the SingleStepTests 8088 suite
// (one file per opcode, "00.json" or "00.json.gz") against the CPU.
func Test_CPU_SingleStepTest(t *testing.T) {
	t.Parallel()

	type cpuState struct {
		Regs map[string]uint16 `json:"regs"`

		// slice of elements where
		// element[0] is address
		// element[1] is value
		RAM [][]uint32 `json:"ram"`
	}

	type testInstance struct {
		Name    string   `json:"name"`
		Bytes   []uint8  `json:"bytes"`
		Initial cpuState `json:"initial"`
		Final   cpuState `json:"final"`
	}

	dir := os.Getenv("SINGLE_STEP_TEST_DIR")
	if dir == "" {
		t.Skip("skipping test because SINGLE_STEP_TEST_DIR is not set")
		return
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	mem := newWrappedMemory()
	doTest := func(t *testing.T, test testInstance) {
		mem.reset()
		for _, addrVal := range test.Initial.RAM {
			mem.set(addrVal[0], uint8(addrVal[1]))
		}

		c := cpu.NewCPU(mem, nil)
		regs := c.Registers()
		for name, v := range test.Initial.Regs {
			setReg(regs, name, v)
		}

		if err := c.Step(); err != nil {
			t.Fatalf("%s: %v", test.Name, err)
		}

		// registers missing from the final state are unchanged
		expected := maps.Clone(test.Initial.Regs)
		maps.Copy(expected, test.Final.Regs)
		names := maps.Keys(expected)
		slices.Sort(names)
		for _, name := range names {
			want, got := expected[name], getReg(regs, name)
			if name == "flags" {
				mask := definedFlags(test.Bytes[0])
				want, got = want&mask, got&mask
			}
			if want != got {
				t.Fatalf("%s: expected %s %04X, got %04X", test.Name, name, want, got)
			}
		}

		for _, addrVal := range test.Final.RAM {
			mem.mustBe(t, test.Name, addrVal[0], uint8(addrVal[1]))
		}
	}

	var tests []testInstance
	for _, file := range files {
		opcodeStr := path.Base(file.Name())[:2]
		opcode, err := strconv.ParseUint(opcodeStr, 16, 8)
		if err != nil {
			t.Fatalf("failed to parse opcode from file name %s: %v", file.Name(), err)
		}

		fileData, err := readVectors(path.Join(dir, file.Name()))
		if err != nil {
			t.Fatalf("failed to read file %s: %v", file.Name(), err)
		}

		tests = tests[:0]
		err = json.Unmarshal(fileData, &tests)
		if err != nil {
			t.Fatalf("failed to unmarshal file %s: %v", file.Name(), err)
		}

		t.Run(file.Name(), func(t *testing.T) {
			if !cpuSupports(uint8(opcode)) {
				t.Skipf("skipping test for opcode %02X because it is not supported", opcode)
				return
			}
			for _, test := range tests {
				if skipVector(test.Bytes) {
					continue
				}
				doTest(t, test)
			}
		})
	}
}

func readVectors(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(name, ".gz") {
		return io.ReadAll(f)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func cpuSupports(opcode uint8) bool {
	mem := memory.New(0x10)
	_ = mem.Write8(0, opcode)
	line, err := cpu.DisassembleAt(mem, 0, 0)
	return err == nil && line.Supported
}

// skipVector filters encodings whose decoding differs on purpose: prefixed
// instructions and the mod 00, r/m 110 form, which is [BP] here rather than
// a direct address.
func skipVector(b []uint8) bool {
	switch b[0] {
	case 0x26, 0x2e, 0x36, 0x3e, 0xf0, 0xf2, 0xf3:
		return true
	}
	if len(b) > 1 && usesModRM(b[0]) && b[1]&0xc7 == 0x06 {
		return true
	}
	return false
}

func usesModRM(opcode uint8) bool {
	switch {
	case opcode < 0x40:
		return opcode&0x07 < 0x04
	case opcode >= 0x84 && opcode <= 0x8f:
		return true
	}
	return false
}

// definedFlags masks out the flags left undefined by the logical operations.
func definedFlags(opcode uint8) uint16 {
	if opcode < 0x40 {
		switch opcode & 0xf8 {
		case 0x08, 0x20, 0x30:
			if opcode&0x07 < 0x06 {
				return ^uint16(cpu.FlagAuxCarry)
			}
		}
	}
	return 0xffff
}

func setReg(r *cpu.Registers, name string, v uint16) {
	switch name {
	case "ip":
		r.SetIP(v)
	case "flags":
		r.SetFlags(v)
	default:
		if seg, ok := segRegs[name]; ok {
			r.SetSeg(seg, v)
			return
		}
		r.Set16(wordRegs[name], v)
	}
}

func getReg(r *cpu.Registers, name string) uint16 {
	switch name {
	case "ip":
		return r.IP()
	case "flags":
		return r.Flags()
	default:
		if seg, ok := segRegs[name]; ok {
			return r.Seg(seg)
		}
		return r.Get16(wordRegs[name])
	}
}

var wordRegs = map[string]cpu.Reg16{
	"ax": cpu.AX, "cx": cpu.CX, "dx": cpu.DX, "bx": cpu.BX,
	"sp": cpu.SP, "bp": cpu.BP, "si": cpu.SI, "di": cpu.DI,
}

var segRegs = map[string]cpu.SegReg{
	"es": cpu.ES, "cs": cpu.CS, "ss": cpu.SS, "ds": cpu.DS,
}

// wrappedMemory folds physical addresses into the 1 MiB address space the
// vectors were recorded on.
type wrappedMemory struct {
	*memory.Memory
}

const addrMask = 0xfffff

func newWrappedMemory() *wrappedMemory {
	return &wrappedMemory{Memory: memory.New(addrMask + 1)}
}

func (m *wrappedMemory) reset() {
	m.Memory = memory.New(addrMask + 1)
}

func (m *wrappedMemory) set(addr uint32, data uint8) {
	_ = m.Memory.Write8(addr&addrMask, data)
}

func (m *wrappedMemory) mustBe(t *testing.T, name string, addr uint32, data uint8) {
	t.Helper()
	got, _ := m.Memory.Read8(addr & addrMask)
	if got != data {
		t.Fatalf("%s: expected %02X at address %05X, got %02X", name, data, addr, got)
	}
}

func (m *wrappedMemory) Read8(addr uint32) (uint8, error) {
	return m.Memory.Read8(addr & addrMask)
}

func (m *wrappedMemory) Read16(addr uint32) (uint16, error) {
	lo, err := m.Read8(addr)
	if err != nil {
		return 0, err
	}
	hi, err := m.Read8(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (m *wrappedMemory) Write8(addr uint32, data uint8) error {
	return m.Memory.Write8(addr&addrMask, data)
}

func (m *wrappedMemory) Write16(addr uint32, data uint16) error {
	if err := m.Write8(addr, uint8(data)); err != nil {
		return err
	}
	return m.Write8(addr+1, uint8(data>>8))
}
