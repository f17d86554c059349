package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nevisdale/rmcore/internal/machine"
	"github.com/nevisdale/rmcore/internal/ui"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

// maxListing bounds the number of instructions printed before the run.
const maxListing = 64

// demo is loaded when no binary is given.
var demo = []uint8{
	0xb8, 0xff, 0xaa, // MOV AX, 0xAAFF
	0xbb, 0xbb, 0xbb, // MOV BX, 0xBBBB
	0x31, 0xd8, // XOR AX, BX
	0x31, 0xdb, // XOR BX, BX
	0x21, 0xd8, // AND AX, BX
	0xf4, // HLT
}

func main() {
	os.Exit(run())
}

// run holds the deferred profile stop, which os.Exit would skip.
func run() int {
	memKiB := flag.Int("mem", 640, "Memory size in KiB")
	steps := flag.Int("steps", 1000, "Maximum number of instructions to execute")
	cs := flag.Uint("cs", 0, "Code segment to load the program at")
	ip := flag.Uint("ip", 0x100, "Offset within the code segment to load the program at")
	binFile := flag.String("bin", "", "Raw binary to load (default: built-in demo)")
	withUI := flag.Bool("ui", false, "Open the debug window instead of running to completion")
	profileMode := flag.String("profile", "", "Write a profile: cpu or mem")
	verbose := flag.Bool("v", false, "Log every executed instruction")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	if *memKiB <= 0 {
		log.Fatalf("memory size must be positive, got %d", *memKiB)
	}
	if *cs > 0xffff || *ip > 0xffff {
		log.Fatalf("cs and ip must fit in 16 bits, got %X:%X", *cs, *ip)
	}

	code := demo
	if *binFile != "" {
		data, err := os.ReadFile(*binFile)
		if err != nil {
			log.Fatalf("couldn't read the binary: %s", err)
		}
		code = data
	}

	m := machine.New(
		machine.WithMemorySize(*memKiB*1024),
		machine.WithLogger(log),
	)
	if err := m.Load(uint16(*cs), uint16(*ip), code); err != nil {
		log.Fatal(err)
	}

	lines, err := m.Disassemble(min(len(code), maxListing))
	listed := 0
	for _, l := range lines {
		if listed >= len(code) {
			break
		}
		fmt.Println(l)
		listed += len(l.Bytes)
	}
	if err != nil {
		log.WithError(err).Warn("disassembly stopped early")
	}
	fmt.Println()

	if *withUI {
		if err := ui.RunUI(ui.New(m)); err != nil {
			log.Fatal(err)
		}
		fmt.Println(m.DebugInfo())
		return 0
	}

	reason, err := m.Run(*steps)
	fmt.Println(m.DebugInfo())
	if err != nil {
		log.WithError(err).Errorf("stopped: %s", reason)
		return 1
	}
	log.Infof("stopped: %s", reason)
	return 0
}
