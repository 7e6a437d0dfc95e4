package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dossalab/blackmagic/probe"
	"github.com/dossalab/blackmagic/probe/probesim"
	"github.com/dossalab/blackmagic/target"
	_ "github.com/dossalab/blackmagic/target/stm32h7"
	"github.com/sirupsen/logrus"
)

type Context struct {
	tr probe.Transport
	t  *target.Target
}

var CLI struct {
	Sim          bool `optional default:"true" help:"Use the built-in device model. Real probe links plug in as probe.Transport implementations."`
	Debug        bool `optional help:"Enable protocol trace logging."`
	HardwareIWDG bool `optional name:"hardware-iwdg" help:"Model a device with the IWDG fused as a hardware watchdog."`

	Info        InfoCmd        `cmd help:"Probe the device and print what was found."`
	ListRegions ListRegionsCmd `cmd help:"List the memory map of the attached device."`
	Read        ReadCmd        `cmd help:"Read and dump target memory."`
	Write       WriteCmd       `cmd help:"Write a 32-bit word to target memory."`
	Erase       EraseCmd       `cmd help:"Erase a flash address range."`
	Flash       FlashCmd       `cmd help:"Write an image file (binary or Intel HEX) to flash."`
	MassErase   MassEraseCmd   `cmd name:"mass-erase" help:"Erase both flash banks in parallel."`
	Monitor     MonitorCmd     `cmd help:"Run a driver monitor command, no arguments to list them."`
}

func main() {
	k, err := kong.New(&CLI, kong.NamedMapper("hex", hexMapper{}))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	if !CLI.Sim {
		fmt.Println("No probe transport configured, only --sim is available")
		return
	}

	log := logrus.New()
	if CLI.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	tr := probesim.New(probesim.Config{HardwareIWDG: CLI.HardwareIWDG})
	defer tr.Close()

	t := target.New(tr, target.Config{
		Log:      log,
		Output:   os.Stdout,
		Progress: func() { fmt.Print(".") },
	})

	if err := t.Probe(); err != nil {
		fmt.Println("Failed to probe device:", err)
		return
	}
	if err := t.Attach(); err != nil {
		fmt.Println("Failed to attach:", err)
		return
	}
	defer t.Detach()

	err = ctx.Run(&Context{tr: tr, t: t})
	ctx.FatalIfErrorf(err)
}
