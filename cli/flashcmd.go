package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/machinebox/progress"
	"github.com/marcinbor85/gohex"
)

type EraseCmd struct {
	Addr   uint32 `arg name:"addr" type:"hex" help:"Start address of the range to erase."`
	Length uint32 `arg name:"length" type:"hex" help:"Number of bytes to erase."`
}

func (e *EraseCmd) Run(c *Context) error {
	return c.t.FlashErase(e.Addr, e.Length)
}

type MassEraseCmd struct {
}

func (m *MassEraseCmd) Run(c *Context) error {
	fmt.Print("Erasing both banks ")
	err := c.t.MassErase()
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Println("Mass erase done.")
	return nil
}

type FlashCmd struct {
	Filename string `arg help:"Image to write, .hex files carry their own addresses."`
	Addr     uint32 `optional type:"hex" default:"0x08000000" help:"Load address for binary images."`
	NoErase  bool   `optional help:"Skip erasing the covered sectors first."`
}

func (f *FlashCmd) Run(c *Context) error {
	if strings.HasSuffix(f.Filename, ".hex") {
		file, err := os.Open(f.Filename)
		if err != nil {
			return err
		}
		defer file.Close()

		mem := gohex.NewMemory()
		if err := mem.ParseIntelHex(file); err != nil {
			return err
		}

		for _, seg := range mem.GetDataSegments() {
			if err := f.program(c, seg.Address, seg.Data); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := os.ReadFile(f.Filename)
	if err != nil {
		return err
	}
	return f.program(c, f.Addr, data)
}

// program erases the covered range and streams the image block by block,
// with a progress readout on the way.
func (f *FlashCmd) program(c *Context, addr uint32, data []byte) error {
	if !f.NoErase {
		fmt.Printf("Erasing 0x%08x + 0x%x\n", addr, len(data))
		if err := c.t.FlashErase(addr, uint32(len(data))); err != nil {
			return err
		}
	}

	r := progress.NewReader(bytes.NewReader(data))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for p := range progress.NewTicker(ctx, r, int64(len(data)), 250*time.Millisecond) {
			fmt.Printf("\rWriting 0x%08x: %3.0f%%", addr, p.Percent())
		}
	}()

	buf := make([]byte, 2048)
	dest := addr
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if err := c.t.FlashWrite(dest, buf[:n]); err != nil {
				fmt.Println()
				return err
			}
			dest += uint32(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	fmt.Printf("\rWrote %d bytes at 0x%08x\n", len(data), addr)
	return nil
}
