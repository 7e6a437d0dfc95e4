package main

import (
	"fmt"
	"os"
	"time"

	"github.com/inancgumus/screen"
)

type ListRegionsCmd struct {
}

func (l *ListRegionsCmd) Run(c *Context) error {
	fmt.Printf("Memory map (%s):\n", c.t.DriverName())

	for _, r := range c.t.RAMs() {
		fmt.Printf("  ram    0x%08x  length 0x%06x\n", r.Start, r.Length)
	}
	for _, f := range c.t.Flashes() {
		fmt.Printf("  flash  0x%08x  length 0x%06x  sector 0x%x  write block %d  erased 0x%02x\n",
			f.Start(), f.Length(), f.BlockSize(), f.WriteSize(), f.ErasedByte())
	}
	return nil
}

type ReadCmd struct {
	Loop     bool   `optional help:"Refresh continuously, marking bytes that changed since the last pass."`
	Filename string `optional help:"File to write the dump to instead of printing it."`

	Addr   uint32 `arg name:"addr" type:"hex" help:"Address to read from."`
	Amount int    `arg name:"amount" optional default:"256" help:"Number of bytes to read."`
}

func (l *ReadCmd) Run(c *Context) error {
	var oldBuf []byte
	mark := make([]bool, l.Amount)

	for {
		startTime := time.Now()

		buf := make([]byte, l.Amount)
		if err := c.t.ReadBytes(l.Addr, buf); err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		if l.Filename != "" {
			return os.WriteFile(l.Filename, buf, 0644)
		}

		if l.Loop {
			screen.Clear()
			screen.MoveTopLeft()
			mark = make([]bool, l.Amount)
			if oldBuf != nil {
				for i, m := range oldBuf {
					if m != buf[i] {
						mark[i] = true
					}
				}
			}
		}
		fmt.Println(hexdump(l.Addr, buf, mark))

		if !l.Loop {
			return nil
		}
		oldBuf = buf

		if d := time.Since(startTime); d < 200*time.Millisecond {
			time.Sleep(200*time.Millisecond - d)
		}
	}
}

type WriteCmd struct {
	Addr  uint32 `arg name:"addr" type:"hex" help:"Address to write to."`
	Value uint32 `arg name:"value" type:"hex" help:"32-bit value to write."`
}

func (w *WriteCmd) Run(c *Context) error {
	return c.t.WriteWord(w.Addr, w.Value)
}
