package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// hexdump renders data as 16 byte rows with an ASCII gutter. Bytes flagged
// in mark are highlighted.
func hexdump(addr uint32, data []byte, mark []bool) string {
	var result strings.Builder
	red := color.New(color.FgRed)

	for len(data) > 0 {
		l := len(data)
		if l > 16 {
			l = 16
		}
		row := data[:l]
		data = data[l:]

		var rowMark []bool
		if mark != nil {
			rowMark = mark[:l]
			mark = mark[l:]
		}

		var hexCol, asciiCol string
		for i := 0; i < 16; i++ {
			if i >= len(row) {
				hexCol += "   "
				asciiCol += " "
				continue
			}

			b := row[i]
			delta := rowMark != nil && rowMark[i]

			if delta {
				hexCol += red.Sprintf("%02x ", b)
			} else {
				hexCol += fmt.Sprintf("%02x ", b)
			}

			if b < 32 || b > 126 {
				b = '.'
			}
			if delta {
				asciiCol += red.Sprintf("%c", b)
			} else {
				asciiCol += fmt.Sprintf("%c", b)
			}
		}

		fmt.Fprintf(&result, "%08x  %s |%s|\n", addr, hexCol, asciiCol)
		addr += uint32(l)
	}

	return result.String()
}
