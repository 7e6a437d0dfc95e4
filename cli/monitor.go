package main

import (
	"fmt"

	"github.com/fatih/color"
)

type InfoCmd struct {
}

func (i *InfoCmd) Run(c *Context) error {
	fmt.Printf("Driver: %s\n", c.t.DriverName())
	fmt.Printf("Memory regions: %d ram, %d flash\n", len(c.t.RAMs()), len(c.t.Flashes()))
	return c.t.RunCommand("revision", nil)
}

type MonitorCmd struct {
	Args []string `arg optional name:"args" help:"Command name and arguments."`
}

func (m *MonitorCmd) Run(c *Context) error {
	if len(m.Args) == 0 {
		bold := color.New(color.Bold)
		for _, set := range c.t.CommandSets() {
			fmt.Printf("%s specific commands:\n", set.Driver)
			for _, cmd := range set.Commands {
				fmt.Printf("  %s -- %s\n", bold.Sprint(cmd.Name), cmd.Help)
			}
		}
		return nil
	}

	return c.t.RunCommand(m.Args[0], m.Args[1:])
}
