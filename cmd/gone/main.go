// Command gone runs the 6502 emulator: load a binary image or hex listing,
// step or run it to completion, optionally under the interactive debugger,
// or run the built-in BASIC interpreter instead.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"gone/basic"
	"gone/cpu"
	"gone/mem"
)

var logger = log.New(os.Stderr, "gone: ", log.Lshortfile)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gone",
		Short: "gone — a MOS 6502 emulator",
	}

	rootCmd.AddCommand(runCmd(), debugCmd(), basicCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var offset uint16
	var entry int32
	var budget uint64
	var trace bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Load a binary image and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &cpu.LoadError{Addr: offset, Err: err}
			}

			c := cpu.New(mem.New())
			if err := c.LoadBytes(data, offset); err != nil {
				logger.Printf("load failed: %v", err)
				return err
			}

			c.PC = offset
			if entry >= 0 {
				c.PC = uint16(entry)
			}

			logger.Printf("loaded %d bytes from %s at 0x%04x, starting at 0x%04x", len(data), args[0], offset, c.PC)

			for i := uint64(0); budget == 0 || i < budget; i++ {
				pc := c.PC
				op := c.Read(pc)
				err := c.Step()
				if trace {
					logger.Printf("pc=%04x op=%02x a=%02x x=%02x y=%02x sp=%02x status=%02x cycles=%d",
						pc, op, c.A, c.X, c.Y, c.SP, c.StatusByte(), c.Cycles)
				}
				if err != nil {
					logger.Printf("step failed: %v", err)
					return err
				}
				if op == 0x00 { // BRK
					break
				}
			}

			logger.Printf("halted: pc=%04x a=%02x x=%02x y=%02x sp=%02x status=%02x cycles=%d",
				c.PC, c.A, c.X, c.Y, c.SP, c.StatusByte(), c.Cycles)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&offset, "offset", 0, "memory offset to load the image at")
	cmd.Flags().Int32Var(&entry, "entry", -1, "entry address to start execution at (default: the load offset)")
	cmd.Flags().Uint64Var(&budget, "budget", 1000, "maximum instructions to execute (0 = unbounded, stop only on BRK or error)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print register state after every instruction")
	return cmd
}

func debugCmd() *cobra.Command {
	var offset uint16

	cmd := &cobra.Command{
		Use:   "debug [file]",
		Short: "Load a hex byte listing and step through it interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &cpu.LoadError{Addr: offset, Err: err}
			}
			c := cpu.New(mem.New())
			if err := c.Debug(data, offset); err != nil {
				logger.Printf("debug session ended: %v", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&offset, "offset", 0, "memory offset to load the listing at")
	return cmd
}

func basicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basic [file]",
		Short: "Run a BASIC program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &cpu.LoadError{Err: err}
			}
			ip := basic.New(os.Stdout, os.Stdin)
			if err := ip.Load(string(data)); err != nil {
				logger.Printf("parse failed: %v", err)
				return err
			}
			return ip.Run()
		},
	}
	return cmd
}
