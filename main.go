package main

import (
	"fmt"
	"os"

	"github.com/wisdomfoli/clockin-status-board/cli"
	"github.com/wisdomfoli/clockin-status-board/tui"
)

func main() {
	args := os.Args[1:]

	// No arguments launches the dashboard directly.
	if len(args) == 0 {
		args = []string{"board"}
	}

	command := args[0]

	// Handle the board separately to avoid importing tui in cli package
	if command == "board" || command == "tui" {
		if err := tui.Launch(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if command == "help" || command == "--help" || command == "-h" {
		fmt.Fprintf(os.Stderr, "Usage: clockspot [command] [args...]\n")
		fmt.Fprintf(os.Stderr, "Commands: board, login, logout, status, in, out, users\n")
		os.Exit(0)
	}

	// Handle all other commands through CLI
	if err := cli.RunCLI(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
