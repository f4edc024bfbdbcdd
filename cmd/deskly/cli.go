package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

// Run parses flags and executes the selected command.
func Run(args []string) {
	options := &Options{}
	var first string
	if len(args) > 0 {
		first = args[0]
	}
	options.Init(first)

	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		// flags already prints a user-friendly message; exit with code 1
		log.Fatalf("%v", err)
	}

	if options.Version {
		fmt.Println(Version())
		os.Exit(0)
	}
}
