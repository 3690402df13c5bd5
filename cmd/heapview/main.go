package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]

	var tracePath string
	seed := int64(1)
	randOps := 0

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("heapview %s\n", version)
			os.Exit(0)
		case "--random":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --random needs an op count")
				os.Exit(1)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "Error: bad op count %q\n", args[i])
				os.Exit(1)
			}
			randOps = n
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed needs a value")
				os.Exit(1)
			}
			i++
			s, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad seed %q\n", args[i])
				os.Exit(1)
			}
			seed = s
		default:
			tracePath = args[i]
		}
	}

	var (
		ops []traceOp
		src string
		err error
	)
	switch {
	case tracePath != "":
		ops, err = parseTrace(tracePath)
		src = tracePath
	case randOps > 0:
		ops = randomWorkload(randOps, seed)
		src = fmt.Sprintf("random (%d ops, seed %d)", randOps, seed)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := newModel(src, ops)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`heapview - step through an allocation workload and watch the heap

Usage:
  heapview <trace-file>
  heapview --random <ops> [--seed <n>]

Keys:
  space/n   execute next operation
  s         execute next 10 operations
  g         run to the end
  r         reset to the beginning
  up/down   scroll the block list
  q         quit`)
}
