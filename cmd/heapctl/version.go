package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("heapctl %s (%s/%s)\n", rootCmd.Version, runtime.GOOS, runtime.GOARCH)
		},
	})
}
