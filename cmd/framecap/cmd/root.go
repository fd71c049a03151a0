// Package cmd provides the command-line interface for the frame capture
// simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "framecap",
	Short: "Framecap simulates a video capture pipeline that hands " +
		"frames from a DMA engine to software through memory slots.",
	Long: `Framecap simulates a video capture pipeline. A pattern ` +
		`generator produces pixel frames on a pixel clock, a DMA engine ` +
		`writes them into frame buffers selected by a slot table, and a ` +
		`host agent arms the slots and collects the captured frames.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
