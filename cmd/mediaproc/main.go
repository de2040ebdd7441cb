// Package main provides the CLI entry point for the media processor.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName    = "mediaproc"
	appVersion = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Batch-convert images, audio and video into named output variants",
		Long: `mediaproc converts a batch of media files into output variants.

Images are rendered at every requested size and format on a background
fill. Audio and video are transcoded with FFmpeg; when FFmpeg is missing or
a transcode fails, the original file is kept and the batch continues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	root.AddCommand(newProcessCmd(), newPlanCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
}
