package cli

import (
	"fmt"

	"github.com/jontk/fsdash/internal/version"
	"github.com/spf13/cobra"
)

var shortVersion bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for fsdash including build details.`,
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&shortVersion, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	if shortVersion {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Full())
	return err
}
