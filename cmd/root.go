package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sillycat",
	Short: "A mascot that reacts to the errors in your active file",
	Long: `sillycat runs next to your editor, counts the errors and warnings of the
file you are working on and renders a side panel with a cat whose mood
follows the count.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
