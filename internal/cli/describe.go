package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the data description given to the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		description, err := a.description()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), description)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
