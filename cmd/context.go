package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var contextCmd = &cobra.Command{
	Use:   "context [descriptor]",
	Short: "Print the resolved context as YAML.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := compose(args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(ctx)
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
}
