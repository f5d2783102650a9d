package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the service presets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %-8s %s\n", "NAME", "PORT", "STORAGE")
		for _, name := range catalog.Names() {
			port := "-"
			if p, ok := catalog.Port(name); ok {
				port = fmt.Sprint(p)
			}
			storage := "-"
			if preset, ok := catalog.Lookup(name); ok {
				storage = preset.Storage.String()
			}
			fmt.Printf("%-20s %-8s %s\n", name, port, storage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
