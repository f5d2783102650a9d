package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salsadigitalauorg/tidepool/pkg/config"
	"github.com/salsadigitalauorg/tidepool/pkg/descriptor"
	"github.com/salsadigitalauorg/tidepool/pkg/resolver"
)

var removeResolver bool

var resolverCmd = &cobra.Command{
	Use:   "resolver [descriptor]",
	Short: "Install or remove the host resolver file for the local domain.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := descriptor.Load(args[0])
		if err != nil {
			return err
		}
		r := resolver.New(config.C.OS)
		if err := r.VerifyRequirements(); err != nil {
			return err
		}
		if removeResolver {
			return r.Remove(env.LocalDomain)
		}
		return r.Install(env.LocalDomain, env.LocalIP)
	},
}

func init() {
	resolverCmd.Flags().BoolVar(&removeResolver, "remove", false, "Remove the resolver file instead")
	rootCmd.AddCommand(resolverCmd)
}
