package cmd

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/salsadigitalauorg/tidepool/pkg/composer"
	"github.com/salsadigitalauorg/tidepool/pkg/config"
	"github.com/salsadigitalauorg/tidepool/pkg/resolver"
	"github.com/salsadigitalauorg/tidepool/pkg/templates"
)

var generateCmd = &cobra.Command{
	Use:     "generate [descriptor]",
	Aliases: []string{"g"},
	Short:   "Generate the environment configuration files.",
	Long: `generate composes the descriptor and writes the kind, containerd,
dnsmasq, helmfile and cert-manager files to <base-dir>/<name>/config,
then configures the host resolver for the local domain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := compose(args[0])
		if err != nil {
			return err
		}

		source := templates.Embedded()
		if config.C.TemplatesDir != "" {
			source = templates.FromDir(afero.NewOsFs(), config.C.TemplatesDir)
		}
		if _, err := templates.Generate(templates.NewRenderer(source), templates.NewWriter(ctx.ConfigDir), ctx); err != nil {
			return err
		}

		if !config.C.SkipResolver {
			r := resolver.New(config.C.OS)
			err := r.VerifyRequirements()
			if err == nil {
				err = r.Install(ctx.LocalDomain, ctx.LocalIP)
			}
			if err != nil {
				log.WithError(err).Warn("unable to configure resolver")
			}
		}

		printCredentials(ctx)
		return nil
	},
}

func printCredentials(ctx *composer.Context) {
	creds := ctx.Credentials()
	if len(creds) == 0 {
		return
	}
	names := make([]string, 0, len(creds))
	for n := range creds {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Printf("%-20s %-20s %s\n", "SERVICE", "KEY", "VALUE")
	for _, n := range names {
		keys := make([]string, 0, len(creds[n]))
		for k := range creds[n] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-20s %-20s %s\n", n, k, creds[n][k])
		}
	}
}

func init() {
	generateCmd.Flags().Bool("skip-resolver", false, "Do not configure the host resolver")
	config.BindFlag("skip-resolver", generateCmd.Flags().Lookup("skip-resolver"))
	rootCmd.AddCommand(generateCmd)
}
