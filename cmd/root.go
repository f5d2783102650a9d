package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salsadigitalauorg/tidepool/pkg/composer"
	"github.com/salsadigitalauorg/tidepool/pkg/config"
	"github.com/salsadigitalauorg/tidepool/pkg/descriptor"
	"github.com/salsadigitalauorg/tidepool/pkg/presets"
	"github.com/salsadigitalauorg/tidepool/pkg/secrets"
	"github.com/salsadigitalauorg/tidepool/pkg/vars"
)

var rootCmd = &cobra.Command{
	Use:   "tidepool [command]",
	Short: "Generate the configuration for a local kind environment.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialise(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		lvl, err := log.ParseLevel(config.C.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Usage()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level: panic, fatal, error, warn, info, debug, trace")
	flags.Bool("strict-vars", false, "Fail when a ${...} placeholder cannot be resolved")
	flags.String("presets-file", "", "Service presets file to use instead of the built-in one")
	flags.String("templates-dir", "", "Directory holding templates to use instead of the built-in ones")
	flags.Int("secret-length", secrets.DefaultLength, "Length of generated passwords")
	flags.String("os", "", "Platform to configure the resolver for (darwin, linux), defaults to the current one")

	for _, key := range []string{"log-level", "strict-vars", "presets-file", "templates-dir", "secret-length", "os"} {
		config.BindFlag(key, flags.Lookup(key))
	}
}

// loadCatalog returns the preset catalog configured for this run.
func loadCatalog() (*presets.Catalog, error) {
	if config.C.PresetsFile != "" {
		return presets.LoadFile(config.C.PresetsFile)
	}
	return presets.Load()
}

// compose loads the descriptor at path and assembles its context.
func compose(path string) (*composer.Context, error) {
	env, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return composer.Compose(env, composer.Options{
		Catalog:  catalog,
		Secrets:  secrets.NewGenerator(config.C.SecretLength),
		Expander: vars.New(config.C.StrictVars),
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
