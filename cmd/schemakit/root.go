package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/definition"
	"github.com/vitalvas/schemakit/openapi"
	"github.com/vitalvas/schemakit/resolver"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "schemakit",
		Short: "Schema and endpoint definitions to OpenAPI documents",
		Long: `schemakit loads schema and endpoint definitions from YAML files and
generates, checks or serves the OpenAPI 3.0 document describing them.

Configuration is read from schemakit.yaml in the working directory (or the
file given by --config) and from SCHEMAKIT_ environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default ./schemakit.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.StringSliceP("definitions", "d", nil, "definition files or directories")

	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("definitions", flags.Lookup("definitions"))

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newCheckCmd(a))

	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// load reads the configured definitions into a new resolver.
func (a *app) load() (*resolver.Resolver, error) {
	r, err := definition.Load(a.cfg.Definitions)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("definitions loaded",
		zap.Strings("paths", a.cfg.Definitions),
		zap.Int("schemas", len(r.SchemaNames())),
		zap.Int("endpoints", len(r.EndpointNames())),
	)
	return r, nil
}

// generator returns a document generator for r configured with the API
// info and servers.
func (a *app) generator(r *resolver.Resolver) *openapi.Generator {
	g := openapi.NewGenerator(r, a.cfg.Info.info()).SetLogger(a.logger)
	for _, server := range a.cfg.Servers {
		g.AddServer(server)
	}
	return g
}
