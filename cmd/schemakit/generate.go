package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/openapi"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		output   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the OpenAPI document",
		Long: `Generate the OpenAPI 3.0 document of the loaded definitions and write it
to standard output or to the file given by --output.

Examples:
  schemakit generate -d definitions/
  schemakit generate --format yaml --output openapi.yaml --validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.load()
			if err != nil {
				return err
			}

			doc, err := a.generator(r).Build()
			if err != nil {
				return fmt.Errorf("generate document: %w", err)
			}

			if validate {
				if err := openapi.Validate(cmd.Context(), doc); err != nil {
					return err
				}
			}

			data, err := openapi.Marshal(doc, a.cfg.Output.Format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			a.logger.Info("document written", zap.String("file", output), zap.Int("bytes", len(data)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	flags.BoolVar(&validate, "validate", false, "validate the document before writing it")
	flags.StringP("format", "f", "json", "output format (json, yaml)")
	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))

	return cmd
}
