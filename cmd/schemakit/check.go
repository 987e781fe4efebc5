package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vitalvas/schemakit/definition"
	"github.com/vitalvas/schemakit/openapi"
)

var errCheckFailed = errors.New("check failed")

// reporter prints check results as colored status lines.
type reporter struct {
	out    io.Writer
	ok     *color.Color
	failed *color.Color
	errs   int
}

func newReporter(out io.Writer, noColor bool) *reporter {
	rep := &reporter{
		out:    out,
		ok:     color.New(color.FgGreen, color.Bold),
		failed: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		rep.ok.DisableColor()
		rep.failed.DisableColor()
	}
	return rep
}

func (rep *reporter) pass(format string, args ...any) {
	rep.ok.Fprint(rep.out, "✓ ")
	fmt.Fprintf(rep.out, format+"\n", args...)
}

func (rep *reporter) fail(err error, format string, args ...any) {
	rep.errs++
	rep.failed.Fprint(rep.out, "✗ ")
	fmt.Fprintf(rep.out, format+": %v\n", append(args, err)...)
}

func newCheckCmd(a *app) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check definitions and the generated document",
		Long: `Load the definitions, build the params of every endpoint method and
validate the generated OpenAPI document. Exits non-zero when any step fails.

Examples:
  schemakit check -d definitions/
  schemakit check --no-color`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := newReporter(cmd.OutOrStdout(), noColor)

			r, err := definition.Load(a.cfg.Definitions)
			if err != nil {
				rep.fail(err, "load definitions")
				return errCheckFailed
			}
			rep.pass("loaded %d schemas and %d endpoints", len(r.SchemaNames()), len(r.EndpointNames()))

			for _, e := range r.Endpoints() {
				methods, err := e.Methods(r)
				if err != nil {
					rep.fail(err, "endpoint %s", e.Name())
					continue
				}
				rep.pass("endpoint %s: %d methods", e.Name(), len(methods))
			}
			if rep.errs > 0 {
				return errCheckFailed
			}

			doc, err := a.generator(r).Build()
			if err != nil {
				rep.fail(err, "build document")
				return errCheckFailed
			}
			rep.pass("built document with %d paths", len(doc.Paths))

			if err := openapi.Validate(cmd.Context(), doc); err != nil {
				rep.fail(err, "validate document")
				return errCheckFailed
			}
			rep.pass("document is valid OpenAPI %s", openapi.Version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
