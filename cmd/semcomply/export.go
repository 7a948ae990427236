package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcomply/assessment"
	"github.com/c360studio/semcomply/export"
)

func exportCmd(g *globals) *cobra.Command {
	var (
		format   string
		profile  string
		output   string
		ontology bool
		evidence []string
	)

	cmd := &cobra.Command{
		Use:   "export <request-file>",
		Short: "Assess a system and export its inferred graph as RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if _, ok := export.Profiles[export.Profile(profile)]; !ok {
				return fmt.Errorf("unknown profile: %s", profile)
			}

			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			reasoner, err := assessment.FromConfig(cfg, nil, logger)
			if err != nil {
				return err
			}
			a, err := assessFile(cmd.Context(), reasoner, args[0], evidence)
			if err != nil {
				return err
			}

			facts := a.Graph.LocalFacts()
			if ontology {
				facts = a.Graph.Facts()
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				w = file
			}
			return export.NewExporter(export.Profile(profile)).Export(w, facts, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "RDF format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", string(export.ProfileMinimal), "Ontology profile (minimal, bfo, cco)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&ontology, "ontology", false, "Include the static ontology facts")
	cmd.Flags().StringArrayVarP(&evidence, "evidence", "e", nil, "Evidence file; repeatable")
	return cmd
}
