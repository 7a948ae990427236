package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcomply/assessment"
	"github.com/c360studio/semcomply/rules"
)

func rulesCmd(g *globals) *cobra.Command {
	var (
		group  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			reasoner, err := assessment.FromConfig(cfg, nil, logger)
			if err != nil {
				return err
			}
			catalog := reasoner.Catalog()

			groups := catalog.Groups()
			if group != "" {
				groups = []rules.Group{rules.Group(group)}
			}

			if format != "table" {
				listing := make(map[string][]rules.Rule, len(groups))
				for _, gr := range groups {
					listing[string(gr)] = catalog.ByGroup(gr)
				}
				return writeDocument(cmd.OutOrStdout(), struct {
					Groups   map[string][]rules.Rule `json:"groups"`
					Warnings []rules.ConfigWarning   `json:"warnings,omitempty"`
				}{listing, catalog.Warnings()}, format)
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, gr := range groups {
				fmt.Fprintf(tw, "[%s]\n", gr)
				for _, r := range catalog.ByGroup(gr) {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.ID, strings.Join(r.Properties(), ","), r.Name)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, w := range catalog.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "%d rules\n", catalog.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only list one group (contextual, technical, cascading, modality)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, yaml)")
	return cmd
}
