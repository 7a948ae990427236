package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcomply/assessment"
	"github.com/c360studio/semcomply/config"
	"github.com/c360studio/semcomply/evidence"
	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/inference"
)

type assessOptions struct {
	evidenceFiles []string
	format        string
	publish       bool
	explain       bool
}

func assessCmd(g *globals) *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess <request-file>",
		Short: "Classify a system and analyze its compliance gaps",
		Long: `Assess reads a submission (YAML or JSON, optionally wrapped in a request
with evidence) and prints the classification and gap report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			publisher, closeConn, err := connectPublisher(cfg, opts.publish, logger)
			if err != nil {
				return err
			}
			defer closeConn()

			reasoner, err := assessment.FromConfig(cfg, publisher, logger)
			if err != nil {
				return err
			}

			a, err := assessFile(ctx, reasoner, args[0], opts.evidenceFiles)
			if err != nil {
				return err
			}
			return writeAssessment(cmd.OutOrStdout(), a, opts.format, opts.explain)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.evidenceFiles, "evidence", "e", nil, "Evidence file (html, md, txt); repeatable")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish the assessed system to NATS (nats.url)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Include the rule firing trace")
	return cmd
}

// assessFile loads a request, appends evidence files and runs it.
func assessFile(ctx context.Context, r *assessment.Reasoner, path string, evidenceFiles []string) (*assessment.Assessment, error) {
	req, err := assessment.LoadRequest(path)
	if err != nil {
		return nil, err
	}
	if len(evidenceFiles) > 0 {
		docs := make([]*evidence.Document, 0, len(evidenceFiles))
		for _, f := range evidenceFiles {
			doc, err := evidence.LoadFile(f)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if req.Evidence != "" {
			req.Evidence += "\n\n"
		}
		req.Evidence += evidence.Combine(docs)
	}
	return r.Assess(ctx, req)
}

// connectPublisher dials NATS when publishing is requested. The returned
// close func is always safe to call.
func connectPublisher(cfg *config.Config, publish bool, logger *slog.Logger) (*graph.Publisher, func(), error) {
	noop := func() {}
	if !publish {
		return nil, noop, nil
	}
	if cfg.NATS.URL == "" {
		return nil, noop, fmt.Errorf("--publish requires nats.url or %s", config.EnvNATSURL)
	}

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
	if err != nil {
		return nil, noop, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.NATS.URL))

	publisher := graph.NewPublisher(nc, cfg.NATS.Source, logger).WithSubject(cfg.NATS.Subject)
	return publisher, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", "error", err)
		}
	}, nil
}

// assessmentView is the printed shape of an assessment.
type assessmentView struct {
	*assessment.Assessment
	Trace []inference.Firing `json:"trace,omitempty"`
}

func writeAssessment(w io.Writer, a *assessment.Assessment, format string, explain bool) error {
	view := assessmentView{Assessment: a}
	if explain {
		view.Trace = a.Explain()
	}
	return writeDocument(w, view, format)
}

// writeDocument prints v as indented JSON or as YAML. YAML is produced from
// the JSON encoding so both formats share field names and order.
func writeDocument(w io.Writer, v any, format string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("convert output: %w", err)
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// blockStyle clears the flow and quoting styles the JSON source implies.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
