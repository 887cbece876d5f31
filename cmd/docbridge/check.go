package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/docbridge/compliance"
	"github.com/c360studio/docbridge/report"
	"github.com/c360studio/docbridge/source"
	"github.com/c360studio/docbridge/workspace"
)

func checkCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run compliance checks over the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.logLevel)

			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			g := workspace.NewGraph()
			loader := source.NewLoader(cfg.Workspace.Root, cfg.Workspace.Include, logger)
			loaded, err := loader.Load(g)
			if err != nil {
				return err
			}
			logger.Info("Workspace loaded",
				slog.String("root", cfg.Workspace.Root),
				slog.Int("documents", loaded))

			engine := compliance.NewEngineFromConfig(cfg)
			result := engine.RunWithStats(g)
			rep := report.New(result, cfg.Workspace.Root, engine.Rules())

			out, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			fmt.Println(out)

			if result.HasCritical() {
				return fmt.Errorf("%d error-level violations found", result.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, markdown, json, html)")
	return cmd
}

// renderReport renders a report in the requested format. The text format
// is a compact console summary; the others match the reporting layer.
func renderReport(rep *report.Report, format string) (string, error) {
	switch format {
	case "text":
		return textSummary(rep), nil
	case "markdown":
		return rep.Markdown(), nil
	case "json":
		return rep.JSON()
	case "html":
		return rep.HTML()
	default:
		return "", fmt.Errorf("unknown format %q (want text, markdown, json, or html)", format)
	}
}

func textSummary(rep *report.Report) string {
	result := rep.Result
	out := fmt.Sprintf("Score %d/100: %d documents, %d errors, %d warnings, %d info\n",
		result.ComplianceScore, result.TotalDocuments, result.Errors, result.Warnings, result.Info)
	for _, v := range result.Violations {
		out += fmt.Sprintf("%s:%d: [%s/%s] %s\n", v.DocumentID, v.Line+1, v.Code, v.Severity, v.Message)
	}
	return out
}
