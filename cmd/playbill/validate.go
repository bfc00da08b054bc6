package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"playbill/internal/validate"
)

func validateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func runValidate(asJSON bool) error {
	ctx := context.Background()

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	report, err := validate.Run(ctx, e.db)
	if err != nil {
		return err
	}
	e.logger.Debugw("Validation finished", "issues", len(report.Issues), "errors", report.Errors())

	if asJSON {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding report")
		}
		fmt.Fprintln(os.Stdout, string(payload))
	} else {
		writeReport(os.Stdout, report)
	}

	if n := report.Errors(); n > 0 {
		return errors.Newf("validation found %d errors", n)
	}
	return nil
}

// writeReport prints errors before warnings, one issue per line.
func writeReport(out io.Writer, report *validate.Report) {
	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return
	}
	sections := []struct {
		title    string
		severity validate.Severity
	}{
		{"Errors", validate.SeverityError},
		{"Warnings", validate.SeverityWarn},
	}
	printed := false
	for _, section := range sections {
		var issues []validate.Issue
		for _, issue := range report.Issues {
			if issue.Severity == section.severity {
				issues = append(issues, issue)
			}
		}
		if len(issues) == 0 {
			continue
		}
		if printed {
			fmt.Fprintln(out)
		}
		printed = true
		fmt.Fprintf(out, "%s (%d):\n", section.title, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  - %s %s [%s]: %s (%s)\n", issue.Label, issue.Name, issue.UUID, issue.Message, issue.Code)
		}
	}
}
