package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect enrichment run history",
	Long:  "Commands for listing, viewing, and exporting persisted enrichment runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrichment runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireValidConfig("runs"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		kind, _ := cmd.Flags().GetString("kind")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Kind:   model.EntityKind(kind),
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireValidConfig("runs"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs export --

var runsExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export run history to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireValidConfig("runs"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Kind:  model.EntityKind(kind),
			Limit: limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs export")
		}

		if err := exportRunsXLSX(args[0], runs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d runs to %s\n", len(runs), args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("kind", "", "filter by kind (person, company)")
	runsListCmd.Flags().String("status", "", "filter by status (complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsExportCmd.Flags().String("kind", "", "filter by kind (person, company)")
	runsExportCmd.Flags().Int("limit", 1000, "max number of runs to export")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSUBJECT\tSTATUS\tSCORE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t------\t-----\t-------")

	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			truncateID(r.ID),
			r.Kind,
			runSubjectLabel(r),
			r.Status,
			r.Score,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// runSubjectLabel extracts a compact display label from the run subject.
func runSubjectLabel(r model.Run) string {
	label := ""
	switch r.Kind {
	case model.KindPerson:
		var ref model.PersonRef
		if json.Unmarshal(r.Subject, &ref) == nil {
			for _, candidate := range []string{ref.FullName, ref.Email, ref.LinkedInURL, ref.TaxID} {
				if candidate != "" {
					label = candidate
					break
				}
			}
		}
	case model.KindCompany:
		var ref model.CompanyRef
		if json.Unmarshal(r.Subject, &ref) == nil {
			for _, candidate := range []string{ref.Domain, ref.Name, ref.TaxID} {
				if candidate != "" {
					label = candidate
					break
				}
			}
		}
	}
	if len(label) > 30 {
		label = label[:27] + "..."
	}
	return label
}

// exportRunsXLSX writes one row per run, with merged-record summary
// columns pulled out of the result blob.
func exportRunsXLSX(path string, runs []model.Run) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Runs")
	if err != nil {
		return eris.Wrap(err, "runs export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "Kind", "Subject", "Status", "Score", "Providers", "Created"} {
		header.AddCell().Value = h
	}

	for _, r := range runs {
		providers := ""
		var result enrich.Result
		if len(r.Result) > 0 && json.Unmarshal(r.Result, &result) == nil {
			for i, p := range result.ContributingProviders {
				if i > 0 {
					providers += ", "
				}
				providers += p
			}
		}

		row := sheet.AddRow()
		row.AddCell().Value = r.ID
		row.AddCell().Value = string(r.Kind)
		row.AddCell().Value = runSubjectLabel(r)
		row.AddCell().Value = string(r.Status)
		row.AddCell().SetInt(r.Score)
		row.AddCell().Value = providers
		row.AddCell().Value = r.CreatedAt.Format("2006-01-02 15:04:05")
	}

	return eris.Wrap(f.Save(path), "runs export: save")
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
