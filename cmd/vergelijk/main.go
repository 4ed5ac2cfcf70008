// Command vergelijk compares two procurement snapshots and writes a
// three-sheet workbook: old input, new input, and new rows with a positive
// Delay (days).
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procurekit/go-compare/compare"
	csvsource "github.com/procurekit/go-compare/sources/csv"
	xlsxsource "github.com/procurekit/go-compare/sources/xlsx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		oldPath string
		newPath string
		outPath string
		key     string
	)

	cmd := &cobra.Command{
		Use:   "vergelijk",
		Short: "Compare two procurement snapshots and export the result",
		Long: "Compares an old and a new snapshot keyed by item number and writes " +
			"a workbook with the old data, the new data, and the newly added rows " +
			"whose Delay (days) is greater than zero.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if oldPath == "" || newPath == "" {
				return compare.NewError(compare.KindInput, "both --old and --new input files are required", nil)
			}

			oldTable, err := readTable(oldPath)
			if err != nil {
				return fmt.Errorf("read old file: %w", err)
			}
			newTable, err := readTable(newPath)
			if err != nil {
				return fmt.Errorf("read new file: %w", err)
			}

			var buf bytes.Buffer
			service := compare.NewService(compare.ServiceConfig{})
			result, err := service.Execute(cmd.Context(), compare.CompareRequest{
				Old:       &oldTable,
				New:       &newTable,
				KeyColumn: key,
				Output:    &buf,
			})
			if err != nil {
				return err
			}

			// The output file is only touched after the comparison
			// succeeded; a failed run leaves a previous export intact.
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Nieuw t.o.v. oud met Delay (days) > 0: %d rijen\n", result.AddedRows)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes)\n", outPath, result.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&oldPath, "old", "", "Path to the old snapshot (.xlsx or .csv)")
	cmd.Flags().StringVar(&newPath, "new", "", "Path to the new snapshot (.xlsx or .csv)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "Inkoop_vergelijking.xlsx", "Path of the exported workbook")
	cmd.Flags().StringVar(&key, "key", compare.DefaultKeyColumn, "Key column used to align rows")

	return cmd
}

func readTable(path string) (compare.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return csvsource.ReadFile(path)
	}
	return xlsxsource.ReadFile(path)
}
