package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	batchapp "github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

func newImportCmd(entity batchdomain.Entity, connect connectFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   string(entity) + " <file>",
		Short: fmt.Sprintf("Import %s from a CSV or Excel file", entity),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			return runImport(cmd.Context(), env, entity, args[0], asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func runImport(ctx context.Context, env *environment, entity batchdomain.Entity, path string, asJSON bool, out io.Writer) error {
	importer, ok := env.services.Importers[entity]
	if !ok {
		return fmt.Errorf("no importer for %s", entity)
	}

	upload, err := env.source.Load(ctx, path)
	if err != nil {
		return err
	}

	res, err := importer.Execute(ctx, batchapp.Input{FileName: upload.FileName, Data: upload.Data})
	if err != nil && !errors.Is(err, batchdomain.ErrNoValidRecords) {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
	} else {
		printSummary(out, res)
	}
	return err
}

func printSummary(out io.Writer, res batchapp.Result) {
	s := res.Summary
	fmt.Fprintf(out, "batch %s (%s): %d rows\n", res.BatchID, s.Entity, s.TotalRows)
	fmt.Fprintf(out, "  created:  %d\n", s.CreatedCount)
	fmt.Fprintf(out, "  skipped:  %d\n", s.SkippedCount)
	fmt.Fprintf(out, "  failed:   %d\n", s.FailedCount)
	fmt.Fprintf(out, "  rejected: %d\n", s.RejectedCount)
	for _, line := range s.Lines() {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
