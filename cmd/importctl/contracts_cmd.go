package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	contractapp "github.com/mohammadpnp/rendimientos-admin/internal/application/contract"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

func newContractsCmd(connect connectFunc) *cobra.Command {
	cmd := newImportCmd(batchdomain.EntityContracts, connect)
	cmd.AddCommand(newExpiringCmd(connect))
	return cmd
}

func newExpiringCmd(connect connectFunc) *cobra.Command {
	var within int

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List contracts expiring within a number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			days := within
			if !cmd.Flags().Changed("within") {
				days = env.window
			}
			return runExpiring(cmd.Context(), env.services.ListContracts, days, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&within, "within", 30, "window in days")
	return cmd
}

func runExpiring(ctx context.Context, list contractapp.ListContracts, within int, out io.Writer) error {
	res, err := list.Execute(ctx, contractapp.ListContractsInput{ExpiringWithinDays: &within})
	if err != nil {
		return err
	}
	if len(res.Contracts) == 0 {
		fmt.Fprintf(out, "no contracts expiring within %d days\n", within)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tTYPE\tEXPIRES\tDAYS\tAMOUNT")
	for _, c := range res.Contracts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.UserEmail, c.ContractType, c.ExpirationDate, c.RemainingDays, c.InvestmentAmount.StringFixed(2))
	}
	return tw.Flush()
}
