package yield

import (
	"context"

	"github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/yield"
)

var Columns = batch.Columns{
	Required: []string{"userEmail", "periodo"},
	Optional: []string{"capital", "rendimientoPct", "rendimientoMxn", "balance", "notas"},
}

type yieldRow struct {
	UserEmail string `col:"userEmail" validate:"required,mailbox"`
	Periodo   string `col:"periodo" validate:"required"`
}

var Schema = batch.Schema[domain.Record]{
	Columns:  Columns,
	Validate: validateRow,
}

func validateRow(row batchdomain.RawRow) (domain.Record, batchdomain.Violations) {
	c := batch.NewCoercer(row)
	c.Check(yieldRow{UserEmail: row.Get("userEmail"), Periodo: row.Get("periodo")})

	record := domain.Record{
		UserEmail:      c.Text("userEmail"),
		Capital:        c.Float("capital"),
		RendimientoPct: c.Float("rendimientoPct"),
		RendimientoMxn: c.Float("rendimientoMxn"),
		Balance:        c.Float("balance"),
		Notas:          c.Text("notas"),
		Row:            row.Number,
	}

	if !c.Rejected("periodo") {
		period, ok := domain.ParsePeriod(c.Text("periodo"))
		if !ok {
			c.Reject("periodo", "must be a period (YYYY-MM)")
		}
		record.Period = period
	}

	return record, c.Violations()
}

// NewImportYields builds the monthly yield upload. A user has at most one
// yield per period.
func NewImportYields(dir batchdomain.Directory, creator domain.Creator, opts batch.Options) batch.Importer {
	return batch.NewImporter(batch.Pipeline[domain.Record]{
		Entity:    batchdomain.EntityYields,
		Schema:    Schema,
		Directory: dir,
		Prepare: func(ctx context.Context, creatable []domain.Record) (batch.CreateFunc[domain.Record], error) {
			owners, err := batch.LookupOwners(ctx, dir, creatable, func(r domain.Record) string { return r.UserEmail })
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, r domain.Record) (string, error) {
				userID, ok := owners[user.NormalizeEmail(r.UserEmail)]
				if !ok {
					return "", user.ErrUserNotFound
				}
				return creator.CreateYield(ctx, domain.FromRecord(userID, r))
			}, nil
		},
		Runs:      opts.Runs,
		MaxErrors: opts.MaxErrors,
		Logger:    opts.Logger,
	})
}
