package user

import (
	"context"
	"fmt"

	"github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

var Columns = batch.Columns{
	Required: []string{"email", "password"},
	Optional: []string{"displayName", "phoneNumber"},
}

type userRow struct {
	Email    string `col:"email" validate:"required,mailbox"`
	Password string `col:"password" validate:"required,min=6"`
}

var Schema = batch.Schema[domain.Record]{
	Columns:  Columns,
	Validate: validateRow,
}

func validateRow(row batchdomain.RawRow) (domain.Record, batchdomain.Violations) {
	c := batch.NewCoercer(row)
	c.Check(userRow{Email: row.Get("email"), Password: row.Get("password")})
	if len(row.Get("password")) > domain.MaxPasswordBytes {
		c.Reject("password", fmt.Sprintf("too long: maximum %d bytes", domain.MaxPasswordBytes))
	}
	if violations := c.Violations(); len(violations) > 0 {
		return domain.Record{}, violations
	}

	record, err := domain.NewRecord(row.Number, row.Get("email"), row.Get("password"), row.Get("displayName"), row.Get("phoneNumber"))
	if err != nil {
		c.Reject("email", err.Error())
		return domain.Record{}, c.Violations()
	}
	return record, nil
}

// NewImportUsers builds the bulk user upload. Users already registered under
// the same email, in any letter case, are skipped.
func NewImportUsers(dir batchdomain.Directory, creator domain.Creator, opts batch.Options) batch.Importer {
	return batch.NewImporter(batch.Pipeline[domain.Record]{
		Entity:    batchdomain.EntityUsers,
		Schema:    Schema,
		Directory: dir,
		Create: func(ctx context.Context, record domain.Record) (string, error) {
			return creator.CreateUser(ctx, record)
		},
		Runs:      opts.Runs,
		MaxErrors: opts.MaxErrors,
		Logger:    opts.Logger,
	})
}
