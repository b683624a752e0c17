package contract

import (
	"context"
	"strings"

	"github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

var Columns = batch.Columns{
	Required: []string{"userEmail", "contractType", "investmentAmount", "startDate", "expirationDate"},
	Optional: []string{
		"rendimientoPct", "rendimientoMxn", "balance", "plazoMeses",
		"tipoPortafolio", "rendimientoMensual", "comisionRetiro", "notas",
	},
}

type contractRow struct {
	UserEmail        string `col:"userEmail" validate:"required,mailbox"`
	ContractType     string `col:"contractType" validate:"required,max=100"`
	InvestmentAmount string `col:"investmentAmount" validate:"required"`
	StartDate        string `col:"startDate" validate:"required"`
	ExpirationDate   string `col:"expirationDate" validate:"required"`
}

var Schema = batch.Schema[domain.Record]{
	Columns:  Columns,
	Validate: validateRow,
}

func validateRow(row batchdomain.RawRow) (domain.Record, batchdomain.Violations) {
	c := batch.NewCoercer(row)
	c.Check(contractRow{
		UserEmail:        row.Get("userEmail"),
		ContractType:     row.Get("contractType"),
		InvestmentAmount: row.Get("investmentAmount"),
		StartDate:        row.Get("startDate"),
		ExpirationDate:   row.Get("expirationDate"),
	})

	record := domain.Record{
		UserEmail:          c.Text("userEmail"),
		ContractType:       c.Text("contractType"),
		InvestmentAmount:   c.Amount("investmentAmount"),
		StartDate:          c.Date("startDate"),
		ExpirationDate:     c.Date("expirationDate"),
		RendimientoPct:     c.Float("rendimientoPct"),
		RendimientoMxn:     c.Float("rendimientoMxn"),
		Balance:            c.Float("balance"),
		PlazoMeses:         c.Int("plazoMeses"),
		RendimientoMensual: c.Float("rendimientoMensual"),
		ComisionRetiro:     c.Float("comisionRetiro"),
		Notas:              c.Text("notas"),
		Row:                row.Number,
	}

	if !c.Rejected("startDate") && !c.Rejected("expirationDate") && !record.ExpirationDate.After(record.StartDate) {
		c.Reject("expirationDate", "must be after startDate")
	}

	portfolio, ok := domain.ParsePortfolio(c.Text("tipoPortafolio"))
	if !ok {
		c.Reject("tipoPortafolio", "must be one of: "+strings.Join(portfolioNames(), ", "))
	}
	record.TipoPortafolio = portfolio

	return record, c.Violations()
}

func portfolioNames() []string {
	return []string{
		string(domain.PortfolioConservador),
		string(domain.PortfolioModerado),
		string(domain.PortfolioAgresivo),
	}
}

// NewImportContracts builds the bulk contract upload. Each row is attached to
// the user registered under userEmail; rows whose user does not exist fail
// on their own without stopping the batch.
func NewImportContracts(dir batchdomain.Directory, creator domain.Creator, opts batch.Options) batch.Importer {
	return batch.NewImporter(batch.Pipeline[domain.Record]{
		Entity:    batchdomain.EntityContracts,
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
				return creator.CreateContract(ctx, domain.FromRecord(userID, r))
			}, nil
		},
		Runs:      opts.Runs,
		MaxErrors: opts.MaxErrors,
		Logger:    opts.Logger,
	})
}
