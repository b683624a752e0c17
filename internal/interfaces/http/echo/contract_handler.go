package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/rendimientos-admin/internal/application/contract"
)

type ContractHandler struct {
	list   app.ListContracts
	totals app.GetContractTotals
}

func NewContractHandler(list app.ListContracts, totals app.GetContractTotals) *ContractHandler {
	return &ContractHandler{list: list, totals: totals}
}

// ListContracts returns every contract, or with ?expiring_within=N only those
// expiring in the next N days.
func (h *ContractHandler) ListContracts(c echo.Context) error {
	var in app.ListContractsInput
	if raw := c.QueryParam("expiring_within"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, failure("invalid_window", "expiring_within must be an integer"))
		}
		in.ExpiringWithinDays = &days
	}

	out, err := h.list.Execute(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, app.ErrInvalidWindow) {
			return c.JSON(http.StatusBadRequest, failure("invalid_window", "expiring_within must not be negative"))
		}
		return c.JSON(http.StatusInternalServerError, failure("internal_error", "failed to list contracts"))
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ContractHandler) Totals(c echo.Context) error {
	out, err := h.totals.Execute(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, failure("internal_error", "failed to total contracts"))
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
