package http

import (
	"net/http"

	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"
	settingsuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/settings"
	sweepuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/sweep"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	sweep    *sweepuc.Usecase
	ledger   *fineuc.Usecase
	settings *settingsuc.Usecase
}

func NewAdminHandler(s *sweepuc.Usecase, l *fineuc.Usecase, cfg *settingsuc.Usecase) *AdminHandler {
	return &AdminHandler{sweep: s, ledger: l, settings: cfg}
}

type updateSettingReq struct {
	Value     string `json:"value"      validate:"required,max=255"`
	UpdatedBy string `json:"updated_by" validate:"required,hex32"`
}

// RunSweep runs one overdue sweep synchronously and reports the counts.
func (h *AdminHandler) RunSweep(c echo.Context) error {
	res, err := h.sweep.ProcessOverdueFines(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) Reconcile(c echo.Context) error {
	res, err := h.ledger.ReconcileBalances(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) ListSettings(c echo.Context) error {
	out, err := h.settings.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) UpdateSetting(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing key path param"})
	}
	var req updateSettingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.settings.Update(c.Request().Context(), settingsuc.UpdateInput{Key: key, Value: req.Value, UpdatedBy: req.UpdatedBy})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
