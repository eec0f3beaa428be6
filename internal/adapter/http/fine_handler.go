package http

import (
	"net/http"
	"strconv"

	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type FineHandler struct{ uc *fineuc.Usecase }

func NewFineHandler(uc *fineuc.Usecase) *FineHandler { return &FineHandler{uc: uc} }

type lostBookReq struct {
	// Falls back to the book price when omitted
	ReplacementCost *decimal.Decimal `json:"replacement_cost" validate:"omitempty,dec2,gte=0"`
}

type payFineReq struct {
	PaidBy string `json:"paid_by" validate:"required,hex32"`
	Method string `json:"method"  validate:"required,oneof=cash card mobile_money bank_transfer"`
}

type waiveFineReq struct {
	WaivedBy string `json:"waived_by" validate:"required,hex32"`
	Reason   string `json:"reason"    validate:"required,max=500"`
}

func (h *FineHandler) PreviewOverdueFine(c echo.Context) error {
	loanID, ok := hexParam(c, "loan_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "loan_id must be 32-char lowercase hex"})
	}
	out, err := h.uc.PreviewOverdueFine(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FineHandler) CreateOverdueFine(c echo.Context) error {
	loanID, ok := hexParam(c, "loan_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "loan_id must be 32-char lowercase hex"})
	}
	out, err := h.uc.CreateOverdueFine(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	if !out.Created {
		// inside grace: nothing to charge
		return c.JSON(http.StatusOK, out)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FineHandler) CreateLostBookFine(c echo.Context) error {
	loanID, ok := hexParam(c, "loan_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "loan_id must be 32-char lowercase hex"})
	}
	var req lostBookReq
	// the body is optional
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}
	out, err := h.uc.CreateLostBookFine(c.Request().Context(), loanID, req.ReplacementCost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FineHandler) PayFine(c echo.Context) error {
	fineID, ok := hexParam(c, "fine_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fine_id must be 32-char lowercase hex"})
	}
	var req payFineReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.PayFine(c.Request().Context(), fineuc.PayInput{FineID: fineID, PaidBy: req.PaidBy, Method: req.Method})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FineHandler) WaiveFine(c echo.Context) error {
	fineID, ok := hexParam(c, "fine_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fine_id must be 32-char lowercase hex"})
	}
	var req waiveFineReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.WaiveFine(c.Request().Context(), fineuc.WaiveInput{FineID: fineID, WaivedBy: req.WaivedBy, Reason: req.Reason})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FineHandler) GetUserFineSummary(c echo.Context) error {
	userID, ok := hexParam(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id must be 32-char lowercase hex"})
	}
	out, err := h.uc.GetUserFineSummary(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FineHandler) GetFineStatistics(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 366 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "days must be an integer between 1 and 366"})
		}
		days = n
	}
	out, err := h.uc.GetFineStatistics(c.Request().Context(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
