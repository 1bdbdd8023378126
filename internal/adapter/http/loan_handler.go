package http

import (
	"errors"
	"net/http"
	"strconv"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/interest"
	"lending-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// statusFor maps the domain's error taxonomy onto HTTP statuses: missing
// loans are 404, wrong-state operations 409, amount/direction/numeric
// rejections 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrClosed),
		errors.Is(err, domain.ErrFrozen),
		errors.Is(err, domain.ErrNotFrozen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrExcessiveAmount),
		errors.Is(err, domain.ErrRateIncrease),
		errors.Is(err, domain.ErrDurationDecrease),
		errors.Is(err, domain.ErrInvalidTerms),
		errors.Is(err, interest.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrHookRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func loanIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("loan_id"), 10, 64)
}

type createLoanReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	Amount     uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type createInstallmentsReq struct {
	BorrowerID string   `json:"borrower_id" validate:"required,hex32"`
	Amounts    []uint64 `json:"amounts" validate:"required,min=1,dive,gt=0"`
}

func (h *LoanHandler) CreateInstallments(c echo.Context) error {
	var req createInstallmentsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dtos, err := h.uc.CreateInstallments(c.Request().Context(), loan.CreateInstallmentsInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dtos)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetPreview(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var offset uint64
	if raw := c.QueryParam("periods"); raw != "" {
		offset, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid periods offset"})
		}
	}
	dto, err := h.uc.Preview(c.Request().Context(), id, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetCounter(c echo.Context) error {
	next, err := h.uc.Counter(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"next_loan_id": next})
}

// amountReq carries either a concrete amount or the repay-all flag.
type amountReq struct {
	Amount uint64 `json:"amount"`
	All    bool   `json:"all"`
}

func (r amountReq) effective() uint64 {
	if r.All {
		return loan.RepayAll
	}
	return r.Amount
}

func (h *LoanHandler) Repay(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Repay(c.Request().Context(), id, req.effective())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UndoRepayment(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.UndoRepayment(c.Request().Context(), id, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Discount(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Discount(c.Request().Context(), id, req.effective())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Revoke(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Revoke(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Freeze(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Freeze(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Unfreeze(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Unfreeze(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type durationReq struct {
	DurationInPeriods uint64 `json:"duration_in_periods" validate:"required,gt=0"`
}

func (h *LoanHandler) UpdateDuration(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req durationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.UpdateDuration(c.Request().Context(), id, req.DurationInPeriods)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type ratesReq struct {
	InterestRatePrimary   *uint64 `json:"interest_rate_primary"`
	InterestRateSecondary *uint64 `json:"interest_rate_secondary"`
}

func (h *LoanHandler) UpdateRates(c echo.Context) error {
	id, err := loanIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req ratesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.UpdateRates(c.Request().Context(), id, req.InterestRatePrimary, req.InterestRateSecondary)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type batchReq struct {
	Items []loan.BatchItem `json:"items" validate:"required,min=1"`
}

func (h *LoanHandler) RepayBatch(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dtos, err := h.uc.RepayBatch(c.Request().Context(), req.Items)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) DiscountBatch(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dtos, err := h.uc.DiscountBatch(c.Request().Context(), req.Items)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// Register wires every loan route onto g. Mutating routes are expected to
// sit behind the idempotency middleware; the caller decides the grouping.
func (h *LoanHandler) Register(g *echo.Group) {
	g.POST("/loans", h.CreateLoan)
	g.POST("/loans/installments", h.CreateInstallments)
	g.GET("/loans/counter", h.GetCounter)
	g.GET("/loans/:loan_id", h.GetLoan)
	g.GET("/loans/:loan_id/preview", h.GetPreview)
	g.POST("/loans/:loan_id/repay", h.Repay)
	g.POST("/loans/:loan_id/repay/undo", h.UndoRepayment)
	g.POST("/loans/:loan_id/discount", h.Discount)
	g.POST("/loans/:loan_id/revoke", h.Revoke)
	g.POST("/loans/:loan_id/freeze", h.Freeze)
	g.POST("/loans/:loan_id/unfreeze", h.Unfreeze)
	g.PATCH("/loans/:loan_id/duration", h.UpdateDuration)
	g.PATCH("/loans/:loan_id/rates", h.UpdateRates)
	g.POST("/loans/repayments", h.RepayBatch)
	g.POST("/loans/discounts", h.DiscountBatch)
}
