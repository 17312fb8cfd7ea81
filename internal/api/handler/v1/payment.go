package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/service"
)

type PaymentService interface {
	SubmitPayment(ctx context.Context, actor domain.Actor, payment domain.Payment) (domain.Payment, error)
	ListPendingPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error)
	ListPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error)
	ListMyPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error)
	GetPayment(ctx context.Context, actor domain.Actor, id uint) (domain.Payment, error)
	UpdatePayment(ctx context.Context, actor domain.Actor, id uint, upd domain.PaymentUpdate) (domain.Payment, error)
	DeletePayment(ctx context.Context, actor domain.Actor, id uint) error
}

type ApprovalService interface {
	Approve(ctx context.Context, actor domain.Actor, paymentID uint) (domain.Payment, error)
	Reject(ctx context.Context, actor domain.Actor, paymentID uint) (domain.Payment, error)
}

type PaymentHandler struct {
	svc       PaymentService
	approvals ApprovalService
}

func NewPaymentHandler(svc PaymentService, approvals ApprovalService) *PaymentHandler {
	return &PaymentHandler{
		svc:       svc,
		approvals: approvals,
	}
}

// HandleSubmitPayment godoc
// @Summary      Submit a ticket payment
// @Description  Records a pending payment for an approved event. The card number is masked and the CVV is never stored.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubmitPaymentRequest  true  "request body"
// @Success      201      {object}  response.PaymentResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /payments/submit [post]
// @Security BearerAuth
func (h *PaymentHandler) HandleSubmitPayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	var req request.SubmitPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		response.RenderErr(ctx, response.ErrMissingFields(missing))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.svc.SubmitPayment(ctx.Request.Context(), a, req.Payment())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSubmitPayment -> h.svc.SubmitPayment", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.PaymentResponse{
		Success: true,
		Message: "Payment submitted successfully and awaiting approval",
		Payment: payment,
	})
}

// HandleListPendingPayments godoc
// @Summary      List payments waiting for approval
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.PaymentsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/pending [get]
// @Security BearerAuth
func (h *PaymentHandler) HandleListPendingPayments(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	payments, err := h.svc.ListPendingPayments(ctx.Request.Context(), a)
	renderPayments(ctx, "v1.HandleListPendingPayments -> h.svc.ListPendingPayments", "Not authorized to view pending payments", payments, err)
}

// HandleListPayments godoc
// @Summary      List all payments
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.PaymentsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments [get]
// @Security BearerAuth
func (h *PaymentHandler) HandleListPayments(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(ctx.Request.Context(), a)
	renderPayments(ctx, "v1.HandleListPayments -> h.svc.ListPayments", "Not authorized to view all payments", payments, err)
}

// HandleListMyPayments godoc
// @Summary      Payment history of the caller
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.PaymentsResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/user-history [get]
// @Security BearerAuth
func (h *PaymentHandler) HandleListMyPayments(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	payments, err := h.svc.ListMyPayments(ctx.Request.Context(), a)
	renderPayments(ctx, "v1.HandleListMyPayments -> h.svc.ListMyPayments", "", payments, err)
}

// HandleGetPayment godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  response.PaymentResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/{id} [get]
// @Security BearerAuth
func (h *PaymentHandler) HandleGetPayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	payment, err := h.svc.GetPayment(ctx.Request.Context(), a, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPayment -> h.svc.GetPayment", "Not authorized to view payment details", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PaymentResponse{Success: true, Payment: payment})
}

// HandleUpdatePayment godoc
// @Summary      Edit a payment
// @Description  Owner or admin only. Pending and rejected payments can be edited; a rejected payment goes back to pending.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Payment ID"
// @Param        request  body      request.UpdatePaymentRequest  true  "request body"
// @Success      200      {object}  response.PaymentResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /payments/{id} [put]
// @Security BearerAuth
func (h *PaymentHandler) HandleUpdatePayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.svc.UpdatePayment(ctx.Request.Context(), a, id, req.Update())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePayment -> h.svc.UpdatePayment", "Not authorized to edit this payment", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PaymentResponse{
		Success: true,
		Message: "Payment updated successfully",
		Payment: payment,
	})
}

// HandleDeletePayment godoc
// @Summary      Delete a pending payment
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/{id} [delete]
// @Security BearerAuth
func (h *PaymentHandler) HandleDeletePayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePayment(ctx.Request.Context(), a, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePayment -> h.svc.DeletePayment", "Not authorized to delete this payment", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message("Payment deleted successfully"))
}

// HandleApprovePayment godoc
// @Summary      Approve a pending payment
// @Description  Marks the payment approved and registers its payer for the event in one transaction.
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  response.PaymentResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/approve/{id} [put]
// @Security BearerAuth
func (h *PaymentHandler) HandleApprovePayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	payment, err := h.approvals.Approve(ctx.Request.Context(), a, id)
	if err != nil {
		if errors.Is(err, service.ErrEventFull) {
			response.RenderErr(ctx, response.ErrBadRequest(msgEventNowFull))
			return
		}
		renderServiceErr(ctx, "v1.HandleApprovePayment -> h.approvals.Approve", "Not authorized to approve payments", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PaymentResponse{
		Success: true,
		Message: "Payment approved and user registered for the event",
		Payment: payment,
	})
}

// HandleRejectPayment godoc
// @Summary      Reject a pending payment
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  response.PaymentResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/reject/{id} [put]
// @Security BearerAuth
func (h *PaymentHandler) HandleRejectPayment(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	payment, err := h.approvals.Reject(ctx.Request.Context(), a, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRejectPayment -> h.approvals.Reject", "Not authorized to reject payments", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PaymentResponse{
		Success: true,
		Message: "Payment rejected",
		Payment: payment,
	})
}

func renderPayments(ctx *gin.Context, op, denied string, payments []domain.Payment, err error) {
	if err != nil {
		renderServiceErr(ctx, op, denied, err)
		return
	}

	ctx.JSON(http.StatusOK, response.PaymentsResponse{
		Success:  true,
		Count:    len(payments),
		Payments: payments,
	})
}
