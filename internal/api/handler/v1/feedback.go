package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/domain"
)

type FeedbackService interface {
	CreateFeedback(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	GetFeedback(ctx context.Context, id uint) (domain.Feedback, error)
	UpdateFeedback(ctx context.Context, id uint, upd domain.FeedbackUpdate) (domain.Feedback, error)
	DeleteFeedback(ctx context.Context, id uint) error
}

type FeedbackHandler struct {
	svc FeedbackService
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		svc: svc,
	}
}

// HandleCreateFeedback godoc
// @Summary      Leave feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        request  body      request.FeedbackRequest  true  "request body"
// @Success      201      {object}  response.FeedbackResponse
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback [post]
func (h *FeedbackHandler) HandleCreateFeedback(ctx *gin.Context) {
	var req request.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	feedback, err := h.svc.CreateFeedback(ctx.Request.Context(), req.Feedback())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateFeedback -> h.svc.CreateFeedback", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.FeedbackResponse{Success: true, Feedback: feedback})
}

// HandleListFeedback godoc
// @Summary      List feedback, newest first
// @Tags         feedback
// @Produce      json
// @Success      200  {object}  response.FeedbackListResponse
// @Failure      500  {object}  response.Err
// @Router       /feedback [get]
func (h *FeedbackHandler) HandleListFeedback(ctx *gin.Context) {
	feedback, err := h.svc.ListFeedback(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListFeedback -> h.svc.ListFeedback", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.FeedbackListResponse{
		Success:  true,
		Count:    len(feedback),
		Feedback: feedback,
	})
}

// HandleGetFeedback godoc
// @Summary      Get feedback
// @Tags         feedback
// @Produce      json
// @Param        id   path      int  true  "Feedback ID"
// @Success      200  {object}  response.FeedbackResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) HandleGetFeedback(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	feedback, err := h.svc.GetFeedback(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetFeedback -> h.svc.GetFeedback", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.FeedbackResponse{Success: true, Feedback: feedback})
}

// HandleUpdateFeedback godoc
// @Summary      Update feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id       path      int                            true  "Feedback ID"
// @Param        request  body      request.UpdateFeedbackRequest  true  "request body"
// @Success      200      {object}  response.FeedbackResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback/{id} [put]
func (h *FeedbackHandler) HandleUpdateFeedback(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req request.UpdateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	feedback, err := h.svc.UpdateFeedback(ctx.Request.Context(), id, req.Update())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateFeedback -> h.svc.UpdateFeedback", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.FeedbackResponse{Success: true, Feedback: feedback})
}

// HandleDeleteFeedback godoc
// @Summary      Delete feedback
// @Tags         feedback
// @Produce      json
// @Param        id   path      int  true  "Feedback ID"
// @Success      200  {object}  response.MessageResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) HandleDeleteFeedback(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteFeedback(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteFeedback -> h.svc.DeleteFeedback", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message("Feedback deleted successfully"))
}
