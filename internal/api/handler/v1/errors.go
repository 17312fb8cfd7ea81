package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/service"
)

// Messages shown to API clients.
var (
	msgUserExists           = errors.New("User with this email or username already exists")
	msgEmailTaken           = errors.New("Email is already in use by another account")
	msgUsernameTaken        = errors.New("Username is already taken")
	msgPasswordRequired     = errors.New("Current password is required to set a new password")
	msgPasswordIncorrect    = errors.New("Current password is incorrect")
	msgEventNotAvailable    = errors.New("This event is not available")
	msgEventNotApproved     = errors.New("Cannot register for unapproved event")
	msgAlreadyAttending     = errors.New("You are already registered for this event")
	msgEventFull            = errors.New("Event is at full capacity")
	msgEventNowFull         = errors.New("Event is now at full capacity")
	msgCapacityBelow        = errors.New("Capacity cannot be lower than the number of registered attendees")
	msgDuplicatePending     = errors.New("You already have a pending payment for this event")
	msgPaymentNotEditable   = errors.New("Only pending or rejected payments can be edited")
	msgPaymentNotDeletable  = errors.New("Only pending payments can be deleted")
	msgNegativePrice        = errors.New("Price must not be negative")
	msgNegativeAmount       = errors.New("Amount must not be negative")
	msgInvalidID            = errors.New("Invalid id")
	msgUnsupportedImageType = errors.New("Only image files are allowed")
	msgImageTooLarge        = errors.New("Image is too large")
)

// renderServiceErr maps service errors onto the response taxonomy. denied is the
// message used for ErrForbidden; op prefixes unexpected errors in the logs.
func renderServiceErr(ctx *gin.Context, op, denied string, err error) {
	var transition *domain.TransitionError

	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New(denied)))
	case errors.Is(err, service.ErrEventNotAvailable):
		response.RenderErr(ctx, response.ErrPermissionDenied(msgEventNotAvailable))

	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound("user", "id", ctx.Param("id")))
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("id")))
	case errors.Is(err, service.ErrPaymentNotFound):
		response.RenderErr(ctx, response.ErrNotFound("payment", "id", ctx.Param("id")))
	case errors.Is(err, service.ErrFeedbackNotFound):
		response.RenderErr(ctx, response.ErrNotFound("feedback", "id", ctx.Param("id")))

	case errors.Is(err, service.ErrUserExists):
		response.RenderErr(ctx, response.ErrConflict(msgUserExists))
	case errors.Is(err, service.ErrEmailTaken):
		response.RenderErr(ctx, response.ErrConflict(msgEmailTaken))
	case errors.Is(err, service.ErrUsernameTaken):
		response.RenderErr(ctx, response.ErrConflict(msgUsernameTaken))
	case errors.Is(err, service.ErrDuplicatePending):
		response.RenderErr(ctx, response.ErrConflict(msgDuplicatePending))

	case errors.As(err, &transition):
		response.RenderErr(ctx, response.ErrBadRequest(transition))
	case errors.Is(err, service.ErrEventNotApproved):
		response.RenderErr(ctx, response.ErrBadRequest(msgEventNotApproved))
	case errors.Is(err, service.ErrAlreadyAttending):
		response.RenderErr(ctx, response.ErrBadRequest(msgAlreadyAttending))
	case errors.Is(err, service.ErrEventFull):
		response.RenderErr(ctx, response.ErrBadRequest(msgEventFull))
	case errors.Is(err, service.ErrCapacityBelowAttendees):
		response.RenderErr(ctx, response.ErrBadRequest(msgCapacityBelow))
	case errors.Is(err, service.ErrPaymentNotEditable):
		response.RenderErr(ctx, response.ErrBadRequest(msgPaymentNotEditable))
	case errors.Is(err, service.ErrPaymentNotDeletable):
		response.RenderErr(ctx, response.ErrBadRequest(msgPaymentNotDeletable))
	case errors.Is(err, service.ErrNegativePrice):
		response.RenderErr(ctx, response.ErrBadRequest(msgNegativePrice))
	case errors.Is(err, service.ErrNegativeAmount):
		response.RenderErr(ctx, response.ErrBadRequest(msgNegativeAmount))
	case errors.Is(err, service.ErrCurrentPasswordRequired):
		response.RenderErr(ctx, response.ErrBadRequest(msgPasswordRequired))
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		response.RenderErr(ctx, response.ErrBadRequest(msgPasswordIncorrect))

	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
