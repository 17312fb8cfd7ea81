package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/pkg/storage"
)

type EventService interface {
	CreateEvent(ctx context.Context, actor domain.Actor, event domain.Event) (domain.Event, error)
	ListEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error)
	ListMyEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error)
	ListPendingEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error)
	ListPublicEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error)
	GetPublicEvent(ctx context.Context, id uint) (domain.Event, error)
	UpdateEvent(ctx context.Context, actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error)
	SetApproval(ctx context.Context, actor domain.Actor, id uint, approved bool) (domain.Event, error)
	DeleteEvent(ctx context.Context, actor domain.Actor, id uint) error
	RegisterAttendee(ctx context.Context, actor domain.Actor, id uint) error
}

type ImageStore interface {
	Prepare(file *multipart.FileHeader) (dst, publicPath string, err error)
	Remove(publicPath string) error
}

type EventHandler struct {
	svc    EventService
	images ImageStore
}

func NewEventHandler(svc EventService, images ImageStore) *EventHandler {
	return &EventHandler{
		svc:    svc,
		images: images,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Accepts JSON or a multipart form with an optional image file. Events created by admins are approved immediately.
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true   "request body"
// @Param        image    formData  file                        false  "event image"
// @Success      201      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := req.Event()
	dst, image, ok := h.saveImage(ctx)
	if !ok {
		return
	}
	event.Image = image

	created, err := h.svc.CreateEvent(ctx.Request.Context(), a, event)
	if err != nil {
		discardImage(dst)
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.CreateEvent", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.EventResponse{
		Success: true,
		Event:   created,
	})
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Admins see every event, everyone else only approved ones.
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), a)
	renderEvents(ctx, "v1.HandleListEvents -> h.svc.ListEvents", "", events, err)
}

// HandleListMyEvents godoc
// @Summary      List events organized by the caller
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/myevents [get]
// @Security BearerAuth
func (h *EventHandler) HandleListMyEvents(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	events, err := h.svc.ListMyEvents(ctx.Request.Context(), a)
	renderEvents(ctx, "v1.HandleListMyEvents -> h.svc.ListMyEvents", "", events, err)
}

// HandleListPendingEvents godoc
// @Summary      List events waiting for approval
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/pending [get]
// @Security BearerAuth
func (h *EventHandler) HandleListPendingEvents(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	events, err := h.svc.ListPendingEvents(ctx.Request.Context(), a)
	renderEvents(ctx, "v1.HandleListPendingEvents -> h.svc.ListPendingEvents", "Not authorized to access pending events", events, err)
}

// HandleListPublicEvents godoc
// @Summary      List approved events
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      500  {object}  response.Err
// @Router       /events/public [get]
func (h *EventHandler) HandleListPublicEvents(ctx *gin.Context) {
	events, err := h.svc.ListPublicEvents(ctx.Request.Context())
	renderEvents(ctx, "v1.HandleListPublicEvents -> h.svc.ListPublicEvents", "", events, err)
}

// HandleGetPublicEvent godoc
// @Summary      Get an approved event
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.EventResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/public/{id} [get]
func (h *EventHandler) HandleGetPublicEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	event, err := h.svc.GetPublicEvent(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPublicEvent -> h.svc.GetPublicEvent", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Success: true, Event: event})
}

// HandleGetEvent godoc
// @Summary      Get an event with its attendees
// @Description  Unapproved events are only visible to admins and their organizer.
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.EventResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), a, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Success: true, Event: event})
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Organizer or admin only. An edit by a non-admin sends the event back for approval.
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Param        id       path      int                         true   "Event ID"
// @Param        request  body      request.UpdateEventRequest  true   "request body"
// @Param        image    formData  file                        false  "event image"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{id} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	upd := req.Update()
	dst, image, ok := h.saveImage(ctx)
	if !ok {
		return
	}
	var previous string
	if dst != "" {
		upd.Image = &image
		// UpdateEvent reports access errors itself.
		if current, err := h.svc.GetEvent(ctx.Request.Context(), a, id); err == nil {
			previous = current.Image
		}
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), a, id, upd)
	if err != nil {
		discardImage(dst)
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.UpdateEvent", "Not authorized to update this event", err)
		return
	}

	if previous != "" && previous != event.Image {
		if err = h.images.Remove(previous); err != nil {
			zap.L().Warn("failed to remove replaced image", zap.String("image", previous), zap.Error(err))
		}
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Success: true, Event: event})
}

// HandleApproveEvent godoc
// @Summary      Approve or unapprove an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Event ID"
// @Param        request  body      request.ApproveEventRequest  true  "request body"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{id}/approve [put]
// @Security BearerAuth
func (h *EventHandler) HandleApproveEvent(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req request.ApproveEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.SetApproval(ctx.Request.Context(), a, id, *req.IsApproved)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleApproveEvent -> h.svc.SetApproval", "Not authorized to approve events", err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Success: true, Event: event})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Organizer or admin only. Attendee registrations and payments for the event are removed too.
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.MessageResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), a, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.DeleteEvent", "Not authorized to delete this event", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message("Event deleted successfully"))
}

// HandleRegisterAttendee godoc
// @Summary      Register the caller for an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      int                              true   "Event ID"
// @Param        request  body      request.RegisterAttendeeRequest  false  "request body"
// @Success      200      {object}  response.RegistrationResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{id}/register [post]
// @Security BearerAuth
func (h *EventHandler) HandleRegisterAttendee(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req request.RegisterAttendeeRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if req.NumberOfTickets == 0 {
		req.NumberOfTickets = 1
	}

	if err := h.svc.RegisterAttendee(ctx.Request.Context(), a, id); err != nil {
		renderServiceErr(ctx, "v1.HandleRegisterAttendee -> h.svc.RegisterAttendee", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.RegistrationResponse{
		Success:             true,
		Message:             "Successfully registered for event",
		NumberOfTickets:     req.NumberOfTickets,
		SpecialRequirements: req.SpecialRequirements,
	})
}

func renderEvents(ctx *gin.Context, op, denied string, events []domain.Event, err error) {
	if err != nil {
		renderServiceErr(ctx, op, denied, err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{
		Success: true,
		Count:   len(events),
		Events:  events,
	})
}

// saveImage stores the optional "image" form file. dst is empty when no file was sent.
func (h *EventHandler) saveImage(ctx *gin.Context) (dst, publicPath string, ok bool) {
	file, err := ctx.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", "", true
		}
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return "", "", false
	}

	dst, publicPath, err = h.images.Prepare(file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedImage):
			response.RenderErr(ctx, response.ErrBadRequest(msgUnsupportedImageType))
		case errors.Is(err, storage.ErrImageTooLarge):
			response.RenderErr(ctx, response.ErrBadRequest(msgImageTooLarge))
		default:
			err = fmt.Errorf("v1.saveImage -> h.images.Prepare -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return "", "", false
	}

	if err = ctx.SaveUploadedFile(file, dst); err != nil {
		err = fmt.Errorf("v1.saveImage -> ctx.SaveUploadedFile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return "", "", false
	}

	return dst, publicPath, true
}

func discardImage(dst string) {
	if dst == "" {
		return
	}
	if err := os.Remove(dst); err != nil {
		zap.L().Warn("failed to remove uploaded image", zap.String("path", dst), zap.Error(err))
	}
}
