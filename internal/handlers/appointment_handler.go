package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/httpresp"
	"github.com/mindhaven-care/counsel-scheduler/internal/middleware"
	usecase "github.com/mindhaven-care/counsel-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createManual *usecase.CreateManualAppointment
	cancel       *usecase.CancelAppointment
	reschedule   *usecase.RescheduleAppointment
	complete     *usecase.CompleteAppointment
}

func NewAppointmentHandler(
	createManual *usecase.CreateManualAppointment,
	cancel *usecase.CancelAppointment,
	reschedule *usecase.RescheduleAppointment,
	complete *usecase.CompleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createManual: createManual,
		cancel:       cancel,
		reschedule:   reschedule,
		complete:     complete,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateManualAppointmentRequest struct {
	SlotID       uint   `json:"slot_id" binding:"required"`
	ClientName   string `json:"client_name" binding:"required"`
	ClientEmail  string `json:"client_email" binding:"required,email"`
	ClientPhone  string `json:"client_phone"`
	ClientDOB    string `json:"client_date_of_birth"` // YYYY-MM-DD
	ClientGender string `json:"client_gender"`
	Notes        string `json:"notes"`
}

type RescheduleRequest struct {
	NewSlotID uint `json:"new_slot_id" binding:"required"`
}

func parseDOB(s string) *time.Time {
	if s == "" {
		return nil
	}
	dob, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &dob
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var req CreateManualAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createManual.Execute(c.Request.Context(), usecase.CreateManualInput{
		SlotID:       req.SlotID,
		CounselorID:  counselorID,
		ActorID:      counselorID,
		ActorRole:    role,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		ClientPhone:  req.ClientPhone,
		ClientDOB:    parseDOB(req.ClientDOB),
		ClientGender: req.ClientGender,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), uint(id), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), uint(id), req.NewSlotID, actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), uint(id), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
