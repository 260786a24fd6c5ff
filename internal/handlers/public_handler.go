package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/httpresp"
	appointmentuc "github.com/mindhaven-care/counsel-scheduler/internal/usecase/appointment"
	calendaruc "github.com/mindhaven-care/counsel-scheduler/internal/usecase/calendar"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	availability *calendaruc.ListAvailability
	createPublic *appointmentuc.CreatePublicAppointment
}

func NewPublicHandler(
	availability *calendaruc.ListAvailability,
	createPublic *appointmentuc.CreatePublicAppointment,
) *PublicHandler {
	return &PublicHandler{
		availability: availability,
		createPublic: createPublic,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicBookingRequest struct {
	SlotID       uint   `json:"slot_id" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	ClientName   string `json:"client_name" binding:"required"`
	ClientEmail  string `json:"client_email" binding:"required,email"`
	ClientPhone  string `json:"client_phone"`
	ClientDOB    string `json:"client_date_of_birth"` // YYYY-MM-DD
	ClientGender string `json:"client_gender"`
	Notes        string `json:"notes"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	counselorID, err := strconv.ParseUint(c.Param("counselorId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_counselor_id", "Invalid counselor id.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		uint(counselorID),
		c.Query("date"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *PublicHandler) Book(c *gin.Context) {
	counselorID, err := strconv.ParseUint(c.Param("counselorId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_counselor_id", "Invalid counselor id.")
		return
	}

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	result, err := h.createPublic.Execute(c.Request.Context(), appointmentuc.CreatePublicInput{
		SlotID:       req.SlotID,
		CounselorID:  uint(counselorID),
		Kind:         req.Kind,
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

	httpresp.Created(c, result)
}
