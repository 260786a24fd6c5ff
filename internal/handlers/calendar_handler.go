package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/httpresp"
	"github.com/mindhaven-care/counsel-scheduler/internal/middleware"
	usecase "github.com/mindhaven-care/counsel-scheduler/internal/usecase/calendar"
)

// ======================================================
// HANDLER
// ======================================================

type CalendarHandler struct {
	listDates       *usecase.ListCalendarDates
	createDate      *usecase.CreateCalendarDate
	createSlots     *usecase.CreateSlots
	createSlotsBulk *usecase.CreateSlotsWithDates
	deleteSlot      *usecase.DeleteSlot
}

func NewCalendarHandler(
	listDates *usecase.ListCalendarDates,
	createDate *usecase.CreateCalendarDate,
	createSlots *usecase.CreateSlots,
	createSlotsBulk *usecase.CreateSlotsWithDates,
	deleteSlot *usecase.DeleteSlot,
) *CalendarHandler {
	return &CalendarHandler{
		listDates:       listDates,
		createDate:      createDate,
		createSlots:     createSlots,
		createSlotsBulk: createSlotsBulk,
		deleteSlot:      deleteSlot,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateCalendarDateRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type CreateSlotsRequest struct {
	Slots []usecase.SlotRequest `json:"slots" binding:"required"`
}

type CreateSlotsWithDatesRequest struct {
	Days []usecase.DayRequest `json:"days" binding:"required"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *CalendarHandler) ListDates(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)

	summaries, err := h.listDates.Execute(c.Request.Context(), counselorID)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, summaries)
}

func (h *CalendarHandler) CreateDate(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateCalendarDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	cal, err := h.createDate.Execute(c.Request.Context(), counselorID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, cal)
}

func (h *CalendarHandler) CreateSlots(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	calendarID, err := strconv.ParseUint(c.Param("calendarId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_calendar_id", "Invalid calendar id.")
		return
	}

	var req CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	count, err := h.createSlots.Execute(c.Request.Context(), usecase.CreateSlotsInput{
		CalendarID:  uint(calendarID),
		CounselorID: counselorID,
		ActorRole:   role,
		Slots:       req.Slots,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"created": count})
}

func (h *CalendarHandler) CreateSlotsWithDates(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var req CreateSlotsWithDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	count, err := h.createSlotsBulk.Execute(c.Request.Context(), usecase.CreateSlotsWithDatesInput{
		CounselorID: counselorID,
		ActorRole:   role,
		Days:        req.Days,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"created": count})
}

func (h *CalendarHandler) DeleteSlot(c *gin.Context) {
	counselorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	slotID, err := strconv.ParseUint(c.Param("slotId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid slot id.")
		return
	}

	slot, err := h.deleteSlot.Execute(c.Request.Context(), counselorID, uint(slotID), role)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"deleted": slot.ID})
}
