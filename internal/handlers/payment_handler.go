package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/httpresp"
	usecase "github.com/mindhaven-care/counsel-scheduler/internal/usecase/appointment"
)

// PaymentHandler receives the processor's callback for public
// bookings. The payload is the processor-agnostic shape the payment
// collaborator posts after verifying the event signature upstream.
type PaymentHandler struct {
	outcome *usecase.PaymentOutcome
}

func NewPaymentHandler(outcome *usecase.PaymentOutcome) *PaymentHandler {
	return &PaymentHandler{outcome: outcome}
}

type PaymentCallbackRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Status        string `json:"status" binding:"required"` // succeeded | failed
}

func (h *PaymentHandler) Callback(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	switch req.Status {
	case "succeeded":
		ap, err := h.outcome.Confirm(c.Request.Context(), req.AppointmentID)
		if err != nil {
			respondError(c, err)
			return
		}
		httpresp.OK(c, ap)

	case "failed":
		if err := h.outcome.Fail(c.Request.Context(), req.AppointmentID); err != nil {
			respondError(c, err)
			return
		}
		httpresp.OK(c, gin.H{"released": req.AppointmentID})

	default:
		httperr.BadRequest(c, "invalid_status", "Status must be succeeded or failed.")
	}
}
