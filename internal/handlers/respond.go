package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/logger"
)

// statusFor maps each business error code to its HTTP status. Codes
// describing a malformed request are 400, missing resources 404,
// rejected state transitions 422.
var statusFor = map[string]int{
	httperr.CodeInvalidDate:   http.StatusBadRequest,
	httperr.CodeInvalidTime:   http.StatusBadRequest,
	httperr.CodePastTime:      http.StatusBadRequest,
	httperr.CodeBadAlignment:  http.StatusBadRequest,
	httperr.CodeBadDuration:   http.StatusBadRequest,
	httperr.CodeDuplicateSlot: http.StatusBadRequest,
	httperr.CodeSlotOverlap:   http.StatusBadRequest,
	httperr.CodeBelowMinimum:  http.StatusBadRequest,

	httperr.CodeCalendarNotFound:    http.StatusNotFound,
	httperr.CodeCounselorNotFound:   http.StatusNotFound,
	httperr.CodeSlotNotFound:        http.StatusNotFound,
	httperr.CodeAppointmentNotFound: http.StatusNotFound,

	httperr.CodeForbidden: http.StatusForbidden,

	httperr.CodeCalendarExists:        http.StatusUnprocessableEntity,
	httperr.CodeSlotUnavailable:       http.StatusUnprocessableEntity,
	httperr.CodeSessionTypeMismatch:   http.StatusUnprocessableEntity,
	httperr.CodeCounselorMismatch:     http.StatusUnprocessableEntity,
	httperr.CodeAlreadyCancelled:      http.StatusUnprocessableEntity,
	httperr.CodeCannotCancelCompleted: http.StatusUnprocessableEntity,
	httperr.CodeStatusBlocked:         http.StatusUnprocessableEntity,
}

func respondError(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		status, known := statusFor[be.Code]
		if !known {
			status = http.StatusUnprocessableEntity
		}
		httperr.Write(c, status, be.Code, be.Message)
		return
	}

	logger.Get().Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	httperr.Internal(c, "internal_error", "Something went wrong.")
}
