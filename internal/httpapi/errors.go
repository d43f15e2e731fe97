package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/gin-gonic/gin"
)

const errorCodeHeader = "X-Error-Code"

var statusByCode = map[contract.RecoveryErrorCode]int{
	contract.ErrNotWarranted:        http.StatusUnprocessableEntity,
	contract.ErrNothingToRecover:    http.StatusUnprocessableEntity,
	contract.ErrEmptyPlan:           http.StatusUnprocessableEntity,
	contract.ErrPlanNotFound:        http.StatusNotFound,
	contract.ErrTaskNotFound:        http.StatusNotFound,
	contract.ErrPlanAlreadyApplied:  http.StatusConflict,
	contract.ErrTaskAlreadyComplete: http.StatusConflict,
	contract.ErrInvalidInput:        http.StatusBadRequest,
}

// writeError maps business errors to their status; anything else is an
// infrastructure failure, logged and reported as INTERNAL_ERROR.
func (a *api) writeError(c *gin.Context, err error) {
	if re, ok := contract.AsRecoveryError(err); ok {
		status, known := statusByCode[re.Code]
		if !known {
			status = http.StatusInternalServerError
		}
		writeBody(c, status, re.Code, re.Message)
		return
	}
	a.Logger.ErrorContext(c.Request.Context(), "request_failed",
		"path", c.FullPath(), "user_id", userID(c), slog.Any("error", err))
	writeBody(c, http.StatusInternalServerError, contract.ErrInternal, "internal error")
}

func writeBody(c *gin.Context, status int, code contract.RecoveryErrorCode, msg string) {
	c.Header(errorCodeHeader, string(code))
	c.AbortWithStatusJSON(status, contract.ErrorBody{Code: code, Message: msg})
}

func invalidInput(msg string) error {
	return contract.NewError(contract.ErrInvalidInput, msg)
}
