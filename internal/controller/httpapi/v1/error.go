package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/school-management-toolkit/registrar/internal/entity/dto/v1"
	"github.com/school-management-toolkit/registrar/internal/usecase/security"
	"github.com/school-management-toolkit/registrar/internal/usecase/sqldb"
)

type response struct {
	Error   string `json:"error,omitempty" example:"message"`
	Message string `json:"message,omitempty" example:"message"`
}

type lockedResponse struct {
	Error            string    `json:"error"`
	UnlockAt         time.Time `json:"unlock_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

func ErrorResponse(c *gin.Context, err error) {
	var (
		validatorErr   validator.ValidationErrors
		notValidErr    dto.NotValidError
		weakErr        security.WeakPasswordError
		emptyErr       security.EmptyPasswordError
		lockedErr      security.AccountLockedError
		credentialsErr security.InvalidCredentialsError
		sessionErr     security.SessionInvalidError
		nfErr          sqldb.NotFoundError
		dbErr          sqldb.DatabaseError
	)

	switch {
	case errors.As(err, &validatorErr):
		validatorErrorHandle(c, validatorErr)
	case errors.As(err, &notValidErr):
		notValidErrorHandle(c, notValidErr)
	case errors.As(err, &weakErr):
		msg := weakErr.FriendlyMessage()
		c.AbortWithStatusJSON(http.StatusBadRequest, response{Error: msg, Message: msg})
	case errors.As(err, &emptyErr):
		msg := emptyErr.FriendlyMessage()
		c.AbortWithStatusJSON(http.StatusBadRequest, response{Error: msg, Message: msg})
	case errors.As(err, &lockedErr):
		lockedErrorHandle(c, lockedErr)
	case errors.As(err, &credentialsErr):
		msg := credentialsErr.FriendlyMessage()
		c.AbortWithStatusJSON(http.StatusUnauthorized, response{Error: msg, Message: msg})
	case errors.As(err, &sessionErr):
		msg := sessionErr.FriendlyMessage()
		c.AbortWithStatusJSON(http.StatusUnauthorized, response{Error: msg, Message: msg})
	case errors.As(err, &nfErr):
		notFoundErrorHandle(c, nfErr)
	case errors.As(err, &dbErr):
		msg := dbErr.App.FriendlyMessage()
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{Error: msg, Message: msg})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{Error: "general error", Message: "general error"})
	}
}

func validatorErrorHandle(c *gin.Context, err validator.ValidationErrors) {
	msg := err.Error()
	c.AbortWithStatusJSON(http.StatusBadRequest, response{Error: msg, Message: msg})
}

func notValidErrorHandle(c *gin.Context, err dto.NotValidError) {
	msg := err.App.FriendlyMessage()
	c.AbortWithStatusJSON(http.StatusBadRequest, response{Error: msg, Message: msg})
}

// 423 Locked carries the unlock time so a client can show a countdown.
func lockedErrorHandle(c *gin.Context, err security.AccountLockedError) {
	c.AbortWithStatusJSON(http.StatusLocked, lockedResponse{
		Error:            err.FriendlyMessage(),
		UnlockAt:         err.UnlockAt,
		RemainingSeconds: int(err.Remaining.Round(time.Second).Seconds()),
	})
}

func notFoundErrorHandle(c *gin.Context, err sqldb.NotFoundError) {
	message := "Error not found"
	if err.App.FriendlyMessage() != "" {
		message = err.App.FriendlyMessage()
	}

	c.AbortWithStatusJSON(http.StatusNotFound, response{Error: message, Message: message})
}
