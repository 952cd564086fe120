package types

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/auth"
	"github.com/killallgit/jamboard-api/internal/services/board"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/confirm"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
	"github.com/killallgit/jamboard-api/internal/services/session"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/internal/services/waveforms"
	apperrors "github.com/killallgit/jamboard-api/pkg/errors"
)

// errorMapping binds a service sentinel to the code it is reported under
type errorMapping struct {
	target error
	code   apperrors.ErrorCode
	status int
}

var errorMappings = []errorMapping{
	{session.ErrValidation, apperrors.ErrCodeValidation, 0},
	{session.ErrEmailExists, apperrors.ErrCodeEmailExists, 0},
	{session.ErrInvalidCredentials, apperrors.ErrCodeInvalidCredentials, 0},
	{session.ErrForbidden, apperrors.ErrCodeForbidden, 0},
	{session.ErrNoSession, apperrors.ErrCodeUnauthorized, 0},
	{auth.ErrInvalidToken, apperrors.ErrCodeUnauthorized, 0},
	{auth.ErrTokenExpired, apperrors.ErrCodeUnauthorized, 0},
	{clips.ErrNoAuthor, apperrors.ErrCodeUnauthorized, 0},
	{clips.ErrClipNotFound, apperrors.ErrCodeNotFound, 0},
	{clips.ErrCommentNotFound, apperrors.ErrCodeNotFound, 0},
	{waveforms.ErrWaveformNotFound, apperrors.ErrCodeNotFound, 0},
	{clips.ErrEmptyComment, apperrors.ErrCodeValidation, 0},
	{clips.ErrInvalidDuration, apperrors.ErrCodeValidation, 0},
	{board.ErrInvalidCategory, apperrors.ErrCodeValidation, 0},
	{board.ErrEmptyPatch, apperrors.ErrCodeValidation, 0},
	{audio.ErrEmptyAudio, apperrors.ErrCodeValidation, 0},
	{audio.ErrInvalidDataURL, apperrors.ErrCodeValidation, 0},
	{audio.ErrRemoteAudio, apperrors.ErrCodeValidation, http.StatusUnprocessableEntity},
	{board.ErrNotOwner, apperrors.ErrCodeForbidden, 0},
	{board.ErrNotRecording, apperrors.ErrCodeConflict, 0},
	{board.ErrClosed, apperrors.ErrCodeUnavailable, 0},
	{recorder.ErrAlreadyRecording, apperrors.ErrCodeConflict, 0},
	{recorder.ErrPermissionDenied, apperrors.ErrCodePermissionDenied, 0},
	{recorder.ErrDeviceUnavailable, apperrors.ErrCodeDeviceUnavailable, 0},
	{recorder.ErrClosed, apperrors.ErrCodeDeviceUnavailable, 0},
	{store.ErrQuotaExceeded, apperrors.ErrCodeStorageQuota, 0},
}

// MapError converts a service error into the AppError it is reported as
func MapError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			appErr := apperrors.Wrap(err, m.code, m.target.Error())
			if m.status != 0 {
				appErr.HTTPCode = m.status
			}
			return appErr
		}
	}
	if errors.Is(err, confirm.ErrDeclined) {
		return apperrors.New(apperrors.ErrCodeConfirmationRequired, err.Error()).WithCause(err)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "internal server error")
}

// SendError writes err as an ErrorResponse with its mapped status
func SendError(c *gin.Context, err error) {
	appErr := MapError(err)
	status := appErr.GetHTTPCode()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{
		Status:  StatusError,
		Message: appErr.Message,
		Error:   string(appErr.Code),
		Details: appErr.Details,
	})
}

// SplitWarning separates a persistence warning from a real failure. The
// returned text is empty when there is nothing to warn about.
func SplitWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if store.IsWarning(err) {
		return warningText(err), nil
	}
	return "", err
}

func warningText(err error) string {
	if errors.Is(err, store.ErrQuotaExceeded) {
		return "Saved for this session only: storage is full. " + err.Error()
	}
	return err.Error()
}
