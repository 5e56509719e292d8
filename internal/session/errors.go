package session

import (
	"errors"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
)

var (
	ErrRequestInFlight     = errors.New("a recommendation request is already in flight")
	ErrEmptyQuery          = errors.New("search query is empty")
	ErrLoadingNotNavigable = errors.New("the loading view is only entered by submitting a profile")
	ErrEmptyMessage        = errors.New("chat message is empty")
)

// ToStandardError maps controller errors onto job error codes. Errors that
// already carry a code pass through.
func ToStandardError(err error, sessionID string) *apperrors.StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := apperrors.AsStandard(err); ok {
		return stdErr
	}
	switch {
	case errors.Is(err, ErrRequestInFlight):
		return apperrors.NewRequestInFlightError(sessionID)
	case errors.Is(err, ErrEmptyQuery):
		return apperrors.NewEmptySearchQueryError()
	case errors.Is(err, ErrLoadingNotNavigable):
		return apperrors.NewInvalidViewError(string(models.ViewLoading))
	case errors.Is(err, ErrEmptyMessage):
		return apperrors.NewEmptyChatMessageError()
	case errors.Is(err, scheme.ErrUnknownFilter), errors.Is(err, scheme.ErrUnknownSort):
		return apperrors.NewInvalidFilterError(err)
	}
	return apperrors.NewInternalError(err)
}
