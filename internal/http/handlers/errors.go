// Error codes returned in ErrorResponse.Code.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name failures the status alone cannot convey. Clients branch on
// the code, never on the message.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "invalid_reference",
//	  "message": "invalid reference"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/scripture-study/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeTooLong          = "too_long"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeNoCorpus         = "no_corpus"
	ErrCodeInvalidReference = "invalid_reference"
	ErrCodeInvalidItem      = "invalid_item"
)

// statusFor maps service sentinels to (status, code). Unknown errors are 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrChatNotFound),
		errors.Is(err, services.ErrVolumeNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrVerseNotFound),
		errors.Is(err, services.ErrCrossRefNotFound),
		errors.Is(err, services.ErrStudyItemNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrEmptyPrompt):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, services.ErrTooLong):
		return http.StatusBadRequest, ErrCodeTooLong
	case errors.Is(err, services.ErrInvalidStudyItem):
		return http.StatusBadRequest, ErrCodeInvalidItem
	case errors.Is(err, services.ErrInvalidReference):
		return http.StatusBadRequest, ErrCodeInvalidReference
	case errors.Is(err, services.ErrNoCorpus):
		return http.StatusServiceUnavailable, ErrCodeNoCorpus
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
