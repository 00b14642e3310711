package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	LeadgenErrorBadInput        = "LEADGEN_BAD_INPUT"
	LeadgenErrorCoercionFailed  = "LEADGEN_COERCION_FAILED"
	LeadgenErrorDuplicateRecord = "LEADGEN_DUPLICATE_RECORD"
	LeadgenErrorFetchFailed     = "LEADGEN_FETCH_FAILED"
	LeadgenErrorPageLimit       = "LEADGEN_PAGE_LIMIT"
	LeadgenErrorNotFound        = "LEADGEN_NOT_FOUND"
	LeadgenErrorInternal        = "LEADGEN_INTERNAL_ERROR"
)

func leadgenErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureLeadgenErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "page limit exceeded"):
		return newLeadgenError(err.Error(), goerrors.CategoryOperation, LeadgenErrorPageLimit)
	case strings.Contains(msg, "parse") && (strings.Contains(msg, "float") || strings.Contains(msg, "integer")):
		return newLeadgenError(err.Error(), goerrors.CategoryBadInput, LeadgenErrorCoercionFailed)
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return newLeadgenError(err.Error(), goerrors.CategoryConflict, LeadgenErrorDuplicateRecord)
	case strings.Contains(msg, "fetch"), strings.Contains(msg, "unexpected status"):
		return newLeadgenError(err.Error(), goerrors.CategoryExternal, LeadgenErrorFetchFailed)
	case strings.Contains(msg, "not found"):
		return newLeadgenError(err.Error(), goerrors.CategoryNotFound, LeadgenErrorNotFound)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newLeadgenError(err.Error(), goerrors.CategoryBadInput, LeadgenErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureLeadgenErrorEnvelope(mapped)
}

func newLeadgenError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureLeadgenErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureLeadgenErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = leadgenHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultLeadgenTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultLeadgenTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return LeadgenErrorBadInput
	case goerrors.CategoryNotFound:
		return LeadgenErrorNotFound
	case goerrors.CategoryConflict:
		return LeadgenErrorDuplicateRecord
	case goerrors.CategoryExternal:
		return LeadgenErrorFetchFailed
	case goerrors.CategoryOperation:
		return LeadgenErrorPageLimit
	default:
		return LeadgenErrorInternal
	}
}

func leadgenHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
