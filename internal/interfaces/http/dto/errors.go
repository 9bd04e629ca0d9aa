package dto

import (
	"net/http"
	"strings"
)

// Standardized error codes. Context codes such as LEASE_OVERLAP are passed
// through unchanged and resolved by DomainCodeHTTPStatus.
const (
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput        = "ERR_INVALID_INPUT"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
	ErrCodePayloadTooLarge     = "ERR_PAYLOAD_TOO_LARGE"
	// ErrCodeUnavailable means an optional subsystem is switched off or a
	// dependency timed out
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps the standardized codes to HTTP status codes
var ErrorCodeHTTPStatus = statusTable(map[int][]string{
	http.StatusBadRequest:            {ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput},
	http.StatusUnauthorized:          {ErrCodeUnauthorized},
	http.StatusForbidden:             {ErrCodeForbidden},
	http.StatusNotFound:              {ErrCodeNotFound},
	http.StatusConflict:              {ErrCodeAlreadyExists, ErrCodeConcurrencyConflict},
	http.StatusRequestEntityTooLarge: {ErrCodePayloadTooLarge},
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState},
	http.StatusTooManyRequests:       {ErrCodeRateLimited},
	http.StatusInternalServerError:   {ErrCodeInternal},
	http.StatusServiceUnavailable:    {ErrCodeUnavailable},
})

// DomainCodeHTTPStatus maps the context error codes of the domain packages.
// Unlisted codes starting with INVALID_ are input errors.
var DomainCodeHTTPStatus = statusTable(map[int][]string{
	http.StatusBadRequest: {"END_BEFORE_START", "RENT_REQUIRED", "EMPTY_FILE"},
	http.StatusNotFound:   {"TENANT_NOT_FOUND"},
	http.StatusConflict: {
		"LEASE_OVERLAP",
		"IN_USE",
		"TENANT_EMAIL_EXISTS",
		"PROPERTY_HAS_LEASES",
		"PROPERTY_HAS_LIVE_LEASE",
		"TENANT_HAS_LEASES",
		"TRANSACTION_REFERENCE_EXISTS",
		"DOCUMENT_ALREADY_UPLOADED",
	},
	http.StatusRequestEntityTooLarge: {"FILE_TOO_LARGE"},
	http.StatusUnsupportedMediaType:  {"UNSUPPORTED_CONTENT_TYPE"},
	http.StatusUnprocessableEntity: {
		"ALREADY_ARCHIVED",
		"NOT_ARCHIVED",
		"PROPERTY_ARCHIVED",
		"LEASE_TERMINATED",
		"LEASE_NOT_TERMINATED",
		"LEASE_PROPERTY_MISMATCH",
		"DOCUMENT_NOT_UPLOADED",
		"UPLOAD_NOT_FOUND",
		"INVALID_STATUS_TRANSITION",
		"INVALID_TERMINATION_DATE",
	},
	http.StatusBadGateway:         {"STATEMENT_RENDER_FAILED"},
	http.StatusServiceUnavailable: {"STATEMENTS_DISABLED"},
})

func statusTable(byStatus map[int][]string) map[string]int {
	table := make(map[string]int)
	for status, codes := range byStatus {
		for _, code := range codes {
			table[code] = status
		}
	}
	return table
}

// GetHTTPStatus returns the HTTP status for code, 500 when it is unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sharedCodes renames the generic codes of the shared domain package
var sharedCodes = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode maps a generic shared code to its ERR_ form and
// returns any other code as is
func NormalizeErrorCode(code string) string {
	if mapped, ok := sharedCodes[code]; ok {
		return mapped
	}
	return code
}
