package dto

import "net/http"

// Wire error codes, ERR_<CATEGORY>_<DETAIL>. Clients switch on these,
// so the strings are part of the API contract.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"

	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeTokenExpired   = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid   = "ERR_TOKEN_INVALID"
	ErrCodeAccountBlocked = "ERR_ACCOUNT_BLOCKED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidWorkbook   = "ERR_INVALID_WORKBOOK"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"

	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// httpStatusByCode picks the response status for each wire code.
// Validation and input problems are 400, auth 401/403, missing
// resources 404, conflicts 409, business rule failures 422.
var httpStatusByCode = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	ErrCodeAccountBlocked: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeInvalidWorkbook:   http.StatusUnprocessableEntity,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,

	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status for a wire code, 500 for codes it
// does not recognize.
func GetHTTPStatus(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// wireCodeByDomainCode folds the fine-grained domain error codes into
// the coarser wire vocabulary above.
var wireCodeByDomainCode = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"USER_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"USERNAME_EXISTS":       ErrCodeAlreadyExists,
	"EMAIL_EXISTS":          ErrCodeAlreadyExists,
	"EQUIPMENT_CODE_EXISTS": ErrCodeAlreadyExists,

	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"ALREADY_ACTIVE":       ErrCodeInvalidState,
	"ALREADY_DEACTIVATED":  ErrCodeInvalidState,
	"NOT_LOCKED":           ErrCodeInvalidState,
	"ALERT_ALREADY_CLOSED": ErrCodeInvalidState,

	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"ACCOUNT_LOCKED":      ErrCodeAccountBlocked,
	"ACCOUNT_INACTIVE":    ErrCodeAccountBlocked,
	"ACCOUNT_PENDING":     ErrCodeAccountBlocked,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountBlocked,
	"USER_DEACTIVATED":    ErrCodeAccountBlocked,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_ERROR":         ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenInvalid,

	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"INVALID_WORKBOOK":     ErrCodeInvalidWorkbook,

	"VALIDATION_ERROR":       ErrCodeValidation,
	"INVALID_USERNAME":       ErrCodeValidation,
	"INVALID_PASSWORD":       ErrCodeValidation,
	"INVALID_EMAIL":          ErrCodeValidation,
	"INVALID_PHONE":          ErrCodeValidation,
	"INVALID_ROLE":           ErrCodeValidation,
	"INVALID_DISPLAY_NAME":   ErrCodeValidation,
	"INVALID_MATERIAL_CODE":  ErrCodeValidation,
	"INVALID_LOCATION":       ErrCodeValidation,
	"INVALID_COUNT_ENTRY":    ErrCodeValidation,
	"INVALID_EQUIPMENT_CODE": ErrCodeValidation,
	"INVALID_ALERT":          ErrCodeValidation,

	"BAD_REQUEST":           ErrCodeBadRequest,
	"REPORT_UNAVAILABLE":    ErrCodeServiceUnavailable,
	"SCHEDULER_UNAVAILABLE": ErrCodeServiceUnavailable,
	"REPORT_FAILED":         ErrCodeInternal,
	"EXPORT_FAILED":         ErrCodeInternal,
	"PASSWORD_HASH_ERROR":   ErrCodeInternal,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// NormalizeErrorCode translates a domain error code to its wire code.
// Codes already in wire form, or unknown ones, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wire, ok := wireCodeByDomainCode[code]; ok {
		return wire
	}
	return code
}
