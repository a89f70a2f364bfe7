package errinfo

import (
	"errors"

	"sheetcraft/internal/apperr"
)

// ErrorInfo is the structured error payload returned to MCP clients.
type ErrorInfo struct {
	ErrorCode string `json:"error_code"`
	Tool      string `json:"tool,omitempty"`
	Retryable bool   `json:"retryable"`
	Detail    string `json:"detail,omitempty"`
}

const (
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeNotFound         = "NOT_FOUND"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeFileReadFailed   = "FILE_READ_FAILED"
	CodeFileWriteFailed  = "FILE_WRITE_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

func InvalidParams(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeInvalidParams, Tool: tool, Retryable: false, Detail: detail}
}

func NotFound(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeNotFound, Tool: tool, Retryable: false, Detail: detail}
}

func AccessDenied(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeAccessDenied, Tool: tool, Retryable: false, Detail: detail}
}

func ValidationFailed(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeValidationFailed, Tool: tool, Retryable: false, Detail: detail}
}

func StoreUnavailable(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeStoreUnavailable, Tool: tool, Retryable: true, Detail: detail}
}

func FileReadFailed(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeFileReadFailed, Tool: tool, Retryable: false, Detail: detail}
}

func FileWriteFailed(tool, detail string) *ErrorInfo {
	return &ErrorInfo{ErrorCode: CodeFileWriteFailed, Tool: tool, Retryable: false, Detail: detail}
}

// FromError maps a layered error onto a wire payload. Unclassified errors
// surface as non-retryable internal failures.
func FromError(tool string, err error) *ErrorInfo {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return &ErrorInfo{ErrorCode: CodeInternal, Tool: tool, Retryable: false, Detail: err.Error()}
	}
	switch appErr.Code {
	case apperr.CodeNotFound:
		return NotFound(tool, appErr.Error())
	case apperr.CodeAccess:
		return AccessDenied(tool, appErr.Error())
	case apperr.CodeValidation:
		return ValidationFailed(tool, appErr.Error())
	case apperr.CodeUnavailable:
		return StoreUnavailable(tool, appErr.Error())
	default:
		return &ErrorInfo{ErrorCode: CodeInternal, Tool: tool, Retryable: false, Detail: appErr.Error()}
	}
}
