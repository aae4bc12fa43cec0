package errors

import (
	"errors"
	"fmt"
)

// ErrorType은 에러의 종류를 나타냅니다
type ErrorType string

const (
	// ErrorTypeValidation은 유효성 검증 실패를 나타냅니다
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound는 리소스를 찾을 수 없음을 나타냅니다
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict는 같은 인터페이스에 대해 양립할 수 없는 상태가 생성되었음을 나타냅니다
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeMalformedOptions는 본딩 옵션 문자열이 잘못되었음을 나타냅니다
	ErrorTypeMalformedOptions ErrorType = "MALFORMED_OPTIONS"

	// ErrorTypeInvalidIPConfig는 IP 설정이 불완전하거나 모순됨을 나타냅니다
	ErrorTypeInvalidIPConfig ErrorType = "INVALID_IP_CONFIG"

	// ErrorTypeSystem은 시스템 레벨 에러를 나타냅니다
	ErrorTypeSystem ErrorType = "SYSTEM"
)

// DomainError는 도메인 레벨의 에러를 나타냅니다
type DomainError struct {
	Type    ErrorType
	Message string
	// Subject는 에러를 일으킨 인터페이스 이름이나 옵션 토큰입니다
	Subject string
	Cause   error
}

// Error는 error 인터페이스를 구현합니다
func (e *DomainError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", e.Message, e.Subject)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap은 내부 에러를 반환합니다
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is는 에러 비교를 위한 메서드입니다
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// 생성자 함수들

// NewValidationError는 유효성 검증 에러를 생성합니다
func NewValidationError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError는 리소스를 찾을 수 없는 에러를 생성합니다
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewConflictError는 인터페이스 상태 충돌 에러를 생성합니다
func NewConflictError(ifaceName, message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeConflict,
		Message: message,
		Subject: ifaceName,
	}
}

// NewMalformedOptionsError는 잘못된 본딩 옵션 토큰에 대한 에러를 생성합니다
func NewMalformedOptionsError(token, message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeMalformedOptions,
		Message: message,
		Subject: token,
	}
}

// NewInvalidIPConfigError는 IP 설정 에러를 생성합니다
func NewInvalidIPConfigError(network, message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeInvalidIPConfig,
		Message: message,
		Subject: network,
		Cause:   cause,
	}
}

// NewSystemError는 시스템 에러를 생성합니다
func NewSystemError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeSystem,
		Message: message,
		Cause:   cause,
	}
}

// 에러 타입 확인 헬퍼 함수들

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsValidationError는 유효성 검증 에러인지 확인합니다
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsNotFoundError는 리소스를 찾을 수 없는 에러인지 확인합니다
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsConflictError는 인터페이스 상태 충돌 에러인지 확인합니다
func IsConflictError(err error) bool {
	return hasType(err, ErrorTypeConflict)
}

// IsMalformedOptionsError는 본딩 옵션 에러인지 확인합니다
func IsMalformedOptionsError(err error) bool {
	return hasType(err, ErrorTypeMalformedOptions)
}

// IsInvalidIPConfigError는 IP 설정 에러인지 확인합니다
func IsInvalidIPConfigError(err error) bool {
	return hasType(err, ErrorTypeInvalidIPConfig)
}

// IsSystemError는 시스템 에러인지 확인합니다
func IsSystemError(err error) bool {
	return hasType(err, ErrorTypeSystem)
}

// TypeOf는 메트릭 라벨용 에러 타입 문자열을 반환합니다
func TypeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return string(domainErr.Type)
	}
	return "UNKNOWN"
}
