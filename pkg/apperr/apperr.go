// Package apperr 定义了核心业务的错误类别，便于各层判定与测试。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 标识一类可预期的失败。
type Kind string

const (
	// TransportClosed 连接已关闭或不可写。
	TransportClosed Kind = "TRANSPORT_CLOSED"
	// PersistenceUnavailable 持久化层读写失败。
	PersistenceUnavailable Kind = "PERSISTENCE_UNAVAILABLE"
	// ValidationFailed 输入校验失败。
	ValidationFailed Kind = "VALIDATION_FAILED"
	// NotFound 目标记录不存在。
	NotFound Kind = "NOT_FOUND"
)

// Error 携带错误类别和上下文信息，支持 errors.Is / errors.Unwrap。
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is 按 Kind 匹配，使 errors.Is(err, apperr.New(kind, "")) 形式可用。
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New 创建一个不带底层原因的分类错误。
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 创建一个包装底层原因的分类错误。
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf 返回错误所属类别；非分类错误返回空串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind 判断 err 是否属于给定类别。
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
