package ordinance

import (
	"context"
	"errors"
	"fmt"
)

// 传输层失败时展示给用户的消息。具体原因只写日志。
const (
	MsgNetworkFailure = "서버에 연결할 수 없습니다."
	MsgBadResponse    = "서버 응답을 처리할 수 없습니다."
	MsgCanceled       = "요청이 취소되었습니다."
)

// TransportError 表示网络失败或响应无法读取/解析。
// Network 为 true 时请求没有得到任何响应。
type TransportError struct {
	Endpoint string
	Network  bool
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("请求 %s 失败: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError 表示后端返回了非 2xx 状态。
// Message 取自错误负载的 error 字段，负载无法解析时为空。
type ServiceError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s 返回错误状态 [%d]", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s 返回错误状态 [%d]: %s", e.Endpoint, e.StatusCode, e.Message)
}

// UserMessage 返回适合直接展示给用户的错误消息。
// 服务端给出消息时使用该消息，传输失败使用固定文案，其余情况使用 fallback。
func UserMessage(err error, fallback string) string {
	if errors.Is(err, context.Canceled) {
		return MsgCanceled
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			return svcErr.Message
		}
		return fallback
	}

	var tErr *TransportError
	if errors.As(err, &tErr) {
		if tErr.Network {
			return MsgNetworkFailure
		}
		return MsgBadResponse
	}
	return fallback
}
