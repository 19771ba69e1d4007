package controller

import (
	"errors"
	"fmt"
)

// ValidationError 表示缺少必需输入。它只在本地提示，不会发起请求。
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ErrUnknownProvider 表示请求了不存在的帮助文本。
var ErrUnknownProvider = errors.New("未知的 API 服务")

// ErrUnknownEvent 表示事件表中没有对应的处理函数。
var ErrUnknownEvent = errors.New("未知的事件")

// IsValidation 判断 err 是否为输入校验失败。
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
