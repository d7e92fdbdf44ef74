package search

import (
	"errors"
	"fmt"
)

const (
	// ErrCodeIOFailed 表示输入源无法打开或读取。
	ErrCodeIOFailed = "io_failed"
	// ErrCodeDecodeFailed 表示某一行无法解码成 PopulationRecord（结构损坏、
	// 缺少必需列、或人口列出现非数字文本）。
	ErrCodeDecodeFailed = "decode_failed"
	// ErrCodeNotFound 表示扫描正常完成但结果为空。
	// 它是合法扫描的一种结局，不是故障；也是唯一允许 quiet 模式静默其消息的错误。
	ErrCodeNotFound = "not_found"
)

// notFoundMessage 是 not_found 的对外稳定消息（勿改）。
const notFoundMessage = "No matching cities with a population were found."

// Error 是扫描阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return notFoundMessage
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound 判断 err 是否为 not_found 结局。
func IsNotFound(err error) bool {
	return Code(err) == ErrCodeNotFound
}
