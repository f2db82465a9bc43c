package errorutil

import (
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
)

const (
	CodeSuccess = 0 // 成功执行

	// 60–69: 用户输入或调用错误
	CodeInvalidUsage = 64 // 命令行用法错误（参数不合法等）
	CodeMissingInput = 65 // 缺失必须输入（如文件、路径等）
	CodeInvalidData  = 66 // 用户输入格式错误（场景文件、坐标非法）

	// 70–79: 程序自身错误
	CodeIOError     = 72 // 文件读写失败
	CodeCanceled    = 73 // 被信号中断
	CodeInternalErr = 74 // 内部 bug、panic、未捕捉异常

	// 80–89: 配置相关
	CodeConfigError = 80 // 配置文件有误
)

// ExitErrorWithCode 带退出码的错误，omitempty 的作用是空字段不出现
type ExitErrorWithCode struct {
	Code    int    `json:"code"`              // 退出码
	Message string `json:"message,omitempty"` // 可读消息
	Err     error  `json:"-"`
}

func (e *ExitErrorWithCode) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Message != "":
		return e.Message
	}
	return fmt.Sprintf("Exit with code: %d", e.Code)
}

func (e *ExitErrorWithCode) Unwrap() error {
	return e.Err
}

func NewExitError(code int, err error) error {
	return &ExitErrorWithCode{Code: code, Err: err}
}

// NewExitErrorWithMessage 带错误消息的错误
func NewExitErrorWithMessage(code int, message string, err error) error {
	return &ExitErrorWithCode{Code: code, Message: message, Err: err}
}

// ExitCodeFromError os.Exit(errorutil.ExitCodeFromError(err))
func ExitCodeFromError(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var exitErr *ExitErrorWithCode
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return CodeInternalErr
}

// 提取原始错误
func RootError(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// JSON 输出 {"code":..,"message":..,"error":..}，空字段不出现
func (e *ExitErrorWithCode) JSON() string {
	out, _ := sjson.Set("", "code", e.Code)
	if e.Message != "" {
		out, _ = sjson.Set(out, "message", e.Message)
	}
	if e.Err != nil {
		out, _ = sjson.Set(out, "error", e.Err.Error())
	}
	return out
}

// FormatErrorAndCode 返回错误的 JSON 描述和对应的退出码
func FormatErrorAndCode(err error) (string, int) {
	var exitErr *ExitErrorWithCode
	if errors.As(err, &exitErr) {
		return exitErr.JSON(), exitErr.Code
	}
	// 构建一个临时 ExitErrorWithCode 对象，并直接调用其 JSON() 方法
	return (&ExitErrorWithCode{
		Code:    CodeInternalErr,
		Message: "未知错误",
		Err:     err,
	}).JSON(), CodeInternalErr
}
