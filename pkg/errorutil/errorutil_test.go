package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

var errBase = errors.New("坐标越界")

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, CodeSuccess},
		{"plain", errBase, CodeInternalErr},
		{"direct", NewExitError(CodeInvalidData, errBase), CodeInvalidData},
		{"wrapped", fmt.Errorf("replay: %w", NewExitError(CodeConfigError, errBase)), CodeConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestUnwrapChain(t *testing.T) {
	err := fmt.Errorf("外层: %w", NewExitErrorWithMessage(CodeInvalidUsage, "参数错误", errBase))

	assert.ErrorIs(t, err, errBase)
	assert.Equal(t, errBase, RootError(err))
	assert.Equal(t, "外层: 参数错误: 坐标越界", err.Error())
}

func TestFormatErrorAndCode(t *testing.T) {
	out, code := FormatErrorAndCode(NewExitErrorWithMessage(CodeInvalidData, "场景文件非法", errBase))
	assert.Equal(t, CodeInvalidData, code)
	assert.Equal(t, int64(CodeInvalidData), gjson.Get(out, "code").Int())
	assert.Equal(t, "场景文件非法", gjson.Get(out, "message").String())
	assert.Equal(t, "坐标越界", gjson.Get(out, "error").String())

	out, code = FormatErrorAndCode(errBase)
	assert.Equal(t, CodeInternalErr, code)
	assert.Equal(t, "未知错误", gjson.Get(out, "message").String())

	out = (&ExitErrorWithCode{Code: CodeIOError}).JSON()
	assert.Equal(t, `{"code":72}`, out)
}
