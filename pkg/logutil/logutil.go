package logutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level 是日志级别，实现了 pflag.Value，可以直接绑定到 cobra 的 flag 上
type Level int

// 定义日志级别
const (
	DEBUG Level = iota // 0
	INFO               // 1
	WARN               // 2
	ERROR              // 3
)

// 定义日志级别映射字符串
var LOG_LEVELS = map[string]Level{
	"DEBUG": DEBUG,
	"INFO":  INFO,
	"WARN":  WARN,
	"ERROR": ERROR,
}

// ParseLogLevel 把字符串(不区分大小写)转换成日志级别
func ParseLogLevel(s string) (Level, error) {
	if l, ok := LOG_LEVELS[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return INFO, fmt.Errorf("无效的日志级别: %q (可选: DEBUG/INFO/WARN/ERROR)", s)
}

func (l *Level) String() string {
	for name, v := range LOG_LEVELS {
		if v == *l {
			return name
		}
	}
	return fmt.Sprintf("Level(%d)", int(*l))
}

func (l *Level) Set(val string) error {
	parsed, err := ParseLogLevel(val)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *Level) Type() string {
	return "loglevel"
}

var _ pflag.Value = (*Level)(nil)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var (
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	logFile *os.File
	// 级别可以在运行中修改，不需要重建 logger
	atom = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func newLogger(ws zapcore.WriteSyncer, level Level) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	atom.SetLevel(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, atom)
	// 跳过 logMessage 和 Info/Warn 这两层，打印真正调用的文件+行号
	// ERROR 级别自动附带调用堆栈
	return zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).Sugar()
}

// InitLogger 初始化日志，允许指定输出目标（stdout 或 文件）
// 再次调用会替换之前的 logger，并关闭之前打开的文件
func InitLogger(output string, level Level) error {
	mu.Lock()
	defer mu.Unlock()

	var ws zapcore.WriteSyncer
	var f *os.File
	if output == "" || output == "stdout" {
		ws = zapcore.Lock(os.Stdout)
	} else {
		var err error
		// 以追加模式打开日志文件，不会覆盖已有内容
		f, err = os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("无法创建日志文件 %s: %w", output, err)
		}
		ws = zapcore.Lock(f)
	}

	closeFileLocked()
	logFile = f
	logger = newLogger(ws, level)
	return nil
}

// InitLoggerWriter 把日志写到任意 io.Writer，测试里用来捕获输出
func InitLoggerWriter(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = newLogger(zapcore.AddSync(w), level)
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		// 默认输出到控制台
		logger = newLogger(zapcore.Lock(os.Stdout), INFO)
	}
	return logger
}

// SetLogLevel 设置日志级别
func SetLogLevel(level Level) {
	atom.SetLevel(level.zapLevel())
}

// formatArgs 结构体和集合类型转换成更易读的形式
// 使用了反射效率低点，但是只在级别满足时才会调用
func formatArgs(args []any) []any {
	formatted := make([]any, 0, len(args))
	for _, arg := range args {
		v := reflect.ValueOf(arg)
		if v.Kind() == reflect.Ptr && !v.IsNil() {
			v = v.Elem()
		}

		switch v.Kind() {
		case reflect.Struct:
			if _, ok := arg.(error); ok {
				formatted = append(formatted, arg)
				continue
			}
			formatted = append(formatted, PrintStruct(arg, false))
		case reflect.Slice, reflect.Map:
			// 集合类型转换为 JSON
			jsonData, err := json.Marshal(arg)
			if err != nil {
				formatted = append(formatted, fmt.Sprintf("无法格式化: %v", err))
			} else {
				formatted = append(formatted, string(jsonData))
			}
		default:
			formatted = append(formatted, arg)
		}
	}
	return formatted
}

func logMessage(level zapcore.Level, msg string, args ...any) {
	l := current()
	if !atom.Enabled(level) {
		return
	}
	text := fmt.Sprintf(msg, formatArgs(args)...)
	switch level {
	case zapcore.DebugLevel:
		l.Debug(text)
	case zapcore.WarnLevel:
		l.Warn(text)
	case zapcore.ErrorLevel:
		l.Error(text)
	default:
		l.Info(text)
	}
}

// Debug 记录 DEBUG 日志
func Debug(msg string, args ...any) {
	logMessage(zapcore.DebugLevel, msg, args...)
}

// Info 记录 INFO 日志
func Info(msg string, args ...any) {
	logMessage(zapcore.InfoLevel, msg, args...)
}

// Warn 记录 WARN 日志
func Warn(msg string, args ...any) {
	logMessage(zapcore.WarnLevel, msg, args...)
}

// Error 记录 ERROR 日志，附带调用堆栈
func Error(msg string, args ...any) {
	logMessage(zapcore.ErrorLevel, msg, args...)
}

func closeFileLocked() {
	if logger != nil {
		_ = logger.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// CloseLogger 刷新缓冲并关闭日志文件（如果有的话）
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		// stdout 上的 Sync 在某些终端会返回 EINVAL，忽略
		_ = logger.Sync()
	}
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// 递归格式化结构体信息，只处理导出字段
func formatStruct(s any, indent string) string {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Sprintf("%s非结构体类型: %#v\n", indent, v.Kind())
	}
	t := v.Type()

	var builder strings.Builder
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		value := v.Field(i)
		if value.Kind() != reflect.Struct {
			builder.WriteString(fmt.Sprintf("%s%s: %#v\n", indent, field.Name, value.Interface()))
		} else {
			// 嵌套结构体先打印标头，再递归处理
			builder.WriteString(fmt.Sprintf("%s%s:\n", indent, field.Name))
			builder.WriteString(formatStruct(value.Interface(), indent+"    "))
		}
	}
	return builder.String()
}

// PrintStruct 打印结构体信息（支持控制是否输出到标准输出）
func PrintStruct(s any, printToStdout bool) string {
	result := formatStruct(s, "")
	if printToStdout {
		fmt.Print(result)
	}
	return result
}
