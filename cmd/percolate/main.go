package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"dynconn/pkg/errorutil"
	"dynconn/pkg/logutil"

	"github.com/spf13/cobra"
)

const TOOL_VERSION = "1.0.0+20261014"

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "percolate",
		Short: fmt.Sprintf("percolate v%s 基于并查集的网格渗透模拟工具，支持 stats/replay/forest 等子命令", TOOL_VERSION),
		Long: "  # . # ~ ~     percolate\n" +
			"  . . # ~ #     并查集(quick-find / quick-union / weighted)与 n×n 网格渗透模拟\n" +
			"  # . . ~ .\n" +
			fmt.Sprintf("\npercolate v%s\n", TOOL_VERSION),
	}

	var logFile string
	logLevel := logutil.WARN

	// 定义全局flag(屁股后面带P的函数才支持短选项)
	rootCmd.PersistentFlags().VarP(&logLevel, "log-level", "e", "日志等级(DEBUG/INFO/WARN/ERROR)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "l", "percolate.log", "日志文件名(stdout 表示标准输出)")
	// 阻止 Cobra 在命令参数错误时输出帮助
	rootCmd.SilenceUsage = true
	// 阻止Cobra自动打印RunEs返回的错误内容
	rootCmd.SilenceErrors = true

	// PersistentPreRunE 回调，这个钩子会在用户的命令解析完成、flag 值填充后执行
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logutil.InitLogger(logFile, logLevel); err != nil {
			return errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "初始化日志失败", err)
		}
		logutil.Debug("command %s args %v", cmd.CommandPath(), args)
		return nil
	}

	rootCmd.AddCommand(statsCmd(), replayCmd(), forestCmd(), versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), TOOL_VERSION)
		},
	}
}

func main() {
	// Ctrl+C 取消正在运行的试验
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logutil.Error("命令执行失败: %v, 原始错误: %v", err, errorutil.RootError(err))
		msg, code := errorutil.FormatErrorAndCode(err)
		fmt.Fprintln(os.Stderr, msg)
		logutil.CloseLogger()
		os.Exit(code)
	}

	// 不要用defer，因为defer是在函数返回前执行的，而不是os.Exit()执行前执行
	logutil.CloseLogger()
	os.Exit(0)
}
