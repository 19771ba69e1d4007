// Package cli 包含命令行入口的所有子命令。
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ordinance-go/internal/config"
	"ordinance-go/internal/controller"
	"ordinance-go/internal/download"
	"ordinance-go/internal/output"
	"ordinance-go/pkg/log"
	"ordinance-go/pkg/ordinance"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	printer *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "ordinance",
	Short: "조례 검색 및 비교 분석 클라이언트",
	Long: `ordinance 는 조례 검색 서비스의 클라이언트입니다.

Example usage:
  ordinance search 주차장            # 조례 검색
  ordinance save 주차장              # 검색 결과를 Word 문서로 저장
  ordinance upload draft.pdf         # PDF 업로드
  ordinance compare 주차장 --pdf draft.pdf --gemini-key ...
  ordinance help-api gemini          # API 키 발급 안내
  ordinance serve                    # 로컬 웹 화면 실행`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute 执行根命令。Ctrl-C 或 SIGTERM 会取消 cmd.Context()，进行中的请求随之结束。
// 校验类错误已经以提示的形式展示过，不再重复输出。
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !controller.IsValidation(err) {
		if printer != nil {
			printer.Error("%v", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认 ./configs/config.yaml 或 ~/.ordinance/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出 debug 日志")
}

// initConfig 加载配置、初始化日志和终端输出。
func initConfig(cmd *cobra.Command) error {
	if err := config.Init(cfgFile); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = &config.Conf

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log.Init(level, cfg.Log.Format, cfg.Log.OutputPath)
	log.Debugf("配置加载完成, api: %s, download.sink: %s", cfg.API.BaseURL, cfg.Download.Sink)

	printer = output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(cfg.Output.Colors))
	return nil
}

// newController 按配置组装后端客户端、下载位置和控制器。
// 下载位置在第一次保存时才创建，状态栏的变化会实时打印到 stderr。
func newController() *controller.Controller {
	sink := download.NewLazySink(cfg.Download)
	ctrl := controller.New(ordinance.NewClient(cfg.API), sink, controller.WithPrompter(printer))
	ctrl.Observe(statusPrinter(printer))
	return ctrl
}

// statusPrinter 只在状态栏文本或进度变化时输出一行。
func statusPrinter(p *output.Printer) controller.Observer {
	var lastStatus string
	var lastProgress = -1
	return func(s controller.State) {
		if s.Status == "" || (s.Status == lastStatus && s.Progress == lastProgress) {
			return
		}
		lastStatus, lastProgress = s.Status, s.Progress
		p.Status(s.Status, s.Progress)
	}
}
