package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ordinance-go/internal/handler"
	"ordinance-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "로컬 웹 화면 실행",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "listen port (default: server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = cfg.Server.Port
	}

	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(ctrl, handler.NewStatusHub())

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	printer.Success("http://localhost%s 에서 실행 중입니다", srv.Addr)

	// 等待中断信号（由 Execute 转换为 ctx 取消）以实现优雅停机
	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP 服务监听失败: %w", err)
	case <-cmd.Context().Done():
	}
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP 服务器关闭失败: %w", err)
	}
	log.Info("服务已优雅关闭")
	return nil
}
