// Package main 是应用程序的入口点。
package main

import (
	"os"

	"ordinance-go/internal/cli"
	"ordinance-go/pkg/log"
)

func main() {
	err := cli.Execute()
	log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	if err != nil {
		os.Exit(1)
	}
}
