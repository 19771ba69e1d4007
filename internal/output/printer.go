// Package output 负责 CLI 的终端输出：状态行、提示和检索结果。
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer 处理终端格式化输出。
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors 根据配置与环境决定是否使用颜色。
func ResolveColors(configColors bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// NewPrinter 创建输出到 stdout/stderr 的 Printer。
func NewPrinter(useColors bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors)
}

// NewPrinterWithWriters 创建输出到指定 writer 的 Printer。
func NewPrinterWithWriters(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// Out 返回标准输出 writer。
func (p *Printer) Out() io.Writer {
	return p.out
}

// Status 打印状态行和进度条，例如 "[#####-----]  50% 저장 중..."。
func (p *Printer) Status(msg string, progress int) {
	line := fmt.Sprintf("%s %3d%% %s", progressBar(progress, 10), progress, msg)
	if !p.useColors {
		fmt.Fprintln(p.err, line)
		return
	}
	switch {
	case strings.HasPrefix(msg, "오류"):
		color.New(color.FgRed).Fprintln(p.err, line)
	case progress >= 100:
		color.New(color.FgGreen).Fprintln(p.err, line)
	default:
		color.New(color.FgCyan).Fprintln(p.err, line)
	}
}

// Alert 打印阻塞式提示，实现 controller.Prompter。
func (p *Printer) Alert(msg string) {
	if p.useColors {
		color.New(color.FgYellow, color.Bold).Fprintf(p.err, "⚠ %s\n", msg)
		return
	}
	fmt.Fprintf(p.err, "[ALERT] %s\n", msg)
}

// Success 打印成功消息
func (p *Printer) Success(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Error 打印错误消息
func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Print 打印普通文本
func (p *Printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Heading 打印强调的标题（条例名）。
func (p *Printer) Heading(title string) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintln(p.out, title)
		return
	}
	fmt.Fprintln(p.out, title)
}

// Dim 返回弱化文本
func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

func progressBar(progress, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
