package writer

import (
	"io"
	"os"
)

// ConsoleWriterOptions 控制台输出配置
type ConsoleWriterOptions struct {
	// 是否彩色输出，只对 tint 格式生效
	Color bool `cfg:"color" def:"true"`
	// 输出目标：stdout, stderr
	Target string `cfg:"target" def:"stdout" validate:"omitempty,oneof=stdout stderr"`
}

// ConsoleWriter 控制台输出器
type ConsoleWriter struct {
	writer io.Writer
	color  bool
}

func NewConsoleWriterWithOptions(options *ConsoleWriterOptions) (*ConsoleWriter, error) {
	if options == nil {
		options = &ConsoleWriterOptions{Color: true, Target: "stdout"}
	}

	var w io.Writer = os.Stdout
	if options.Target == "stderr" {
		w = os.Stderr
	}

	return &ConsoleWriter{writer: w, color: options.Color}, nil
}

func (c *ConsoleWriter) Write(p []byte) (int, error) {
	return c.writer.Write(p)
}

// Color 是否启用彩色输出
func (c *ConsoleWriter) Color() bool {
	return c.color
}

// Close 控制台不需要关闭
func (c *ConsoleWriter) Close() error {
	return nil
}
