package source

import (
	"io"
	"os"
)

// 通过可替换的 stdin 引用，让测试能注入假输入。
var stdin io.Reader = os.Stdin

// Open 返回待扫描的字节流。
//
// 约束：
// - locator 为空：使用进程 stdin（Close 为空操作，stdin 的生命周期不归这里管）
// - locator 非空：按文件名打开，打开失败原样返回底层错误（不重试，一次性批处理工具）
// - 返回的流由调用方负责在所有退出路径上关闭
func Open(locator string) (io.ReadCloser, error) {
	if locator == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(locator)
	if err != nil {
		return nil, err
	}
	return f, nil
}
