package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// FileName 是配置文件的固定名字，发现位置固定为 <cwd>/citypop.json。
const FileName = "citypop.json"

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如显式的 --quiet 必须能覆盖 config.quiet=false 的默认。
type CLIArgs struct {
	DataPath string

	ShowUnknown    bool
	ShowUnknownSet bool

	Quiet    bool
	QuietSet bool
}

// FileConfig 对应 citypop.json 的解析结构。所有字段都可选。
type FileConfig struct {
	DataPath    string `json:"data_path"`
	ShowUnknown *bool  `json:"show_unknown"`
	Quiet       *bool  `json:"quiet"`
	Delimiter   string `json:"delimiter"`
}

// EffectiveConfig 是合并后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// DataPath 为空表示读 stdin。
	DataPath string

	ShowUnknown bool
	Quiet       bool

	// Comma 是字段分隔符；默认逗号。
	Comma rune
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/citypop.json（可选），再与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：
// - data_path：CLI path > config data_path > 空（stdin）
// - show_unknown / quiet：CLI 显式指定 > config > 默认 false
// - delimiter：仅由 config 控制（CLI 不暴露），默认逗号
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cfgPath := filepath.Join(cwd, FileName)

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	_ = exists // 不存在也不报错：这个工具无配置也完整可用

	dataPath := fc.DataPath
	if cli.DataPath != "" {
		dataPath = cli.DataPath
	}

	showUnknown := false
	if cli.ShowUnknownSet {
		showUnknown = cli.ShowUnknown
	} else if fc.ShowUnknown != nil {
		showUnknown = *fc.ShowUnknown
	}

	quiet := false
	if cli.QuietSet {
		quiet = cli.Quiet
	} else if fc.Quiet != nil {
		quiet = *fc.Quiet
	}

	comma, err := parseDelimiter(fc.Delimiter)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		DataPath:    dataPath,
		ShowUnknown: showUnknown,
		Quiet:       quiet,
		Comma:       comma,
	}, nil
}

// parseDelimiter 校验并解析分隔符：必须恰好一个 rune，且不能与引号/换行冲突。
func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("delimiter 必须是单个字符，实际是 %q", s)
	}
	switch rs[0] {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("delimiter 不能是 %q", s)
	}
	return rs[0], nil
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
