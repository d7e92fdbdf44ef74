package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const parisCSV = `City,Country,Region,Population
Paris,France,Île-de-France,2140526
Paris,France,Texas,
`

// buildBinary 构建一次可执行文件。不用 go run：它会往 stderr 追加
// "exit status 1"，破坏“quiet 模式必须完全静默”的断言。
func buildBinary(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("读取 cwd 失败：%v", err)
	}
	repoRoot := filepath.Clean(filepath.Join(wd, "..", ".."))

	bin := filepath.Join(t.TempDir(), "citypop")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/citypop")
	cmd.Dir = repoRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("构建失败：%v\n%s", err, out)
	}
	return bin
}

// runBinary 在干净的临时目录中执行（避免意外拾取 cwd 下的 citypop.json）。
func runBinary(t *testing.T, bin, dir, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("命令执行失败：%v\nstderr=%s", err, errBuf.String())
		}
	}
	return cmd.ProcessState.ExitCode(), out.String(), errBuf.String()
}

func writeData(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cities.csv")
	if err := os.WriteFile(path, []byte(parisCSV), 0o644); err != nil {
		t.Fatalf("写入数据失败：%v", err)
	}
	return path
}

func TestCLI_MatchFromFile(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	data := writeData(t, dir)

	code, stdout, stderr := runBinary(t, bin, dir, "", data, "Paris")
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d（stderr=%s）", code, stderr)
	}
	if stdout != "Paris, Île-de-France, France: 2140526\n" {
		t.Fatalf("stdout 不符：%q", stdout)
	}
}

func TestCLI_ShowUnknownFromStdin(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	code, stdout, _ := runBinary(t, bin, dir, parisCSV, "-u", "Paris")
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d", code)
	}
	want := "Paris, Île-de-France, France: 2140526\nParis, Texas, France: Unknown Population\n"
	if stdout != want {
		t.Fatalf("stdout 不符：%q", stdout)
	}
}

func TestCLI_NotFound(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	data := writeData(t, dir)

	code, stdout, stderr := runBinary(t, bin, dir, "", data, "Atlantis")
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if stdout != "" {
		t.Fatalf("期望 stdout 为空，实际 %q", stdout)
	}
	if !strings.Contains(stderr, "No matching cities with a population were found.") {
		t.Fatalf("stderr 缺少 not_found 消息：%q", stderr)
	}
}

func TestCLI_NotFoundQuietIsSilent(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	data := writeData(t, dir)

	// quiet 只静默消息：退出码必须仍是 1。
	code, stdout, stderr := runBinary(t, bin, dir, "", "-q", data, "Atlantis")
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if stdout != "" || stderr != "" {
		t.Fatalf("期望完全静默，实际 stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestCLI_DecodeErrorIgnoresQuiet(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	bad := "City,Country,Region,Population\nParis,France,Texas,abc\n"

	code, stdout, stderr := runBinary(t, bin, dir, bad, "-q", "Paris")
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if stdout != "" {
		t.Fatalf("期望无输出行，实际 %q", stdout)
	}
	if stderr == "" {
		t.Fatalf("解码错误必须报告，quiet 不得静默")
	}
}

func TestCLI_ConfigFileDefaults(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	data := writeData(t, dir)

	cfg := `{"data_path":` + jsonQuote(data) + `,"show_unknown":true}`
	if err := os.WriteFile(filepath.Join(dir, "citypop.json"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}

	code, stdout, stderr := runBinary(t, bin, dir, "", "Paris")
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d（stderr=%s）", code, stderr)
	}
	if !strings.Contains(stdout, "Unknown Population") {
		t.Fatalf("期望配置的 show_unknown 生效，实际 stdout=%q", stdout)
	}
}

func TestCLI_UsageErrorExits2(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	code, _, stderr := runBinary(t, bin, dir, "", "--bogus", "Paris")
	if code != 2 {
		t.Fatalf("期望退出码 2，实际 %d", code)
	}
	if stderr == "" {
		t.Fatalf("参数错误必须有提示")
	}
}

// jsonQuote 做最小的 JSON 字符串转义（路径里可能有反斜杠）。
func jsonQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
