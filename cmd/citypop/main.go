package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/John-Robertt/citypop/internal/config"
	"github.com/John-Robertt/citypop/internal/domain"
	"github.com/John-Robertt/citypop/internal/search"
)

func main() {
	if code := run(os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

func run(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage()
			return 0
		}
	}

	ca, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, ca.CLIArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	found, err := search.Run(domain.MatchRequest{
		DataPath:       eff.DataPath,
		City:           ca.City,
		IncludeUnknown: eff.ShowUnknown,
		Comma:          eff.Comma,
	})
	if err != nil {
		// quiet 只静默 not_found 的消息；退出码 1 不受影响。
		if search.IsNotFound(err) && eff.Quiet {
			return 1
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	// stdout 只输出结果行，顺序与输入中的相对顺序一致；诊断一律走 stderr。
	for _, rec := range found {
		fmt.Fprintln(os.Stdout, rec.Line())
	}
	return 0
}

type cliArgs struct {
	config.CLIArgs
	City string
}

// parseArgs 解析位置参数与开关。
// 位置参数 1 个：city（读 stdin）；2 个：data-path 与 city。
func parseArgs(args []string) (cliArgs, error) {
	ca := cliArgs{}
	pos := make([]string, 0, 2)

	for _, a := range args {
		switch {
		case a == "-q" || a == "--quiet":
			ca.Quiet = true
			ca.QuietSet = true
		case a == "-u" || a == "--show-unknown":
			ca.ShowUnknown = true
			ca.ShowUnknownSet = true
		case strings.HasPrefix(a, "-"):
			return cliArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if len(pos) == 2 {
				return cliArgs{}, fmt.Errorf("多余的位置参数 %q", a)
			}
			pos = append(pos, a)
		}
	}

	switch len(pos) {
	case 1:
		ca.City = pos[0]
	case 2:
		ca.DataPath = pos[0]
		ca.City = pos[1]
	default:
		return cliArgs{}, fmt.Errorf("缺少目标城市名")
	}
	if ca.City == "" {
		return cliArgs{}, fmt.Errorf("城市名不能为空")
	}

	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  citypop [data-path] <city> [options]

参数：
  data-path           可选的数据文件路径（未指定则读 stdin）
  city                目标城市名（精确匹配，大小写敏感）

选项：
  -q, --quiet         匹配为空时不输出提示消息（退出码仍为 1）
  -u, --show-unknown  人口未知的行也计入结果
  -h, --help          显示帮助

配置：
  可选的 citypop.json（当前目录）：data_path / show_unknown / quiet / delimiter。
  CLI 参数覆盖配置文件。
`)
}
