package search

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/John-Robertt/citypop/internal/domain"
	"github.com/John-Robertt/citypop/internal/source"
)

// requiredColumns 是表头中必须出现的列（大小写敏感；列顺序无关）。
// Population 列允许缺失：此时所有行的人口视为未知。
var requiredColumns = []string{"City", "Country", "Region"}

// Run 打开输入源并执行一次完整扫描。
// 流在所有退出路径上保证关闭，包括解码错误导致的提前中止。
func Run(req domain.MatchRequest) (domain.ResultSet, error) {
	rc, err := source.Open(req.DataPath)
	if err != nil {
		return nil, &Error{Code: ErrCodeIOFailed, Err: err}
	}
	defer rc.Close()

	return Scan(rc, req)
}

// Scan 对 r 做单次前向扫描：逐行解码、应用匹配谓词、按输入顺序累积结果。
//
// 约束：
// - 第一处解码失败即中止整个扫描，不返回任何部分结果
// - includeUnknown=false 时，人口未知的行即使城市匹配也一律跳过
// - 结果为空时返回 not_found（它是合法扫描的结局，不是故障）
// - 同一输入与同一请求，输出完全可复现
func Scan(r io.Reader, req domain.MatchRequest) (domain.ResultSet, error) {
	cr := csv.NewReader(r)
	if req.Comma != 0 {
		cr.Comma = req.Comma
	}

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// 连表头都没有：零行扫描，按空结果处理。
			return nil, &Error{Code: ErrCodeNotFound}
		}
		return nil, &Error{Code: ErrCodeDecodeFailed, Err: err}
	}
	if err := checkHeader(dec.Header()); err != nil {
		return nil, &Error{Code: ErrCodeDecodeFailed, Err: err}
	}

	var found domain.ResultSet
	for {
		// 每行用全新的记录：避免上一行的 Population 指针被沿用。
		var rec domain.PopulationRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &Error{Code: ErrCodeDecodeFailed, Err: err}
		}

		if rec.City != req.City {
			continue
		}
		if !req.IncludeUnknown && rec.Population == nil {
			continue
		}
		found = append(found, rec)
	}

	if len(found) == 0 {
		return nil, &Error{Code: ErrCodeNotFound}
	}
	return found, nil
}

// checkHeader 校验必需列是否齐全（精确匹配，大小写敏感）。
func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		seen[h] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := seen[col]; !ok {
			return fmt.Errorf("表头缺少必需列 %q", col)
		}
	}
	return nil
}
