package domain

import (
	"fmt"
	"strconv"
)

// UnknownPopulation 是人口缺失时对外输出的占位文本（稳定契约，勿改）。
const UnknownPopulation = "Unknown Population"

// PopulationRecord 是一行输入解码后的定型记录。
//
// 不变量（实现必须遵守）：
// - City/Country/Region 三列必须存在（表头校验，大小写敏感）
// - Population 为 nil 表示“人口未知”；空单元格合法，非数字文本是解码错误
// - 解码失败的行不可表示：整个扫描在第一处失败即中止，没有半成品记录
type PopulationRecord struct {
	City       string  `csv:"City"`
	Country    string  `csv:"Country"`
	Region     string  `csv:"Region"`
	Population *uint64 `csv:"Population"`
}

// PopulationText 返回人口的展示文本：数字或 UnknownPopulation。
func (r PopulationRecord) PopulationText() string {
	if r.Population == nil {
		return UnknownPopulation
	}
	return strconv.FormatUint(*r.Population, 10)
}

// Line 按对外稳定格式渲染一条结果行（不含换行）。
// 字段顺序固定：city, region, country: population。
func (r PopulationRecord) Line() string {
	return fmt.Sprintf("%s, %s, %s: %s", r.City, r.Region, r.Country, r.PopulationText())
}

// MatchRequest 是一次查询的全部参数。
type MatchRequest struct {
	// DataPath 为空表示读 stdin，否则按文件名打开。
	DataPath string
	// City 是精确匹配的目标（大小写敏感，不做任何归一化）。
	City string
	// IncludeUnknown 为 true 时，人口未知的行只要城市匹配也计入结果。
	IncludeUnknown bool
	// Comma 是字段分隔符；0 表示默认逗号。
	Comma rune
}

// ResultSet 是匹配行的有序集合，顺序与输入中的相对顺序一致。
// 由过滤器构造后整体交还调用方，之后不再变更。
type ResultSet []PopulationRecord
