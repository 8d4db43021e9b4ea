package util

import (
	"strconv"
	"strings"
)

// PtrInt8 用于将 int8 转换为 *int8
func PtrInt8(i int8) *int8 {
	return &i
}

// UInt64SliceToStr 将 ID 列表拼接为日志友好的字符串
func UInt64SliceToStr(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}
