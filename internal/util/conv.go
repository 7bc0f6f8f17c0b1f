package util

import (
	"strconv"
)

// ParseLimit 解析分页大小，非法或越界时回落到默认值/上限
func ParseLimit(s string, def, upper int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}
