package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
)

// DefaultWidth 数字后缀默认宽度
const DefaultWidth = 6

// 业务主键前缀
const (
	PrefixUser            = "US"
	PrefixDoctor          = "DR"
	PrefixService         = "SV"
	PrefixTimeslot        = "TS"
	PrefixAppointment     = "AP"
	PrefixAppointmentTest = "DT"
	PrefixOrder           = "OD"
	PrefixOrderDetail     = "ODT"
)

// Next 根据当前最大ID推导下一个顺序业务ID
// current 为空表示首条记录；后缀解析失败时回退到 1 并记录告警，等待人工核对，
// 分配本身不会因脏数据而失败
//
// 注意：current 必须在同一个数据库事务内读取，由调用方在事务内完成
// 读取最大ID和插入两个动作，避免读取-自增之间的竞态
func Next(prefix, current string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	seq := 1
	if current != "" {
		suffix := strings.TrimPrefix(current, prefix)
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			if logger.Log != nil {
				logger.Log.Warn("Malformed sequential ID, falling back to 1",
					zap.String("prefix", prefix),
					zap.String("current", current),
				)
			}
		} else {
			seq = n + 1
		}
	}

	return Format(prefix, seq, width)
}

// Format 格式化业务ID，数字后缀补零到指定宽度
func Format(prefix string, seq, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}
