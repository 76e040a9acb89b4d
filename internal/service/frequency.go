package service

import (
	"time"

	"toolbox-track/internal/model"
)

// NextDue 频率时钟：由频率与锚点时刻计算下一次到期时刻
// 纯函数，无 I/O；排期与逾期阈值计算共用
//
// once 没有后续到期（ok=false）；monthly/annually 在目标月不存在对应
// 日期时收缩到当月最后一天（1/31 → 2/28、闰年 2/29 → 平年 2/28）
func NextDue(frequency string, anchor time.Time) (time.Time, bool) {
	switch frequency {
	case model.FrequencyOnce:
		return time.Time{}, false
	case model.FrequencyWeekly:
		return anchor.AddDate(0, 0, 7), true
	case model.FrequencyMonthly:
		return addMonthsClamped(anchor, 1), true
	case model.FrequencyAnnually:
		return addYearsClamped(anchor, 1), true
	}
	return time.Time{}, false
}

// addMonthsClamped 加 n 个月，日期超出目标月时收缩到目标月最后一天
// 不能直接用 AddDate：1月31日 AddDate(0,1,0) 会溢出为 3月2/3日
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	targetMonth := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())

	if last := lastDayOfMonth(targetMonth); day > last {
		day = last
	}

	return time.Date(targetMonth.Year(), targetMonth.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addYearsClamped 加 n 年，闰年 2月29日 在平年收缩为 2月28日
func addYearsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year+n, month, 1, 0, 0, 0, 0, t.Location())

	if last := lastDayOfMonth(target); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// lastDayOfMonth 返回 t 所在月的最后一天的日号
func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
