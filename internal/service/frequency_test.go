package service

import (
	"testing"
	"time"

	"toolbox-track/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		t.Fatalf("解析时间失败: %v", err)
	}
	return ts
}

// ── 频率时钟 ──

func TestNextDue_Once(t *testing.T) {
	_, ok := NextDue(model.FrequencyOnce, mustTime(t, "2024-01-01T08:00:00Z"))
	if ok {
		t.Error("once 频率不应产生后续到期")
	}
}

func TestNextDue_Weekly(t *testing.T) {
	next, ok := NextDue(model.FrequencyWeekly, mustTime(t, "2024-01-08T08:00:00Z"))
	if !ok {
		t.Fatal("weekly 频率应产生后续到期")
	}
	if want := mustTime(t, "2024-01-15T08:00:00Z"); !next.Equal(want) {
		t.Errorf("weekly 下次到期 = %v, 期望 %v", next, want)
	}
}

func TestNextDue_MonthlyClamp(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		want   string
	}{
		{"普通日期", "2024-03-15T08:00:00Z", "2024-04-15T08:00:00Z"},
		{"1月31日收缩到闰年2月29日", "2024-01-31T08:00:00Z", "2024-02-29T08:00:00Z"},
		{"1月31日收缩到平年2月28日", "2023-01-31T08:00:00Z", "2023-02-28T08:00:00Z"},
		{"3月31日收缩到4月30日", "2024-03-31T08:00:00Z", "2024-04-30T08:00:00Z"},
		{"月末收缩后不粘滞在月末", "2024-04-30T08:00:00Z", "2024-05-30T08:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextDue(model.FrequencyMonthly, mustTime(t, tt.anchor))
			if !ok {
				t.Fatal("monthly 频率应产生后续到期")
			}
			if want := mustTime(t, tt.want); !next.Equal(want) {
				t.Errorf("monthly 下次到期 = %v, 期望 %v", next, want)
			}
		})
	}
}

func TestNextDue_AnnuallyClamp(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		want   string
	}{
		{"普通日期", "2024-06-01T08:00:00Z", "2025-06-01T08:00:00Z"},
		{"闰年2月29日收缩为平年2月28日", "2024-02-29T08:00:00Z", "2025-02-28T08:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextDue(model.FrequencyAnnually, mustTime(t, tt.anchor))
			if !ok {
				t.Fatal("annually 频率应产生后续到期")
			}
			if want := mustTime(t, tt.want); !next.Equal(want) {
				t.Errorf("annually 下次到期 = %v, 期望 %v", next, want)
			}
		})
	}
}

func TestNextDue_UnknownFrequency(t *testing.T) {
	_, ok := NextDue("quarterly", mustTime(t, "2024-01-01T08:00:00Z"))
	if ok {
		t.Error("未知频率不应产生后续到期")
	}
}
