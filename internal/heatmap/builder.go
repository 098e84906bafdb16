// Package heatmap はコントリビューションデータをカレンダー形式のヒートマップへ整形する。
//
// 入力は古い順に並んだ日単位のコントリビューション列で、
// 7日ごとの週列と月境界ラベルに変換する。
package heatmap

import (
	"github.com/hitoshi/termfolio/internal/model"
)

const (
	// DaysPerWeek は1列あたりの日数。
	DaysPerWeek = 7
	// MaxWeeks は描画する最大週数（直近1年分）。
	MaxWeeks = 53
	// MaxDays は描画対象とする末尾の最大日数。
	MaxDays = MaxWeeks * DaysPerWeek
)

// monthNames は月の3文字略称。time.Month.String()の先頭3文字と同じだが、
// ロケールに依存しない固定表として持つ。
var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Calendar はヒートマップの構築結果を表す。
type Calendar struct {
	Weeks  []model.WeekColumn
	Months []model.MonthLabel
	// Total は年ごとの合計値の総和。Weeks内のCountの合計とは一致しない場合がある。
	Total int
	// Days は描画対象となった日数。
	Days int
}

// Build は日単位のコントリビューション列と年ごとの合計からCalendarを構築する。
// 入力列の末尾MaxDays件のみを対象とし、7日ごとに列へ分割する。
// 各列の先頭日の月が直前の列と異なる場合に月ラベルを追加する。
func Build(days []model.ContributionDay, totals map[string]int) Calendar {
	if len(days) > MaxDays {
		days = days[len(days)-MaxDays:]
	}

	cal := Calendar{
		Weeks: make([]model.WeekColumn, 0, (len(days)+DaysPerWeek-1)/DaysPerWeek),
		Total: SumTotals(totals),
		Days:  len(days),
	}

	lastMonth := -1
	for start := 0; start < len(days); start += DaysPerWeek {
		end := start + DaysPerWeek
		if end > len(days) {
			end = len(days)
		}

		column := make(model.WeekColumn, end-start)
		copy(column, days[start:end])

		index := len(cal.Weeks)
		cal.Weeks = append(cal.Weeks, column)

		month := int(column[0].Date.Month()) - 1
		if month != lastMonth {
			cal.Months = append(cal.Months, model.MonthLabel{
				ColumnIndex: index,
				Name:        monthNames[month],
			})
			lastMonth = month
		}
	}

	return cal
}

// SumTotals は年ごとの合計値を足し合わせる。
func SumTotals(totals map[string]int) int {
	var sum int
	for _, n := range totals {
		sum += n
	}
	return sum
}
