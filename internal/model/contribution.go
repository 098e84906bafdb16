package model

import "time"

// ContributionDay は1日分のコントリビューション数を表す。
// Level はデータソースが事前に算出した0〜4の強度で、ローカルでは再計算しない。
type ContributionDay struct {
	Date  time.Time // UTCの0時で正規化された暦日
	Count int
	Level int
}

// WeekColumn はヒートマップの1列（最大7日）を表す。
// 入力長が7の倍数でない場合、最後の列のみ7日未満になる。
type WeekColumn []ContributionDay

// MonthLabel はヒートマップの月境界ラベルを表す。
type MonthLabel struct {
	ColumnIndex int
	Name        string // 3文字の月略称（Jan〜Dec）
}

// ContributionData はコントリビューションAPIから取得した生データを表す。
// Totals は年ごとの合計で、Days の合計とは一致しない場合がある。
type ContributionData struct {
	Totals map[string]int
	Days   []ContributionDay
}
