package render

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/termfolio/internal/heatmap"
	"github.com/hitoshi/termfolio/internal/model"
)

func makeDays(start time.Time, n int) []model.ContributionDay {
	days := make([]model.ContributionDay, n)
	for i := range days {
		days[i] = model.ContributionDay{
			Date:  start.AddDate(0, 0, i),
			Count: i % 5,
			Level: i % 5,
		}
	}
	return days
}

// assertWellFormed はSVGがXMLとして解析できることを検証する。
func assertWellFormed(t *testing.T, svg []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("SVGがXMLとして不正: %v\n%s", err, svg)
		}
	}
}

func TestRenderHeatmap_Layout(t *testing.T) {
	start := time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC)
	cal := heatmap.Build(makeDays(start, 14), map[string]int{"2024": 42})

	svg, err := RenderHeatmap(cal)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	assertWellFormed(t, svg)
	out := string(svg)

	// 2列目は14px右へずれる
	if !strings.Contains(out, `translate(0, 20)`) || !strings.Contains(out, `translate(14, 20)`) {
		t.Error("列の配置が14px間隔になっていない")
	}
	// 7日目のセルは6*15=90
	if !strings.Contains(out, `y="90" width="11" height="11"`) {
		t.Error("セルの縦位置または大きさが不正")
	}
	if strings.Count(out, "contributions</title>") != 14 {
		t.Errorf("セル数 = %d, want 14", strings.Count(out, "contributions</title>"))
	}
	if !strings.Contains(out, "<title>2024-01-25: 0 contributions</title>") {
		t.Error("ツールチップに日付と件数が含まれていない")
	}
	// 1/25始まりの列と2/1始まりの列で2つの月ラベル
	if !strings.Contains(out, `x="0" y="12" fill="#00ff41" fill-opacity="0.7" font-size="10">Jan<`) {
		t.Error("Janラベルが列0に配置されていない")
	}
	if !strings.Contains(out, `x="14" y="12" fill="#00ff41" fill-opacity="0.7" font-size="10">Feb<`) {
		t.Error("Febラベルが列1に配置されていない")
	}
	if !strings.Contains(out, ">42<") {
		t.Error("合計値が描画されていない")
	}
	for _, fill := range heatmap.Legend() {
		if !strings.Contains(out, `fill="`+fill+`"`) {
			t.Errorf("凡例の色 %s が描画されていない", fill)
		}
	}
	if !strings.Contains(out, ">LESS<") || !strings.Contains(out, ">MORE<") {
		t.Error("凡例のラベルが描画されていない")
	}
}

func TestRenderHeatmap_FullYearWidth(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	cal := heatmap.Build(makeDays(start, 400), nil)

	if got, want := Width(cal), heatmap.MaxWeeks*14+20; got != want {
		t.Errorf("Width = %d, want %d", got, want)
	}

	svg, err := RenderHeatmap(cal)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	assertWellFormed(t, svg)
	if n := strings.Count(string(svg), "contributions</title>"); n != heatmap.MaxDays {
		t.Errorf("セル数 = %d, want %d", n, heatmap.MaxDays)
	}
}

func TestRenderHeatmap_Empty(t *testing.T) {
	svg, err := RenderHeatmap(heatmap.Build(nil, map[string]int{"2024": 3}))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	assertWellFormed(t, svg)
	out := string(svg)
	if strings.Contains(out, "<g ") {
		t.Error("空のカレンダーで列が描画された")
	}
	if !strings.Contains(out, `width="320"`) {
		t.Error("最小幅が適用されていない")
	}
	if !strings.Contains(out, ">3<") {
		t.Error("合計値が描画されていない")
	}
}

func TestRenderUnavailable(t *testing.T) {
	svg, err := RenderUnavailable()
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	assertWellFormed(t, svg)
	if !strings.Contains(string(svg), UnavailableMessage) {
		t.Errorf("プレースホルダー文言が含まれていない: %s", svg)
	}
}
