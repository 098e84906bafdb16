// Package render はコントリビューションヒートマップをSVGとして描画する。
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/hitoshi/termfolio/internal/heatmap"
)

const (
	columnPitch = 14 // 週列の横方向の間隔
	rowPitch    = 15 // 曜日セルの縦方向の間隔
	cellSize    = 11
	gridTop     = 20  // 月ラベル分の上余白
	gridHeight  = 150 // 月ラベルとグリッドを含む描画領域の高さ
	footerSize  = 40
	sidePadding = 20
	minWidth    = 320

	// UnavailableMessage はデータ取得に失敗した場合のプレースホルダー文言。
	UnavailableMessage = "CONNECTION_REFUSED"
)

//go:embed templates/heatmap.svg.tmpl
var heatmapTemplate string

//go:embed templates/unavailable.svg.tmpl
var unavailableTemplate string

var funcs = template.FuncMap{
	"addInt": func(a, b int) int { return a + b },
	"subInt": func(a, b int) int { return a - b },
	"divInt": func(a, b int) int { return a / b },
}

var (
	heatmapTmpl     = template.Must(template.New("heatmap").Funcs(funcs).Parse(heatmapTemplate))
	unavailableTmpl = template.Must(template.New("unavailable").Funcs(funcs).Parse(unavailableTemplate))
)

type cellView struct {
	Y     int
	Fill  string
	Date  string
	Count int
}

type columnView struct {
	X     int
	Cells []cellView
}

type labelView struct {
	X    int
	Name string
}

type legendView struct {
	X    int
	Fill string
}

type heatmapViewModel struct {
	Width    int
	Height   int
	GridTop  int
	CellSize int
	FooterY  int

	Months  []labelView
	Columns []columnView
	Legend  []legendView

	Total       int
	TotalLabelX int
	LessX       int
}

type unavailableViewModel struct {
	Width   int
	Height  int
	Message string
}

// Width はCalendarを描画したときのSVGの幅を返す。
func Width(cal heatmap.Calendar) int {
	w := len(cal.Weeks)*columnPitch + sidePadding
	if w < minWidth {
		return minWidth
	}
	return w
}

// RenderHeatmap はCalendarをSVGとして描画する。
// 列はcolumnPitch間隔、セルはrowPitch間隔で配置し、月ラベルは列位置に合わせる。
func RenderHeatmap(cal heatmap.Calendar) ([]byte, error) {
	width := Width(cal)

	vm := heatmapViewModel{
		Width:    width,
		Height:   gridHeight + footerSize,
		GridTop:  gridTop,
		CellSize: cellSize,
		FooterY:  gridHeight,
		Total:    cal.Total,
		Months:   make([]labelView, 0, len(cal.Months)),
		Columns:  make([]columnView, 0, len(cal.Weeks)),
	}
	vm.TotalLabelX = len(fmt.Sprint(cal.Total))*14 + 8

	for _, m := range cal.Months {
		vm.Months = append(vm.Months, labelView{X: m.ColumnIndex * columnPitch, Name: m.Name})
	}

	for i, week := range cal.Weeks {
		col := columnView{X: i * columnPitch, Cells: make([]cellView, 0, len(week))}
		for j, day := range week {
			col.Cells = append(col.Cells, cellView{
				Y:     j * rowPitch,
				Fill:  heatmap.Fill(day.Level),
				Date:  day.Date.Format("2006-01-02"),
				Count: day.Count,
			})
		}
		vm.Columns = append(vm.Columns, col)
	}

	// 凡例は右端のMOREラベルの手前に薄い順で並べる
	fills := heatmap.Legend()
	legendStart := width - 36 - len(fills)*columnPitch
	for i, fill := range fills {
		vm.Legend = append(vm.Legend, legendView{X: legendStart + i*columnPitch, Fill: fill})
	}
	vm.LessX = legendStart - 4

	var buf bytes.Buffer
	if err := heatmapTmpl.Execute(&buf, vm); err != nil {
		return nil, fmt.Errorf("render heatmap svg: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderUnavailable はデータを取得できなかった場合のプレースホルダーSVGを描画する。
func RenderUnavailable() ([]byte, error) {
	vm := unavailableViewModel{
		Width:   minWidth,
		Height:  gridHeight,
		Message: UnavailableMessage,
	}

	var buf bytes.Buffer
	if err := unavailableTmpl.Execute(&buf, vm); err != nil {
		return nil, fmt.Errorf("render unavailable svg: %w", err)
	}
	return buf.Bytes(), nil
}
