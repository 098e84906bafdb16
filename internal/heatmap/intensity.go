package heatmap

// levelFills はレベル0〜4に対応するセルの塗り色。0が最も薄く、4が最も濃い。
var levelFills = [5]string{
	"rgba(0, 255, 65, 0.05)",
	"rgba(0, 255, 65, 0.25)",
	"rgba(0, 255, 65, 0.5)",
	"rgba(0, 255, 65, 0.75)",
	"#00ff41",
}

// Fill はレベルに対応する塗り色を返す。範囲外のレベルはレベル0として扱う。
func Fill(level int) string {
	if level < 0 || level >= len(levelFills) {
		return levelFills[0]
	}
	return levelFills[level]
}

// Legend は凡例用に全レベルの塗り色を薄い順に返す。
func Legend() []string {
	out := make([]string, len(levelFills))
	copy(out, levelFills[:])
	return out
}
