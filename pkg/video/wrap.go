package video

import (
	"strings"

	"golang.org/x/image/font"
)

// WrapCaption はキャプション文を、与えられたピクセル幅に収まるよう貪欲法で行分割します。
// 行に単語を足していき、はみ出す直前で改行する。1単語だけで幅を超える場合は
// その単語を単独行としてそのまま置くのだ（切断はしない）。
func WrapCaption(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
