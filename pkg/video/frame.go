package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// CanvasWidth / CanvasHeight は出力動画の固定キャンバス寸法です。
	CanvasWidth  = 1280
	CanvasHeight = 720

	// captionBandHeight はキャンバス下部のキャプション帯の高さです。
	captionBandHeight = CanvasHeight / 4
	// captionPadding はキャプション帯内側の余白です。
	captionPadding = 24
	// captionLineHeight は行送りのピクセル数です。
	captionLineHeight = 18
)

// captionBandColor は半透明の黒帯。挿絵の上に重ねても文字が読める濃さなのだ。
var captionBandColor = color.NRGBA{R: 0, G: 0, B: 0, A: 180}

// fitRect はソース寸法をキャンバス内に収める描画先矩形を計算します。
// アスペクト比を保ち、余る軸の中央に配置するレターボックス／ピラーボックスなのだ。
func fitRect(srcW, srcH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}
	}
	// 幅合わせと高さ合わせのうち、収まる方の倍率を採用する
	dstW := CanvasWidth
	dstH := srcH * CanvasWidth / srcW
	if dstH > CanvasHeight {
		dstH = CanvasHeight
		dstW = srcW * CanvasHeight / srcH
	}
	x0 := (CanvasWidth - dstW) / 2
	y0 := (CanvasHeight - dstH) / 2
	return image.Rect(x0, y0, x0+dstW, y0+dstH)
}

// renderFrame は1シーン分の静止フレームを合成します。
// 黒背景 → レターボックスされた挿絵 → 半透明キャプション帯 → 折り返し済み本文、の順なのだ。
func renderFrame(scene domain.Scene) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(scene.Image.Data))
	if err != nil {
		return nil, fmt.Errorf("挿絵のデコードに失敗したのだ: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	bounds := src.Bounds()
	target := fitRect(bounds.Dx(), bounds.Dy())
	xdraw.ApproxBiLinear.Scale(canvas, target, src, bounds, xdraw.Over, nil)

	drawCaption(canvas, scene.Text)
	return canvas, nil
}

// drawCaption はキャンバス下部に半透明帯を敷き、折り返した本文を描き込みます。
func drawCaption(canvas *image.RGBA, text string) {
	band := image.Rect(0, CanvasHeight-captionBandHeight, CanvasWidth, CanvasHeight)
	draw.Draw(canvas, band, image.NewUniform(captionBandColor), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	maxWidth := CanvasWidth - 2*captionPadding
	lines := WrapCaption(face, text, maxWidth)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
	}
	y := band.Min.Y + captionPadding
	for _, line := range lines {
		// 各行はキャプション帯の中で水平センタリングするのだ
		lineWidth := font.MeasureString(face, line).Ceil()
		x := (CanvasWidth - lineWidth) / 2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
		y += captionLineHeight
		if y > CanvasHeight-captionPadding {
			break
		}
	}
}

// writePNG はフレームをPNGとして書き出します。
func writePNG(path string, frame *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("フレームファイルの作成に失敗したのだ: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("フレームのPNG書き出しに失敗したのだ: %w", err)
	}
	return nil
}
