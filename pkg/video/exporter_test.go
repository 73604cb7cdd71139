package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// fakeRunner は FFmpegRunner のフェイクなのだ。呼び出し時点の引数と
// concat指示書の中身を控えておく（作業ディレクトリは Export 終了後に消えるため）。
type fakeRunner struct {
	mu          sync.Mutex
	calls       int
	args        []string
	listContent string
	frameCount  int
	err         error
	block       chan struct{}
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) error {
	f.mu.Lock()
	f.calls++
	f.args = args
	for i, arg := range args {
		if arg == "-i" && i+1 < len(args) {
			if data, err := os.ReadFile(args[i+1]); err == nil {
				f.listContent = string(data)
				entries, _ := os.ReadDir(filepath.Dir(args[i+1]))
				for _, entry := range entries {
					if strings.HasPrefix(entry.Name(), "frame_") {
						f.frameCount++
					}
				}
			}
		}
	}
	block := f.block
	err := f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	return err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("テスト画像の用意に失敗したのだ: %v", err)
	}
	return buf.Bytes()
}

func exportStory(t *testing.T) domain.Story {
	t.Helper()
	scenes := []domain.Scene{
		{Text: "A knight sets out on a long journey.", Image: domain.Image{Data: pngBytes(t, 640, 480), MimeType: "image/png"}},
		{Text: "A dragon appears over the mountain.", Image: domain.Image{Data: pngBytes(t, 1920, 480), MimeType: "image/png"}},
		{Text: "They become the best of friends.", Image: domain.Image{Data: pngBytes(t, 480, 960), MimeType: "image/png"}},
	}
	story, err := domain.NewStory("a brave knight and a friendly dragon", scenes)
	if err != nil {
		t.Fatalf("テスト用の物語の構築に失敗したのだ: %v", err)
	}
	return story
}

func TestExporter_Export(t *testing.T) {
	t.Run("シーン数ぶんのフレームと5秒ずつの尺で書き出すのだ", func(t *testing.T) {
		runner := &fakeRunner{}
		exporter := NewExporter(runner, 0)
		outPath := filepath.Join(t.TempDir(), "story.mp4")

		if err := exporter.Export(context.Background(), exportStory(t), outPath); err != nil {
			t.Fatalf("書き出しに失敗したのだ: %v", err)
		}

		if runner.calls != 1 {
			t.Fatalf("エンコーダは1回だけ起動されるはずなのだ: %d", runner.calls)
		}
		if runner.frameCount != 3 {
			t.Errorf("フレーム数が違うのだ: %d", runner.frameCount)
		}
		if got := strings.Count(runner.listContent, "duration 5\n"); got != 3 {
			t.Errorf("各シーン5秒の指定が3つ必要なのだ: %d\n%s", got, runner.listContent)
		}
		// concat demuxer の仕様で末尾フレームはもう一度並ぶのだ
		if got := strings.Count(runner.listContent, "file '"); got != 4 {
			t.Errorf("fileエントリ数が違うのだ: %d", got)
		}
	})

	t.Run("合計尺はシーン数×固定尺なのだ", func(t *testing.T) {
		exporter := NewExporter(&fakeRunner{}, 0)
		if got := exporter.Duration(exportStory(t)); got != 15*time.Second {
			t.Errorf("合計尺が15秒ではないのだ: %s", got)
		}
	})

	t.Run("エンコード失敗は VideoExportError として返り部分出力を残さないのだ", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("encoder exploded")}
		exporter := NewExporter(runner, 0)
		outPath := filepath.Join(t.TempDir(), "story.mp4")

		err := exporter.Export(context.Background(), exportStory(t), outPath)
		var exportErr *domain.VideoExportError
		if !errors.As(err, &exportErr) {
			t.Fatalf("VideoExportErrorを期待したのだ: %v", err)
		}
		if _, statErr := os.Stat(outPath); !errors.Is(statErr, os.ErrNotExist) {
			t.Error("失敗した書き出しの部分出力が残っているのだ")
		}
	})

	t.Run("壊れた挿絵はフレーム描画の段階で失敗するのだ", func(t *testing.T) {
		scenes := []domain.Scene{
			{Text: "ok", Image: domain.Image{Data: pngBytes(t, 64, 64), MimeType: "image/png"}},
			{Text: "broken", Image: domain.Image{Data: []byte("not an image"), MimeType: "image/png"}},
			{Text: "ok", Image: domain.Image{Data: pngBytes(t, 64, 64), MimeType: "image/png"}},
		}
		story, err := domain.NewStory("theme", scenes)
		if err != nil {
			t.Fatalf("物語の構築に失敗したのだ: %v", err)
		}

		runner := &fakeRunner{}
		exporter := NewExporter(runner, 0)

		err = exporter.Export(context.Background(), story, filepath.Join(t.TempDir(), "story.mp4"))
		var exportErr *domain.VideoExportError
		if !errors.As(err, &exportErr) {
			t.Fatalf("VideoExportErrorを期待したのだ: %v", err)
		}
		if runner.calls != 0 {
			t.Error("フレーム描画に失敗したのにエンコーダが起動されたのだ")
		}
	})

	t.Run("書き出しの多重起動は拒否されるのだ", func(t *testing.T) {
		runner := &fakeRunner{block: make(chan struct{})}
		exporter := NewExporter(runner, 0)
		story := exportStory(t)

		firstErr := make(chan error, 1)
		go func() {
			firstErr <- exporter.Export(context.Background(), story, filepath.Join(t.TempDir(), "a.mp4"))
		}()

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			runner.mu.Lock()
			started := runner.calls > 0
			runner.mu.Unlock()
			if started {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}

		err := exporter.Export(context.Background(), story, filepath.Join(t.TempDir(), "b.mp4"))
		if !errors.Is(err, ErrExportInProgress) {
			t.Errorf("多重起動の拒否を期待したのだ: %v", err)
		}

		close(runner.block)
		if err := <-firstErr; err != nil {
			t.Errorf("1本目の書き出しが失敗したのだ: %v", err)
		}
	})
}

func TestFitRect(t *testing.T) {
	t.Run("横長ソースはレターボックスで上下中央なのだ", func(t *testing.T) {
		r := fitRect(2560, 720)
		if r.Dx() != CanvasWidth {
			t.Errorf("幅がキャンバスに揃わないのだ: %d", r.Dx())
		}
		if r.Dy() != 360 {
			t.Errorf("高さのスケールが違うのだ: %d", r.Dy())
		}
		if r.Min.Y != (CanvasHeight-360)/2 {
			t.Errorf("垂直センタリングされていないのだ: %d", r.Min.Y)
		}
	})

	t.Run("縦長ソースはピラーボックスで左右中央なのだ", func(t *testing.T) {
		r := fitRect(480, 960)
		if r.Dy() != CanvasHeight {
			t.Errorf("高さがキャンバスに揃わないのだ: %d", r.Dy())
		}
		if r.Dx() != 360 {
			t.Errorf("幅のスケールが違うのだ: %d", r.Dx())
		}
		if r.Min.X != (CanvasWidth-360)/2 {
			t.Errorf("水平センタリングされていないのだ: %d", r.Min.X)
		}
	})

	t.Run("アスペクト比はどのソースでも保存されるのだ", func(t *testing.T) {
		cases := [][2]int{{640, 480}, {1920, 1080}, {100, 700}, {3000, 100}}
		for _, c := range cases {
			r := fitRect(c[0], c[1])
			if r.Dx() > CanvasWidth || r.Dy() > CanvasHeight {
				t.Errorf("%vがキャンバスからはみ出すのだ: %v", c, r)
			}
			got := float64(r.Dx()) / float64(r.Dy())
			want := float64(c[0]) / float64(c[1])
			if diff := got - want; diff > 0.02 || diff < -0.02 {
				t.Errorf("%vのアスペクト比が崩れたのだ: %f != %f", c, got, want)
			}
		}
	})
}

func TestWrapCaption(t *testing.T) {
	face := basicfont.Face7x13

	t.Run("すべての行が指定幅に収まるのだ", func(t *testing.T) {
		text := "A brave knight and a friendly dragon travel together across the misty mountains toward the rising sun."
		lines := WrapCaption(face, text, 200)
		if len(lines) < 2 {
			t.Fatalf("折り返しが発生していないのだ: %v", lines)
		}
		for _, line := range lines {
			if w := font.MeasureString(face, line).Ceil(); w > 200 {
				t.Errorf("行が幅を超えているのだ (%dpx): %q", w, line)
			}
		}
	})

	t.Run("単語は失われず順序も保たれるのだ", func(t *testing.T) {
		text := "one two three four five six seven"
		lines := WrapCaption(face, text, 80)
		if joined := strings.Join(lines, " "); joined != text {
			t.Errorf("単語列が変わってしまったのだ: %q", joined)
		}
	})

	t.Run("貪欲法なので行は詰められるだけ詰めるのだ", func(t *testing.T) {
		lines := WrapCaption(face, "aa bb cc", 1000)
		if len(lines) != 1 {
			t.Errorf("収まるのに改行されたのだ: %v", lines)
		}
	})

	t.Run("空文字列は行なしなのだ", func(t *testing.T) {
		if lines := WrapCaption(face, "   ", 100); lines != nil {
			t.Errorf("空入力から行が生まれたのだ: %v", lines)
		}
	})
}
