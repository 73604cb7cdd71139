package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultSceneDuration は各シーンが出力ストリーム上で占める固定時間です。
const DefaultSceneDuration = 5 * time.Second

// ErrExportInProgress は書き出しの多重起動を拒否したことを示します。
var ErrExportInProgress = errors.New("another export is already in progress")

// FFmpegRunner は動画エンコーダの起動を抽象化します。テストではフェイクに差し替えるのだ。
type FFmpegRunner interface {
	Run(ctx context.Context, args ...string) error
}

// ExecFFmpegRunner は PATH 上の ffmpeg を起動する標準実装です。
type ExecFFmpegRunner struct{}

func (ExecFFmpegRunner) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 512 {
			detail = detail[len(detail)-512:]
		}
		return fmt.Errorf("ffmpegの実行に失敗したのだ: %w: %s", err, detail)
	}
	return nil
}

// Exporter は完成した物語を1本のMP4へ合成するコンポーネントです。
// フレームの描画自体は独立しているので並列に行うが、出力ストリーム上の
// 並びと各シーン5秒の尺は厳密に維持するのだ。同時に実行できる書き出しは1本だけ。
type Exporter struct {
	runner        FFmpegRunner
	sceneDuration time.Duration
	inProgress    atomic.Bool
}

// NewExporter は Exporter を構築します。sceneDuration が 0 以下なら既定の5秒を使います。
func NewExporter(runner FFmpegRunner, sceneDuration time.Duration) *Exporter {
	if sceneDuration <= 0 {
		sceneDuration = DefaultSceneDuration
	}
	return &Exporter{
		runner:        runner,
		sceneDuration: sceneDuration,
	}
}

// Duration は書き出される動画の合計時間を返します（シーン数 × 固定尺）。
func (e *Exporter) Duration(story domain.Story) time.Duration {
	return time.Duration(len(story.Scenes)) * e.sceneDuration
}

// Export は物語全体を outPath のMP4へ合成します。
// どの段階で失敗しても中間成果物と部分的な出力を破棄し、VideoExportError を返すのだ。
func (e *Exporter) Export(ctx context.Context, story domain.Story, outPath string) error {
	if !e.inProgress.CompareAndSwap(false, true) {
		return &domain.VideoExportError{Stage: "start", Err: ErrExportInProgress}
	}
	defer e.inProgress.Store(false)

	if len(story.Scenes) == 0 {
		return &domain.VideoExportError{Stage: "start", Err: errors.New("story has no scenes")}
	}

	workDir := filepath.Join(os.TempDir(), "story-export-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return &domain.VideoExportError{Stage: "workspace", Err: err}
	}
	defer os.RemoveAll(workDir)

	framePaths, err := e.renderFrames(ctx, story, workDir)
	if err != nil {
		return err
	}

	listPath := filepath.Join(workDir, "frames.txt")
	if err := os.WriteFile(listPath, []byte(e.concatList(framePaths)), 0644); err != nil {
		return &domain.VideoExportError{Stage: "concat list", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return &domain.VideoExportError{Stage: "output dir", Err: err}
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vf", "fps=30,format=yuv420p",
		outPath,
	}
	if err := e.runner.Run(ctx, args...); err != nil {
		// 部分的な録画は残さないのだ
		os.Remove(outPath)
		return &domain.VideoExportError{Stage: "encode", Err: err}
	}
	return nil
}

// renderFrames は全シーンのフレームを並列に描画し、インデックス順のパス一覧を返します。
func (e *Exporter) renderFrames(ctx context.Context, story domain.Story, workDir string) ([]string, error) {
	framePaths := make([]string, len(story.Scenes))
	eg, _ := errgroup.WithContext(ctx)

	for i, scene := range story.Scenes {
		i, scene := i, scene
		eg.Go(func() error {
			frame, err := renderFrame(scene)
			if err != nil {
				return &domain.VideoExportError{Stage: fmt.Sprintf("frame %d", i+1), Err: err}
			}
			path := filepath.Join(workDir, fmt.Sprintf("frame_%03d.png", i))
			if err := writePNG(path, frame); err != nil {
				return &domain.VideoExportError{Stage: fmt.Sprintf("frame %d", i+1), Err: err}
			}
			framePaths[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		var exportErr *domain.VideoExportError
		if errors.As(err, &exportErr) {
			return nil, err
		}
		return nil, &domain.VideoExportError{Stage: "frames", Err: err}
	}
	return framePaths, nil
}

// concatList は ffmpeg の concat demuxer に渡す指示書を組み立てます。
// 各フレームに固定尺を割り当て、末尾フレームは demuxer の仕様どおり
// 尺なしでもう一度並べるのだ。
func (e *Exporter) concatList(framePaths []string) string {
	var b strings.Builder
	seconds := e.sceneDuration.Seconds()
	for _, path := range framePaths {
		fmt.Fprintf(&b, "file '%s'\n", path)
		fmt.Fprintf(&b, "duration %g\n", seconds)
	}
	if len(framePaths) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", framePaths[len(framePaths)-1])
	}
	return b.String()
}
