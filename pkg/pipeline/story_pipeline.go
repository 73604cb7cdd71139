package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
)

// NarrativeSource はテーマから場面の文を生成するコンポーネントのインターフェースです。
type NarrativeSource interface {
	Generate(ctx context.Context, theme string) ([]string, error)
}

// IllustrationSource は1シーン分の挿絵を生成するコンポーネントのインターフェースです。
// prev には直前シーンの挿絵を渡します（シーン0では nil）。
type IllustrationSource interface {
	Generate(ctx context.Context, sentence string, prev *domain.Image, index int) (domain.Image, error)
}

// ProgressFunc は生成の進捗ラベルを受け取るコールバックです。
// 各ステージの開始直前に1回呼び出され、呼び出し側がライブ表示に使えるのだ。
type ProgressFunc func(message string)

// StoryPipeline は台本生成と挿絵生成を順に束ね、完成した物語を一括で返す司令塔です。
// 途中のどの段階で失敗しても部分結果はすべて破棄され、呼び出し側が
// 3シーン未満の物語を観測することはありません。リトライは一切しないのだ。
type StoryPipeline struct {
	narrative   NarrativeSource
	illustrator IllustrationSource
	progress    ProgressFunc
}

// New は StoryPipeline を構築します。progress は nil でも構いません。
func New(narrative NarrativeSource, illustrator IllustrationSource, progress ProgressFunc) *StoryPipeline {
	if progress == nil {
		progress = func(string) {}
	}
	return &StoryPipeline{
		narrative:   narrative,
		illustrator: illustrator,
		progress:    progress,
	}
}

// Run はテーマから3シーン完結の物語を生成します。
// 挿絵はシーン順に厳密に逐次生成する。各シーンが直前の挿絵に依存するからなのだ。
func (sp *StoryPipeline) Run(ctx context.Context, theme string) (domain.Story, error) {
	if strings.TrimSpace(theme) == "" {
		return domain.Story{}, &domain.InvalidStoryError{Reason: "theme must not be empty"}
	}

	sp.progress("Crafting your narrative...")
	sentences, err := sp.narrative.Generate(ctx, theme)
	if err != nil {
		return domain.Story{}, err
	}
	slog.Info("台本が完成したのだ", "scenes", len(sentences))

	scenes := make([]domain.Scene, 0, domain.SceneCount)
	var prev *domain.Image
	for i, sentence := range sentences {
		sp.progress(fmt.Sprintf("Illustrating Scene %d/%d...", i+1, domain.SceneCount))
		img, err := sp.illustrator.Generate(ctx, sentence, prev, i)
		if err != nil {
			// 失敗した実行の画像は保持も再利用もしないのだ
			return domain.Story{}, err
		}
		scenes = append(scenes, domain.Scene{Text: sentence, Image: img})
		prev = &scenes[i].Image
		slog.Info("挿絵が完成したのだ", "scene", i+1, "mime_type", img.MimeType, "bytes", len(img.Data))
	}

	story, err := domain.NewStory(theme, scenes)
	if err != nil {
		return domain.Story{}, err
	}
	return story, nil
}
