package runner

import (
	"context"
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/pipeline"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/publisher"
)

// StoryRunner は、テーマから物語を生成するパイプラインを実行するインターフェースなのだ。
type StoryRunner interface {
	// Run は生成パイプラインを実行し、完成した物語を返すのだ。
	Run(ctx context.Context) (domain.Story, error)
}

// GenerateStoryRunner は、StoryPipeline を駆動して成果物を保存する核となる構造体なのだ。
type GenerateStoryRunner struct {
	pipeline  *pipeline.StoryPipeline   // 台本生成と挿絵生成を束ねたパイプライン
	publisher *publisher.StoryPublisher // 完成した物語をローカルへ書き出すパブリッシャー
	opts      config.GenerateOptions    // 実行時のコマンドライン引数や設定
}

// NewGenerateStoryRunner は、GenerateStoryRunnerの新しいインスタンスを生成して返すのだ。
func NewGenerateStoryRunner(
	sp *pipeline.StoryPipeline,
	pub *publisher.StoryPublisher,
	opts config.GenerateOptions,
) *GenerateStoryRunner {
	return &GenerateStoryRunner{
		pipeline:  sp,
		publisher: pub,
		opts:      opts,
	}
}

// Run は、物語の生成から成果物の保存までを一気に行うのだ。
// 生成が途中で失敗した場合、何も保存されないのだよ。
func (sr *GenerateStoryRunner) Run(ctx context.Context) (domain.Story, error) {
	story, err := sr.pipeline.Run(ctx, sr.opts.Theme)
	if err != nil {
		return domain.Story{}, err
	}

	slog.Info("物語が完成したのだ！", "id", story.ID, "scenes", len(story.Scenes))

	err = sr.publisher.Publish(ctx, story, publisher.Options{
		StoryFile: sr.opts.StoryFile,
		ImageDir:  sr.opts.ImageDir,
	})
	if err != nil {
		return domain.Story{}, err
	}
	return story, nil
}
