package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/publisher"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/video"
)

// ExportRunner は、保存済みの物語を読み込んでナレーション付き動画に書き出すのだ。
type ExportRunner struct {
	publisher *publisher.StoryPublisher
	exporter  *video.Exporter
	storyFile string
	videoFile string
}

// NewExportRunner は ExportRunner の新しいインスタンスを生成して返すのだ。
func NewExportRunner(pub *publisher.StoryPublisher, exp *video.Exporter, storyFile, videoFile string) *ExportRunner {
	return &ExportRunner{
		publisher: pub,
		exporter:  exp,
		storyFile: storyFile,
		videoFile: videoFile,
	}
}

// Run は物語ファイルを読み込み、動画のエンコードが終わるまでブロックするのだ。
func (er *ExportRunner) Run(ctx context.Context) error {
	story, err := er.publisher.Load(er.storyFile)
	if err != nil {
		return fmt.Errorf("物語の読み込みに失敗したのだ: %w", err)
	}

	slog.Info("動画の書き出しを始めるのだ",
		"theme", story.Theme,
		"scenes", len(story.Scenes),
		"duration", er.exporter.Duration(story).String(),
		"output", er.videoFile)

	if err := er.exporter.Export(ctx, story, er.videoFile); err != nil {
		return err
	}

	slog.Info("動画の書き出しが完了したのだ", "output", er.videoFile)
	return nil
}
