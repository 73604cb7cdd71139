package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/builder"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/runner"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
)

// Execute は、テーマから物語を生成して成果物を保存する一連の流れを実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = runGenerateStep(ctx, appCtx)
	if err != nil {
		return err
	}

	slog.Info("物語の生成と保存が完了したのだ！", "story", cfg.Options.StoryFile)
	return nil
}

// ExecutePlay は、物語を用意してナレーション付きスライドショーを開始するのだ。
// テーマが指定されていれば新しく生成し、なければ保存済みの物語を読み込むのだ。
func ExecutePlay(ctx context.Context, cfg *config.Config) error {
	var story domain.Story

	if cfg.Options.Theme != "" {
		appCtx, err := setupAppContext(ctx, cfg)
		if err != nil {
			return err
		}
		story, err = runGenerateStep(ctx, appCtx)
		if err != nil {
			return err
		}
	} else {
		var err error
		story, err = builder.BuildStoryPublisher().Load(cfg.Options.StoryFile)
		if err != nil {
			return fmt.Errorf("保存済みの物語の読み込みに失敗したのだ: %w", err)
		}
	}

	// 音声まわりの構築は AI クライアントが要らないので設定だけで済むのだ
	synth, err := builder.BuildSynthesizer(&builder.AppContext{Config: cfg, Options: cfg.Options})
	if err != nil {
		return err
	}

	playRunner := runner.NewPlayRunner(story, synth, os.Stdin, os.Stdout, !cfg.Options.NoAutoplay)
	return playRunner.Run(ctx)
}

// ExecuteExport は、保存済みの物語を読み込んで動画に書き出すのだ。
// 生成も音声も使わないので外部依存は ffmpeg だけなのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg, nil)

	exportRunner := runner.NewExportRunner(
		builder.BuildStoryPublisher(),
		builder.BuildVideoExporter(&appCtx),
		cfg.Options.StoryFile,
		cfg.Options.VideoFile,
	)
	return exportRunner.Run(ctx)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	model, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	appCtx := builder.NewAppContext(cfg, model)
	return &appCtx, nil
}

// runGenerateStep は GenerateStoryRunner を使って物語を生成し保存するのだ
func runGenerateStep(ctx context.Context, appCtx *builder.AppContext) (domain.Story, error) {
	storyPipeline := builder.BuildStoryPipeline(appCtx, func(label string) {
		fmt.Println(label)
	})

	storyRunner := runner.NewGenerateStoryRunner(
		storyPipeline,
		builder.BuildStoryPublisher(),
		appCtx.Options,
	)

	story, err := storyRunner.Run(ctx)
	if err != nil {
		return domain.Story{}, fmt.Errorf("物語の生成に失敗したのだ: %w", err)
	}
	return story, nil
}
