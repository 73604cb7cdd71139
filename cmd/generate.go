package cmd

import (
	"fmt"
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、テーマから物語の台本と挿絵を生成して保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "テーマから3シーンの物語と挿絵を生成するのだ。",
	Long: `指定されたテーマをもとに、AIが3シーンの物語を生成するのだ。
各シーンにはひとつの文章と、前のシーンの絵柄を引き継いだ挿絵が付くのだよ。
成果物は物語JSONと挿絵画像としてローカルに保存されるのだ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Theme == "" {
		return fmt.Errorf("物語のテーマ（--theme）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("物語生成パイプラインを起動するのだ！",
		"theme", opts.Theme,
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"output", opts.StoryFile)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
