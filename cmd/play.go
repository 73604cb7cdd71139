package cmd

import (
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/pipeline"

	"github.com/spf13/cobra"
)

// playCmd は、物語をナレーション付きスライドショーとして再生するのだ。
// テーマを渡せば生成から一気に鑑賞まで進み、渡さなければ保存済みの物語を開くのだ。
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "物語をナレーション付きで再生するのだ。",
	Long: `物語をシーンごとに表示しながら、読み上げコマンドでナレーションを流すのだ。
--theme を指定すると新しい物語を生成してからすぐに再生が始まるのだ。
指定しなければ --story-file の保存済み物語を読み込むのだよ。
再生中以外は n / p でシーンを行き来できて、r でナレーションをやり直せるのだ。`,
	RunE: playCommand,
}

func playCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	if opts.Theme != "" {
		slog.Info("生成してそのまま再生するのだ！", "theme", opts.Theme)
	} else {
		slog.Info("保存済みの物語を開くのだ", "story", opts.StoryFile)
	}

	return pipeline.ExecutePlay(ctx, cfg)
}
