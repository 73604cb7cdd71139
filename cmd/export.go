package cmd

import (
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、保存済みの物語を1本の動画ファイルに書き出すのだ。
// 各シーンの挿絵を一定時間ずつ表示し、文章を字幕として焼き込むのだよ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "保存済みの物語を動画に書き出すのだ。",
	Long: `--story-file の物語JSONを読み込み、シーンごとの挿絵と字幕を合成して
1本のMP4動画として書き出すのだ。エンコードにはシステムの ffmpeg を使うのだよ。`,
	RunE: exportCommand,
}

func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("動画書き出しモードを起動するのだ！",
		"input_json", opts.StoryFile,
		"output_video", opts.VideoFile,
		"scene_duration", opts.SceneDuration.String())

	return pipeline.ExecuteExport(ctx, cfg)
}
