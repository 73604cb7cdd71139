package cmd

import (
	"fmt"
	"os"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// opts は各サブコマンドで共有される実行時オプションなのだ。
var opts config.GenerateOptions

// rootCmd は、アプリケーション全体の親コマンドなのだ。
var rootCmd = &cobra.Command{
	Use:   "ai-story-generator",
	Short: "テーマから3シーンの物語を生み出す対話型ストーリーテラーなのだ。",
	Long: `ひとつのテーマを受け取り、AIで3シーンの物語（台本と挿絵）を生成するのだ。
生成した物語はナレーション付きで再生したり、1本の動画に書き出したりできるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 入出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Theme, "theme", "t", "", "物語のテーマなのだ（例: 'a brave little fox'）。")
	rootCmd.PersistentFlags().StringVarP(&opts.StoryFile, "story-file", "f", config.DefaultStoryFile, "物語JSONの保存パスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ImageDir, "image-dir", "i", config.DefaultImageDir, "挿絵を保存するディレクトリなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.VideoFile, "video-file", "o", config.DefaultVideoFile, "書き出す動画のパスなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "台本生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "挿絵生成に使う Gemini モデル名なのだ。")

	// --- 再生・書き出し制御 ---
	rootCmd.PersistentFlags().StringVar(&opts.VoiceCommand, "voice-command", "", "ナレーションに使う読み上げコマンドなのだ（未指定なら自動検出）。")
	rootCmd.PersistentFlags().BoolVar(&opts.NoAutoplay, "no-autoplay", false, "表示直後の自動ナレーションを無効にするのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.SceneDuration, "scene-duration", config.DefaultSceneDuration, "動画内で1シーンを表示する長さなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// export と保存済み物語の再生は AI を使わないので API キーは要らないのだ
	if cmd.Name() == "export" || (cmd.Name() == "play" && opts.Theme == "") {
		return nil
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	// .env があれば読み込むのだ。無くてもエラーにはしないのだよ
	_ = godotenv.Load()

	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, playCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
