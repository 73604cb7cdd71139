package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultImageModel    = "gemini-2.5-flash-image-preview"
	DefaultSceneDuration = 5 * time.Second
	DefaultStoryFile     = "output/story.json"  // 生成した物語の保存先なのだ
	DefaultImageDir      = "output/images"      // 生成した挿絵の保存先なのだ
	DefaultVideoFile     = "output/story.mp4"   // 書き出した動画の保存先なのだ
	DefaultAudioWorkDir  = "output/audio"       // 合成済みナレーションの作業場所なのだ

	// DefaultIllustrationStyle は全シーン共通で適用する画風（スタイル）の指示です。
	DefaultIllustrationStyle = "vibrant storybook illustration, whimsical children's book art style, rich warm colors, soft lighting, clean composition, high detail, no text, no watermark"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	GeminiImageModel  string
	IllustrationStyle string
	NarrationCommand  string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		IllustrationStyle: envutil.GetEnv("ILLUSTRATION_STYLE", DefaultIllustrationStyle),
		NarrationCommand:  envutil.GetEnv("NARRATION_COMMAND", ""),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入出力関連
	Theme     string // --theme
	StoryFile string // --story-file
	ImageDir  string // --image-dir
	VideoFile string // --video-file

	// AI挙動設定
	AIModel    string // --model: テキスト生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 再生・書き出し制御
	VoiceCommand  string        // --voice-command
	NoAutoplay    bool          // --no-autoplay
	SceneDuration time.Duration // --scene-duration
}
