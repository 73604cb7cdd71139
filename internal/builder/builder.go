package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/prompt"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/generator"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/pipeline"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/playback"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/publisher"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/speech"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/video"

	"google.golang.org/genai"
)

// genaiModel は genai クライアントを generator.ContentModel に適合させる薄いアダプターなのだ。
type genaiModel struct {
	client *genai.Client
}

func (m *genaiModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// InitializeAIClient は genai クライアントを初期化し、ContentModel として返すのだ。
func InitializeAIClient(ctx context.Context, apiKey string) (generator.ContentModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return &genaiModel{client: client}, nil
}

// BuildStoryPipeline は台本生成と挿絵生成を束ねたパイプラインを構築します。
// progress には各ステージ開始時の進捗ラベルが流れます。
func BuildStoryPipeline(appCtx *AppContext, progress pipeline.ProgressFunc) *pipeline.StoryPipeline {
	narrative := generator.NewNarrativeGenerator(
		appCtx.Model,
		appCtx.Config.GeminiModel,
		prompt.BuildNarrativePrompt,
	)
	illustrator := generator.NewIllustrationGenerator(
		appCtx.Model,
		appCtx.Config.GeminiImageModel,
		appCtx.Config.IllustrationStyle,
	)
	return pipeline.New(narrative, illustrator, progress)
}

// BuildSynthesizer は環境に応じた音声合成エンジンを構築するのだ。
// --voice-command / NARRATION_COMMAND の上書きを最優先し、
// なければ PATH から読み上げコマンドを探す。
func BuildSynthesizer(appCtx *AppContext) (playback.Synthesizer, error) {
	override := appCtx.Options.VoiceCommand
	if override == "" {
		override = appCtx.Config.NarrationCommand
	}

	command, args, err := speech.LookupCommand(override)
	if err != nil {
		return nil, fmt.Errorf("音声合成エンジンが見つからないのだ: %w", err)
	}

	// edge-tts のような合成専用コマンドはファイル経由の二段再生にするのだ
	if command == "edge-tts" {
		slog.Info("ファイル合成型のエンジンを使うのだ", "synth", command, "player", "ffplay")
		return speech.NewFileSynthesizer(command, "ffplay", config.DefaultAudioWorkDir), nil
	}

	slog.Info("読み上げコマンドが見つかったのだ", "command", command)
	return speech.NewCommandSynthesizer(command, args...), nil
}

// BuildPlaybackController はナレーション再生の状態機械を構築します。
// onScene は表示中シーンの同期用フックです。
func BuildPlaybackController(synth playback.Synthesizer, scenes []domain.Scene, onScene func(int)) *playback.Controller {
	return playback.NewController(scenes, synth, onScene)
}

// BuildStoryPublisher は成果物保存コンポーネントを構築します。
func BuildStoryPublisher() *publisher.StoryPublisher {
	return publisher.NewStoryPublisher()
}

// BuildVideoExporter は動画書き出しコンポーネントを構築します。
func BuildVideoExporter(appCtx *AppContext) *video.Exporter {
	return video.NewExporter(video.ExecFFmpegRunner{}, appCtx.Options.SceneDuration)
}
