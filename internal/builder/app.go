package builder

import (
	"github.com/sriharshamittapalli/AI-Story-Generator/internal/config"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/generator"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する。
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（テーマ、保存先など）。
	Model   generator.ContentModel // Modelは、Geminiとの通信に使う共通クライアントです。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config, model generator.ContentModel) AppContext {
	return AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Model:   model,
	}
}
