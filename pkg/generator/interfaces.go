package generator

import (
	"context"

	"google.golang.org/genai"
)

// ContentModel は Gemini バックエンドとの通信に使う最小限のインターフェースです。
// 本番では genai クライアントの薄いアダプターが入り、テストではフェイクに差し替えます。
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// PromptFunc はテーマ文字列から台本生成の指示文を組み立てる関数です。
type PromptFunc func(theme string) (string, error)
