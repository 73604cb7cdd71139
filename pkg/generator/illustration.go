package generator

import (
	"context"
	"fmt"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	"google.golang.org/genai"
)

// fallbackMimeType は、バックエンドがメディアタイプを省略した場合の既定値です。
const fallbackMimeType = "image/png"

// IllustrationGenerator は場面の文から挿絵を1枚ずつ生成するコンポーネントです。
// 2枚目以降は直前の挿絵をインラインの条件付け入力として添付し、
// キャラクターと画風の一貫性を保ちます。そのためシーン間の生成は厳密に逐次です。
type IllustrationGenerator struct {
	model       ContentModel
	modelName   string
	stylePrompt string
}

// NewIllustrationGenerator は IllustrationGenerator を構築します。
// stylePrompt は全シーン共通で適用する画風（スタイル）の指示です。
func NewIllustrationGenerator(model ContentModel, modelName, stylePrompt string) *IllustrationGenerator {
	return &IllustrationGenerator{
		model:       model,
		modelName:   modelName,
		stylePrompt: stylePrompt,
	}
}

// Generate は1シーン分の挿絵を生成します。index が0より大きい場合、
// prev（直前のシーンの挿絵）を条件付け入力としてリクエストに含めるのだ。
// 応答に画像フラグメントが1つもなければ ImageGenerationError を返す。
func (ig *IllustrationGenerator) Generate(ctx context.Context, sentence string, prev *domain.Image, index int) (domain.Image, error) {
	parts := make([]*genai.Part, 0, 2)
	if index > 0 {
		if prev == nil || prev.IsEmpty() {
			return domain.Image{}, fmt.Errorf("シーン%dには条件付け用の前シーン画像が必要なのだ", index+1)
		}
		// 生バイト列とメディアタイプをそのままインライン入力として渡す
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     prev.Data,
				MIMEType: prev.MimeType,
			},
		})
		parts = append(parts, &genai.Part{Text: continuationPrompt(sentence)})
	} else {
		parts = append(parts, &genai.Part{Text: firstScenePrompt(sentence, ig.stylePrompt)})
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}
	cfg := &genai.GenerateContentConfig{
		// 画像とテキストの両モダリティを受け付ける必要があるのだ
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	resp, err := ig.model.GenerateContent(ctx, ig.modelName, contents, cfg)
	if err != nil {
		return domain.Image{}, &domain.ImageGenerationError{SceneIndex: index, Err: err}
	}

	// 応答の中から、インライン画像データを持つ最初のフラグメントを選ぶ
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = fallbackMimeType
			}
			return domain.Image{Data: part.InlineData.Data, MimeType: mimeType}, nil
		}
	}

	return domain.Image{}, &domain.ImageGenerationError{SceneIndex: index}
}
