package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	"google.golang.org/genai"
)

// storySchema は台本の応答をJSONに拘束するスキーマなのだ。
// scenes 配列の各要素は sentence 1フィールドのみを必須とする。
var storySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scenes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"sentence": {Type: genai.TypeString},
				},
				Required: []string{"sentence"},
			},
		},
	},
	Required: []string{"scenes"},
}

// narrativeResponse はバックエンドが返すJSONペイロードの形です。
type narrativeResponse struct {
	Scenes []struct {
		Sentence string `json:"sentence"`
	} `json:"scenes"`
}

// NarrativeGenerator は自由入力のテーマから、1文ずつの場面描写を
// ちょうど domain.SceneCount 個生成するコンポーネントです。
type NarrativeGenerator struct {
	model     ContentModel
	modelName string
	prompt    PromptFunc
}

// NewNarrativeGenerator は NarrativeGenerator を構築します。
func NewNarrativeGenerator(model ContentModel, modelName string, prompt PromptFunc) *NarrativeGenerator {
	return &NarrativeGenerator{
		model:     model,
		modelName: modelName,
		prompt:    prompt,
	}
}

// Generate はテーマから場面の文を生成して返します。
// バックエンドが3場面未満しか返さなかった場合は InvalidStoryError、
// 3場面を超えた分は黙って切り捨てるのだ（寛容な切り詰めポリシー）。
func (ng *NarrativeGenerator) Generate(ctx context.Context, theme string) ([]string, error) {
	promptText, err := ng.prompt(theme)
	if err != nil {
		return nil, fmt.Errorf("指示文の組み立てに失敗したのだ: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   storySchema,
	}
	resp, err := ng.model.GenerateContent(ctx, ng.modelName, genai.Text(promptText), cfg)
	if err != nil {
		return nil, fmt.Errorf("台本の生成に失敗したのだ: %w", err)
	}

	return parseNarrative(resp.Text())
}

// parseNarrative は、AIが返したテキストからJSONを取り出して場面の文に変換するのだ。
func parseNarrative(raw string) ([]string, error) {
	// 余計な空白や、AIが付けがちなMarkdownタグ (```json ... ```) を取り除く処理なのだ
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	var payload narrativeResponse
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return nil, &domain.InvalidStoryError{Reason: fmt.Sprintf("response was not valid JSON: %v", err)}
	}
	if len(payload.Scenes) < domain.SceneCount {
		return nil, &domain.InvalidStoryError{
			Reason: fmt.Sprintf("expected %d scenes, got %d", domain.SceneCount, len(payload.Scenes)),
		}
	}

	// 先頭の3場面だけを採用する。超過はエラーではないのだ。
	sentences := make([]string, domain.SceneCount)
	for i := range sentences {
		sentences[i] = payload.Scenes[i].Sentence
	}
	return sentences, nil
}
