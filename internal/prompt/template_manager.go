package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
)

//go:embed narrative.md
var narrativeTemplate string

// templateData はテンプレートへ埋め込む値なのだ。
type templateData struct {
	Theme      string
	SceneCount int
}

// BuildNarrativePrompt は、テーマをテンプレートへそのまま埋め込んで
// 台本生成の指示文を組み立てるのだ。テーマは一語一句変えずに渡すのだよ。
func BuildNarrativePrompt(theme string) (string, error) {
	if strings.TrimSpace(theme) == "" {
		return "", fmt.Errorf("テーマが空なのだ。指示文を組み立てられないのだ")
	}

	tmpl, err := template.New("narrative").Parse(narrativeTemplate)
	if err != nil {
		return "", fmt.Errorf("テンプレートの解析に失敗したのだ: %w", err)
	}

	var b strings.Builder
	err = tmpl.Execute(&b, templateData{
		Theme:      theme,
		SceneCount: domain.SceneCount,
	})
	if err != nil {
		return "", fmt.Errorf("テンプレートの展開に失敗したのだ: %w", err)
	}
	return b.String(), nil
}
