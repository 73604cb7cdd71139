package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"

	"github.com/shouni/go-utils/urlpath"
)

// Options は成果物の保存先の設定です。
type Options struct {
	StoryFile string // 物語全体（境界表現のJSON）の保存先
	ImageDir  string // シーン画像を個別に書き出すディレクトリ
}

// StoryPublisher は完成した物語をローカルの成果物として書き出すコンポーネントです。
// story.json には各シーンがデータURIに畳み込まれた自己完結の表現が入り、
// 画像は確認しやすいように1枚ずつ個別ファイルにも展開するのだ。
type StoryPublisher struct{}

// NewStoryPublisher は StoryPublisher を構築します。
func NewStoryPublisher() *StoryPublisher {
	return &StoryPublisher{}
}

// Publish は story.json とシーン画像を書き出します。
func (p *StoryPublisher) Publish(ctx context.Context, story domain.Story, opts Options) error {
	if err := p.writeStoryFile(story, opts.StoryFile); err != nil {
		return err
	}
	if err := p.writeSceneImages(story, opts.ImageDir); err != nil {
		return err
	}
	slog.Info("成果物の保存が完了したのだ", "story_file", opts.StoryFile, "image_dir", opts.ImageDir)
	return nil
}

// writeStoryFile は物語全体を境界表現のJSONとして保存します。
func (p *StoryPublisher) writeStoryFile(story domain.Story, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗したのだ: %w", err)
	}
	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return fmt.Errorf("物語のJSON変換に失敗したのだ: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("story.jsonの保存に失敗したのだ: %w", err)
	}
	return nil
}

// writeSceneImages は各シーンの挿絵を scene_1.png のような連番ファイルへ展開します。
func (p *StoryPublisher) writeSceneImages(story domain.Story, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("画像ディレクトリの作成に失敗したのだ: %w", err)
	}
	for i, scene := range story.Scenes {
		base, err := urlpath.ResolvePath(dir, "scene"+extensionFor(scene.Image.MimeType))
		if err != nil {
			return fmt.Errorf("画像パスの解決に失敗したのだ: %w", err)
		}
		path, err := urlpath.GenerateIndexedPath(base, i+1)
		if err != nil {
			return fmt.Errorf("画像パスの連番生成に失敗したのだ: %w", err)
		}
		if err := os.WriteFile(path, scene.Image.Data, 0644); err != nil {
			return fmt.Errorf("シーン%dの画像保存に失敗したのだ: %w", i+1, err)
		}
	}
	return nil
}

// Load は保存済みの story.json を読み込み、内部表現へ復元します。
// シーン数が揃っていない保存物は不正として拒否するのだ。
func (p *StoryPublisher) Load(path string) (domain.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Story{}, fmt.Errorf("story.json '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	var story domain.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return domain.Story{}, fmt.Errorf("story.json '%s' のデコードに失敗したのだ: %w", path, err)
	}
	if len(story.Scenes) != domain.SceneCount {
		return domain.Story{}, &domain.InvalidStoryError{
			Reason: fmt.Sprintf("saved story has %d scenes, want %d", len(story.Scenes), domain.SceneCount),
		}
	}
	return story, nil
}

// extensionFor はメディアタイプから拡張子を決めます。判定できなければ .png に倒すのだ。
func extensionFor(mimeType string) string {
	extensions, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(extensions) == 0 {
		return ".png"
	}
	return extensions[0]
}
