package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
)

func publishStory(t *testing.T) domain.Story {
	t.Helper()
	scenes := []domain.Scene{
		{Text: "S1.", Image: domain.Image{Data: []byte("img-1"), MimeType: "image/png"}},
		{Text: "S2.", Image: domain.Image{Data: []byte("img-2"), MimeType: "image/png"}},
		{Text: "S3.", Image: domain.Image{Data: []byte("img-3"), MimeType: "image/png"}},
	}
	story, err := domain.NewStory("theme", scenes)
	if err != nil {
		t.Fatalf("物語の構築に失敗したのだ: %v", err)
	}
	return story
}

func TestStoryPublisher_Publish(t *testing.T) {
	t.Run("story.jsonと連番画像が保存されるのだ", func(t *testing.T) {
		dir := t.TempDir()
		opts := Options{
			StoryFile: filepath.Join(dir, "out", "story.json"),
			ImageDir:  filepath.Join(dir, "out", "images"),
		}
		story := publishStory(t)

		if err := NewStoryPublisher().Publish(context.Background(), story, opts); err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		data, err := os.ReadFile(opts.StoryFile)
		if err != nil {
			t.Fatalf("story.jsonが読めないのだ: %v", err)
		}
		var decoded domain.Story
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("story.jsonのパースに失敗したのだ: %v", err)
		}
		if decoded.ID != story.ID || len(decoded.Scenes) != domain.SceneCount {
			t.Errorf("保存内容が一致しないのだ: %+v", decoded)
		}
		if !bytes.Equal(decoded.Scenes[1].Image.Data, []byte("img-2")) {
			t.Error("画像データが往復で失われたのだ")
		}

		for i := 1; i <= domain.SceneCount; i++ {
			path := filepath.Join(opts.ImageDir, "scene_"+string(rune('0'+i))+".png")
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("シーン%dの画像が保存されていないのだ: %v", i, err)
			}
			if !bytes.Equal(content, story.Scenes[i-1].Image.Data) {
				t.Errorf("シーン%dの画像内容が違うのだ", i)
			}
		}
	})
}

func TestStoryPublisher_Load(t *testing.T) {
	t.Run("保存した物語をそのまま読み戻せるのだ", func(t *testing.T) {
		dir := t.TempDir()
		opts := Options{
			StoryFile: filepath.Join(dir, "story.json"),
			ImageDir:  filepath.Join(dir, "images"),
		}
		story := publishStory(t)
		pub := NewStoryPublisher()

		if err := pub.Publish(context.Background(), story, opts); err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		loaded, err := pub.Load(opts.StoryFile)
		if err != nil {
			t.Fatalf("読み戻しに失敗したのだ: %v", err)
		}
		if loaded.Theme != story.Theme || len(loaded.Scenes) != domain.SceneCount {
			t.Errorf("読み戻した物語が一致しないのだ: %+v", loaded)
		}
		if !bytes.Equal(loaded.Scenes[2].Image.Data, story.Scenes[2].Image.Data) {
			t.Error("挿絵データが往復で失われたのだ")
		}
	})

	t.Run("シーン数が欠けた保存物は拒否されるのだ", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte(`{"id":"x","theme":"t","scenes":[]}`), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := NewStoryPublisher().Load(path)
		var invalidErr *domain.InvalidStoryError
		if !errors.As(err, &invalidErr) {
			t.Fatalf("InvalidStoryErrorが返るべきなのだ: %v", err)
		}
	})
}
