package domain

import "fmt"

// InvalidStoryError は、テキスト生成バックエンドが3シーンに満たない、
// もしくは解読できない台本を返したことを示します。
type InvalidStoryError struct {
	Reason string
}

func (e *InvalidStoryError) Error() string {
	return fmt.Sprintf("Failed to generate a valid story: %s", e.Reason)
}

// ImageGenerationError は、あるシーンの応答に画像フラグメントが
// 1つも含まれなかったことを示します。SceneIndex は 0 始まりです。
type ImageGenerationError struct {
	SceneIndex int
	Err        error
}

func (e *ImageGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Image generation failed for scene %d: %v", e.SceneIndex+1, e.Err)
	}
	return fmt.Sprintf("No image was generated for scene %d", e.SceneIndex+1)
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

// SpeechSynthesisError は、ナレーション再生があるシーンで失敗し、
// それ以降のシーンが読み上げられなかったことを示します。
type SpeechSynthesisError struct {
	SceneIndex int
	Err        error
}

func (e *SpeechSynthesisError) Error() string {
	return fmt.Sprintf("Speech synthesis failed at scene %d: %v", e.SceneIndex+1, e.Err)
}

func (e *SpeechSynthesisError) Unwrap() error { return e.Err }

// VideoExportError は、動画書き出しのいずれかの段階での失敗を示します。
// 部分的な出力は破棄済みであることが前提なのだ。
type VideoExportError struct {
	Stage string
	Err   error
}

func (e *VideoExportError) Error() string {
	return fmt.Sprintf("Video export failed (%s): %v", e.Stage, e.Err)
}

func (e *VideoExportError) Unwrap() error { return e.Err }
