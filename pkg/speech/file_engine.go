package speech

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// renderedAudioTTL はセッション内で合成済み音声を使い回す期間です。
	// リプレイのたびに同じ3文を合成し直すのはもったいないのだ。
	renderedAudioTTL     = 30 * time.Minute
	renderedAudioCleanup = 1 * time.Hour
)

// FileSynthesizer は「ファイルへ合成してからプレイヤーで再生する」二段構えのエンジンです。
// edge-tts のような合成コマンドと、ffplay のような再生コマンドを組み合わせます。
// 合成結果は文章ごとに go-cache へ記録し、同一セッション内の再読み上げでは
// 合成ステップを丸ごと飛ばすのだ。
type FileSynthesizer struct {
	synthCommand string
	player       string
	playerArgs   []string
	workDir      string
	rendered     *cache.Cache

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewFileSynthesizer は FileSynthesizer を構築します。
// workDir には中間音声ファイルが書き出されます。
func NewFileSynthesizer(synthCommand, player, workDir string) *FileSynthesizer {
	return &FileSynthesizer{
		synthCommand: synthCommand,
		player:       player,
		playerArgs:   []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
		workDir:      workDir,
		rendered:     cache.New(renderedAudioTTL, renderedAudioCleanup),
	}
}

// Speak は文章を音声ファイルへ合成し、そのファイルを最後まで再生します。
func (s *FileSynthesizer) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	speakCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	path, err := s.render(speakCtx, text)
	if err != nil {
		if speakCtx.Err() != nil {
			return speakCtx.Err()
		}
		return err
	}

	args := append(append([]string{}, s.playerArgs...), path)
	cmd := exec.CommandContext(speakCtx, s.player, args...)
	if err := cmd.Run(); err != nil {
		if speakCtx.Err() != nil {
			return speakCtx.Err()
		}
		return fmt.Errorf("音声の再生に失敗したのだ: %w", err)
	}
	return nil
}

// Cancel は進行中の合成・再生をベストエフォートで打ち切ります。
func (s *FileSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// render は文章を音声ファイルへ合成し、そのパスを返します。キャッシュ命中時は合成を省くのだ。
func (s *FileSynthesizer) render(ctx context.Context, text string) (string, error) {
	key := utteranceKey(text)
	if cached, ok := s.rendered.Get(key); ok {
		path := cached.(string)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// ファイルだけ消えていたら作り直すのだ
		s.rendered.Delete(key)
	}

	if err := os.MkdirAll(s.workDir, 0755); err != nil {
		return "", fmt.Errorf("音声作業ディレクトリの作成に失敗したのだ: %w", err)
	}
	path := filepath.Join(s.workDir, key+".mp3")

	cmd := exec.CommandContext(ctx, s.synthCommand, "--text", text, "--write-media", path)
	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("音声の合成に失敗したのだ: %w", err)
	}

	s.rendered.SetDefault(key, path)
	return path, nil
}

// utteranceKey は発話内容から決定論的なキャッシュキーを生成します。
func utteranceKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("utterance_%x", sum[:8])
}
