package playback

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
)

// State はナレーション再生の状態機械の状態です。
type State int

const (
	// StateIdle はまだ一度も再生が始まっていない初期状態です。
	StateIdle State = iota
	// StatePlaying はシーンを順に読み上げている最中の状態です。
	StatePlaying
	// StateStopped は再生完了・エラー・打ち切りのいずれかで停止した状態です。
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Synthesizer は音声合成エンジンへの最小インターフェースです。
// Speak は1つの発話を最後まで読み上げ、ctx の取り消しで即座に中断します。
// Cancel は進行中の発話をベストエフォートで打ち切ります。
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

// Controller は1つの Story に対するナレーション再生を駆動する状態機械です。
// 入れ子のコールバックではなく、取り消しトークンつきの明示的な逐次ループとして
// 実装しているのだ。システム全体で同時に有効なナレーションストリームは1本だけで、
// 新しい再生の開始は必ず先行ストリームの打ち切りから始まる。
type Controller struct {
	mu      sync.Mutex
	scenes  []domain.Scene
	synth   Synthesizer
	onScene func(index int)

	state         State
	index         int
	hasPlayedOnce bool

	// gen は有効なストリームの世代番号。打ち切られた古いループが
	// 完了コールバック経由で状態を上書きしないための防壁なのだ。
	gen    uint64
	cancel context.CancelFunc
}

// NewController は1つの物語に対する Controller を構築します。
// onScene は表示中シーンの同期用フックで、nil でも構いません。
func NewController(scenes []domain.Scene, synth Synthesizer, onScene func(index int)) *Controller {
	return &Controller{
		scenes:  scenes,
		synth:   synth,
		onScene: onScene,
		state:   StateIdle,
	}
}

// Play はシーン0から順にナレーションを再生し、最後のシーンの読み上げ完了まで
// ブロックします。開始時に進行中のナレーションを必ず打ち切ってから始めるのだ。
// 各シーンは読み上げ開始時に表示中シーンとして同期され、あるシーンでの合成失敗は
// 以降のシーンを読み上げずに再生を停止します（リトライなし）。
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.synth.Cancel()
	playCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.state = StatePlaying
	c.mu.Unlock()
	defer cancel()

	for i := range c.scenes {
		// 取り消しトークンは各イテレーションの間で確認するのだ
		if err := playCtx.Err(); err != nil {
			return err
		}
		c.setScene(gen, i)
		if err := c.synth.Speak(playCtx, c.scenes[i].Text); err != nil {
			if playCtx.Err() != nil {
				// 打ち切られたシーンの完了は当てにしない。状態も更新しないのだ。
				return playCtx.Err()
			}
			c.finish(gen, false)
			slog.Warn("ナレーションの合成に失敗したので再生を停止するのだ", "scene", i+1, "error", err)
			return &domain.SpeechSynthesisError{SceneIndex: i, Err: err}
		}
	}

	c.finish(gen, true)
	return nil
}

// Stop は進行中のナレーションを無条件に打ち切ります。
// ビューアの破棄（物語の差し替えやセッション終了）時のクリーンアップでも呼ばれます。
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.state = StateStopped
	c.mu.Unlock()
	c.synth.Cancel()
}

// Next は次のシーンへ進み、移動後の表示中インデックスを返します。
// 再生中は無効で、末尾で打ち止め（ラップアラウンドなし）です。
func (c *Controller) Next() int {
	return c.navigate(+1)
}

// Previous は前のシーンへ戻り、移動後の表示中インデックスを返します。
// 再生中は無効で、先頭で打ち止めです。
func (c *Controller) Previous() int {
	return c.navigate(-1)
}

func (c *Controller) navigate(delta int) int {
	c.mu.Lock()
	if c.state == StatePlaying {
		i := c.index
		c.mu.Unlock()
		return i
	}
	next := c.index + delta
	if next < 0 {
		next = 0
	}
	if max := len(c.scenes) - 1; next > max {
		next = max
	}
	moved := next != c.index
	c.index = next
	cb := c.onScene
	c.mu.Unlock()

	if moved && cb != nil {
		cb(next)
	}
	return next
}

// State は現在の状態を返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SceneIndex は表示中シーンのインデックスを返します。
func (c *Controller) SceneIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// HasPlayedOnce は再生が少なくとも一度最後まで完了したかを返します。
// 停止後のリプレイ操作を出すかどうかの判定に使うのだ。
func (c *Controller) HasPlayedOnce() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPlayedOnce
}

// setScene は自分がまだ有効なストリームである場合に限り、表示中シーンを更新します。
func (c *Controller) setScene(gen uint64, index int) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.index = index
	cb := c.onScene
	c.mu.Unlock()

	if cb != nil {
		cb(index)
	}
}

// finish は自分がまだ有効なストリームである場合に限り、停止状態へ遷移します。
func (c *Controller) finish(gen uint64, completed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.state = StateStopped
	if completed {
		c.hasPlayedOnce = true
	}
}
