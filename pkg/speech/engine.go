package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync"
)

// ErrNoEngine は利用可能な音声合成コマンドが見つからなかったことを示します。
var ErrNoEngine = errors.New("no speech synthesis command available")

// defaultCommands は PATH から探す読み上げコマンドの候補（優先順）なのだ。
var defaultCommands = []string{"say", "espeak-ng", "espeak"}

// LookupCommand は利用する読み上げコマンドを決定します。
// override が空でなければそれを空白区切りで解釈し、
// 空なら既定の候補を PATH から順に探すのだ。
func LookupCommand(override string) (string, []string, error) {
	if fields := strings.Fields(override); len(fields) > 0 {
		return fields[0], fields[1:], nil
	}
	for _, candidate := range defaultCommands {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil, nil
		}
	}
	return "", nil, ErrNoEngine
}

// CommandSynthesizer は外部の音声合成コマンドを起動して文章を読み上げるエンジンです。
// テキストはコマンドの最終引数として渡されます（say / espeak の流儀）。
type CommandSynthesizer struct {
	command string
	args    []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandSynthesizer は CommandSynthesizer を構築します。
func NewCommandSynthesizer(command string, args ...string) *CommandSynthesizer {
	return &CommandSynthesizer{command: command, args: args}
}

// Speak は1つの発話を最後まで読み上げます。
// ctx の取り消し、または Cancel の呼び出しで進行中のプロセスを即座に終了させるのだ。
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	speakCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	args := append(slices.Clone(s.args), text)
	cmd := exec.CommandContext(speakCtx, s.command, args...)
	if err := cmd.Run(); err != nil {
		if speakCtx.Err() != nil {
			return speakCtx.Err()
		}
		return fmt.Errorf("音声合成コマンド %s の実行に失敗したのだ: %w", s.command, err)
	}
	return nil
}

// Cancel は進行中の発話をベストエフォートで打ち切ります。
// 打ち切られた発話の完了は保証されないし、待ち合わせもしないのだ。
func (s *CommandSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
