package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/domain"
	"github.com/sriharshamittapalli/AI-Story-Generator/pkg/playback"
)

// PlayRunner は、完成した物語をナレーション付きスライドショーとして端末上で駆動するのだ。
// 表示はテキストベースで、音声は注入された Synthesizer が担当するのだよ。
type PlayRunner struct {
	story    domain.Story
	synth    playback.Synthesizer
	in       io.Reader
	out      io.Writer
	autoplay bool
}

// NewPlayRunner は PlayRunner の新しいインスタンスを生成して返すのだ。
func NewPlayRunner(story domain.Story, synth playback.Synthesizer, in io.Reader, out io.Writer, autoplay bool) *PlayRunner {
	return &PlayRunner{
		story:    story,
		synth:    synth,
		in:       in,
		out:      out,
		autoplay: autoplay,
	}
}

// Run はスライドショーを開始し、ユーザーが終了するまで操作を受け付けるのだ。
// ナレーションの失敗は再生を止めるだけで、物語と表示中シーンはそのまま残るのだ。
func (pr *PlayRunner) Run(ctx context.Context) error {
	ctrl := playback.NewController(pr.story.Scenes, pr.synth, pr.showScene)
	// ビューアを離れるときは、進行中のナレーションを無条件に打ち切るのだ
	defer ctrl.Stop()

	startPlayback := func() {
		go func() {
			err := ctrl.Play(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("ナレーションが途中で停止したのだ", "error", err)
			}
		}()
	}

	fmt.Fprintf(pr.out, "\n📖 %s\n", pr.story.Theme)
	if pr.autoplay {
		// 物語が最初に表示されたときは自動でナレーションが始まり、
		// シーン表示は再生側の同期フックに任せるのだ
		startPlayback()
	} else {
		pr.showScene(0)
	}

	pr.showHelp()
	scanner := bufio.NewScanner(pr.in)
	for {
		fmt.Fprint(pr.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "n", "next":
			if ctrl.State() == playback.StatePlaying {
				fmt.Fprintln(pr.out, "(ナレーション再生中は移動できないのだ)")
				continue
			}
			ctrl.Next()
		case "p", "prev":
			if ctrl.State() == playback.StatePlaying {
				fmt.Fprintln(pr.out, "(ナレーション再生中は移動できないのだ)")
				continue
			}
			ctrl.Previous()
		case "r", "replay":
			if ctrl.State() == playback.StatePlaying {
				fmt.Fprintln(pr.out, "(すでに再生中なのだ)")
				continue
			}
			startPlayback()
		case "q", "quit":
			return nil
		case "":
			continue
		default:
			pr.showHelp()
		}
	}
}

// showScene は表示中シーンを端末に描き出すのだ。ナレーションと同期して呼ばれるのだよ。
func (pr *PlayRunner) showScene(index int) {
	scene := pr.story.Scenes[index]
	fmt.Fprintf(pr.out, "\n━━━ Scene %d/%d ━━━\n%s\n", index+1, len(pr.story.Scenes), scene.Text)
}

func (pr *PlayRunner) showHelp() {
	fmt.Fprintln(pr.out, "[n]ext / [p]rev / [r]eplay / [q]uit")
}
