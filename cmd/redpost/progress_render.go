package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/events"
)

const barWidth = 30

var phaseLabels = map[domain.Phase]string{
	domain.PhaseIdle:            "等待中",
	domain.PhaseGeneratingText:  "正在撰写文案",
	domain.PhaseGeneratingCover: "正在生成封面",
	domain.PhaseDone:            "完成",
	domain.PhaseFailed:          "失败",
}

// progressSource is satisfied by events.InMemoryEventEmitter.
type progressSource interface {
	Subscribe(buffer int) (<-chan *events.ProgressEvent, func())
}

// renderProgress draws a progress bar on w for every event until the
// returned stop function is called. stop waits for the renderer to exit.
func renderProgress(src progressSource, w io.Writer) func() {
	ch, cancel := src.Subscribe(16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		drawn := false
		for event := range ch {
			if event.Phase == domain.PhaseIdle {
				continue
			}
			fmt.Fprintf(w, "\r%s", progressLine(event.State()))
			drawn = true
			// A finished run keeps its line; the next run starts below it.
			if event.Phase.Terminal() {
				fmt.Fprintln(w)
				drawn = false
			}
		}
		if drawn {
			fmt.Fprintln(w)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// progressLine renders one state, e.g. "[#########.....]  60% 正在生成封面".
func progressLine(state domain.ProgressState) string {
	percent := min(max(state.Percent, 0), 100)
	filled := percent * barWidth / 100
	label, ok := phaseLabels[state.Phase]
	if !ok {
		label = string(state.Phase)
	}
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled),
		strings.Repeat(".", barWidth-filled),
		percent,
		label)
}
