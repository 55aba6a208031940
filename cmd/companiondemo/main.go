// Command companiondemo runs the companion cue scheduler against a terminal
// UI instead of speaker hardware. Keys stand in for the producers a device
// would have: a wake-word detector, microphone toggles, a network monitor,
// and a speech agent emitting emotion tags. The expression renderer draws
// into the UI and playback runs on the headless device, so the full
// admission/queue/worker path is exercised without audio output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	companion "github.com/okvist/companion-core/core"
	"github.com/okvist/companion-core/core/connectivity/httpprobe"
	"github.com/okvist/companion-core/core/events"
	"github.com/okvist/companion-core/core/expression"
)

// uiRenderer forwards expression updates into the running TUI.
type uiRenderer struct {
	program *tea.Program
}

func (r *uiRenderer) ShowEmotion(emotion expression.Emotion) {
	r.program.Send(expressionMsg{emotion: string(emotion)})
}

func (r *uiRenderer) ShowSystemIcon(icon expression.Icon) {
	r.program.Send(expressionMsg{icon: string(icon)})
}

func main() {
	probeURL := flag.String("probe", "", "URL to probe for connectivity instead of the n key toggle")
	flag.Parse()

	renderer := &uiRenderer{}
	buddy := companion.New(companion.WithExpressionRenderer(renderer))
	defer buddy.Close()

	model := newModel(buddy, *probeURL != "")
	program := tea.NewProgram(model, tea.WithAltScreen())
	renderer.program = program

	err := buddy.Begin(context.Background(),
		companion.WithEventCallback(func(event events.Event) {
			program.Send(companionEventMsg{event: event})
		}),
	)
	if err != nil {
		log.Fatalf("failed to begin companion: %v", err)
	}

	if *probeURL != "" {
		prober := httpprobe.NewProber(*probeURL)
		defer prober.Close()
		prober.Watch(context.Background(), func(connected bool) {
			buddy.OnConnectivityChanged(connected)
			program.Send(connectivityMsg{connected: connected})
		})
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "demo exited with error: %v\n", err)
		os.Exit(1)
	}
}
