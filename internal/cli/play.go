package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/player"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// frameInterval is the playback speed of the flow animation.
const frameInterval = 600 * time.Millisecond

// newPlayCmd creates the play command.
func newPlayCmd() *cobra.Command {
	var flowIndex int

	cmd := &cobra.Command{
		Use:   "play <spec>",
		Short: "Step a flow animation over the terminal preview",
		Long: `Play renders the computed grid and animates one of the document's
flows over it, lighting the routed link cells keyframe by keyframe.

Keys: space pauses, n steps one keyframe, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, root, err := simulate(args[0])
			if err != nil {
				return err
			}

			p, err := player.New(root, s, flowIndex)
			if err != nil {
				return err
			}

			m := playModel{sim: s, player: p}
			prog := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&flowIndex, "flow", 0, "index of the flow to play")
	return cmd
}

// tickMsg advances the animation.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// playModel is the bubbletea model for flow playback.
type playModel struct {
	sim    *sim.Simulator
	player *player.Player
	paused bool
}

func (m playModel) Init() tea.Cmd {
	return tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			m.player.Advance()
		}
	case tickMsg:
		if !m.paused {
			m.player.Advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m playModel) View() string {
	active := make(map[grid.Point]bool)
	for _, c := range m.player.ActiveCells() {
		active[c] = true
	}

	status := fmt.Sprintf("keyframe %d/%d", m.player.Keyframe(), m.player.MaxKeyframe())
	if m.paused {
		status += "  (paused)"
	}

	return StyleTitle.Render("Flow playback") + "\n" +
		StyleDim.Render("space pause  n step  q quit  ·  "+status) + "\n\n" +
		renderGrid(m.sim, active)
}
