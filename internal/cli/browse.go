package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sourceflow/pkg/chart"
	"github.com/matzehuels/sourceflow/pkg/source"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive source key picker
// that renders the selected key's diagram.
func (c *CLI) browseCommand() *cobra.Command {
	var store storeOpts

	cmd := &cobra.Command{
		Use:   "browse [config]",
		Short: "Interactively pick a source key and render its diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runBrowse(cmd.Context(), path, store)
		},
	}
	store.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, path string, store storeOpts) error {
	config, err := c.loadConfig(ctx, path, store)
	if err != nil {
		return err
	}

	model := newKeyListModel(config)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}

	selected := final.(keyListModel).Selected
	if selected == "" {
		printInfo("no source selected")
		return nil
	}

	markup, err := chart.Markup(config, selected)
	if err != nil {
		return err
	}
	fmt.Println(markup)
	return nil
}

// =============================================================================
// keyListModel - Interactive source key selection
// =============================================================================

// keyListModel is the bubbletea model for source key selection.
type keyListModel struct {
	Keys     []string
	Kinds    []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// newKeyListModel builds the model from a config, keys sorted with their
// kind labels alongside.
func newKeyListModel(config source.Config) keyListModel {
	keys := config.Keys()
	kinds := make([]string, len(keys))
	for i, key := range keys {
		kinds[i] = config.KindLabel(key)
	}
	return keyListModel{
		Keys:   keys,
		Kinds:  kinds,
		Height: 15,
	}
}

func (m keyListModel) Init() tea.Cmd {
	return nil
}

func (m keyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Keys)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Keys) > 0 {
				m.Selected = m.Keys[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m keyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Source"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Keys) {
		end = len(m.Keys)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.Keys[i]) + " " + listDimStyle.Render(m.Kinds[i]))
		b.WriteString("\n")
	}

	if len(m.Keys) == 0 {
		b.WriteString(listDimStyle.Render("(no sources in config)"))
		b.WriteString("\n")
	}

	return b.String()
}
