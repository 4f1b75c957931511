package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bitlit/internal/ui/theme"
)

// ChatInput wraps bubbles/textinput for the tutor prompt. While disabled
// keystrokes are dropped so nothing is typed during a turn in flight.
type ChatInput struct {
	Model    textinput.Model
	disabled bool
}

// NewChatInput creates a focused input.
func NewChatInput(placeholder string, charLimit int) ChatInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return ChatInput{Model: ti}
}

// Init returns the initial command.
func (c ChatInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages.
func (c ChatInput) Update(msg tea.Msg) (ChatInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && c.disabled {
		return c, nil
	}
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the input.
func (c ChatInput) View() string {
	if c.disabled {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(c.Model.View())
	}
	return c.Model.View()
}

// SetPlaceholder replaces the placeholder text.
func (c *ChatInput) SetPlaceholder(s string) { c.Model.Placeholder = s }

// SetDisabled toggles whether keystrokes are accepted.
func (c *ChatInput) SetDisabled(v bool) { c.disabled = v }

// Value returns the current input value.
func (c ChatInput) Value() string {
	return c.Model.Value()
}

// Reset clears the input.
func (c *ChatInput) Reset() {
	c.Model.Reset()
}
