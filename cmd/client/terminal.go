package main

import (
	"alumni-chat/domain/chat"
	"alumni-chat/projection"
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// terminal renders the live lists of one user on a plain text output.
type terminal struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
	userID  string
	view    projection.ListView
	items   []chat.PersistedItem
	query   string
	open    *chat.Profile
}

func newTerminal(out io.Writer, userID string, colours bool) *terminal {
	return &terminal{out: out, userID: userID, colours: colours}
}

func (t *terminal) setItems(items []chat.PersistedItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = items
	t.renderList()
}

func (t *terminal) setQuery(query string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query = query
	t.renderList()
}

func (t *terminal) setOpen(partner chat.Profile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = &partner
	t.renderList()
}

func (t *terminal) showList() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderList()
}

func (t *terminal) renderList() {
	visible := t.view.Compute(t.items, t.query, t.open, t.userID)

	t.header(fmt.Sprintf("  ====== Conversations (%d) ======", len(visible)))
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"", "Partner", "Last message", "At"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)

	for _, item := range visible {
		marker := ""
		if t.open != nil && item.Partner().ID == t.open.ID {
			marker = ">"
		}
		at := "draft"
		if _, ok := item.(chat.PersistedItem); ok {
			at = item.LastActivityAt().Local().Format("Jan 2 15:04")
		}
		table.Append([]string{marker, item.Partner().DisplayName, item.LastMessageText(), at})
	}
	table.Render()
}

func (t *terminal) showMessages(messages []chat.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := "conversation"
	if t.open != nil {
		name = t.open.DisplayName
	}
	t.header(fmt.Sprintf("  ====== %s ======", name))
	for _, m := range messages {
		line := fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format("15:04:05"), m.SenderID, m.Text)
		if t.colours && m.SenderID == t.userID {
			line = color.FgCyan.Render(line)
		}
		fmt.Fprintln(t.out, line)
	}
}

// Notify implements contract.Notifier.
func (t *terminal) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	line := "! " + message
	if t.colours {
		line = color.FgRed.Render(line)
	}
	fmt.Fprintln(t.out, line)
}

func (t *terminal) header(text string) {
	if t.colours {
		text = color.New(color.BgBlack, color.FgGreen).Render(text)
	}
	fmt.Fprintln(t.out, text)
}
