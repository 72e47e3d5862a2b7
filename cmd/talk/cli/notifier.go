// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/talkchat/talkchat/chatsync"
)

// Notifier renders chat core notices as one styled line each. Colors
// are dropped automatically when w is not a terminal.
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[chatsync.Kind]lipgloss.Style
	quiet  bool
}

// NewNotifier returns a Notifier writing to w. With quiet, info and
// success notices are suppressed; errors and sign-in prompts still show.
func NewNotifier(w io.Writer, quiet bool) *Notifier {
	renderer := lipgloss.NewRenderer(w)
	return &Notifier{
		w:     w,
		quiet: quiet,
		styles: map[chatsync.Kind]lipgloss.Style{
			chatsync.KindInfo:         renderer.NewStyle().Faint(true),
			chatsync.KindSuccess:      renderer.NewStyle().Foreground(lipgloss.Color("2")),
			chatsync.KindError:        renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			chatsync.KindAuthRequired: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		},
	}
}

var noticePrefixes = map[chatsync.Kind]string{
	chatsync.KindInfo:         "·",
	chatsync.KindSuccess:      "✓",
	chatsync.KindError:        "✗",
	chatsync.KindAuthRequired: "!",
}

// Notify implements chatsync.Notifier.
func (n *Notifier) Notify(kind chatsync.Kind, message string) {
	if n.quiet && (kind == chatsync.KindInfo || kind == chatsync.KindSuccess) {
		return
	}
	if kind == chatsync.KindAuthRequired {
		message += " (run 'talk login <username>')"
	}
	line := n.styles[kind].Render(noticePrefixes[kind] + " " + message)

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, line)
}
