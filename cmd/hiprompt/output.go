package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"hiprompt/internal/domain"
	"hiprompt/internal/interfaces/http/rest/handlers"
	"hiprompt/internal/prompts"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8f98"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed")).Bold(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#dce0e5")).
			Padding(0, 1)
)

func stats(p domain.Prompt) string {
	return mutedStyle.Render(fmt.Sprintf("♥ %d  👁 %d", p.LikesCount, p.ViewsCount))
}

func tagsLine(t domain.Tags) string {
	if t.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, t.Count())
	for _, tag := range t.ToSlice() {
		parts = append(parts, tagStyle.Render("#"+tag))
	}
	return strings.Join(parts, " ")
}

func categoryName(p domain.Prompt) string {
	if p.Category == nil || p.Category.Name == "" {
		return ""
	}
	return p.Category.Name
}

func renderPromptLine(p domain.Prompt) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	if !p.IsPublic {
		b.WriteString(" " + mutedStyle.Render("(private)"))
	}
	b.WriteString("\n  " + mutedStyle.Render(p.ID) + "  by " + p.Author.DisplayName())
	if c := categoryName(p); c != "" {
		b.WriteString("  in " + c)
	}
	b.WriteString("  " + stats(p))
	if p.Description != nil && *p.Description != "" {
		b.WriteString("\n  " + *p.Description)
	}
	if tags := tagsLine(p.Tags); tags != "" {
		b.WriteString("\n  " + tags)
	}
	return b.String()
}

func renderFeed(w io.Writer, feed prompts.Feed) {
	if feed.Featured != nil {
		fmt.Fprintln(w, accentStyle.Render("Featured"))
		fmt.Fprintln(w, boxStyle.Render(renderPromptLine(*feed.Featured)))
		fmt.Fprintln(w)
	}
	if len(feed.Prompts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No prompts found."))
		return
	}
	for _, p := range feed.Prompts {
		fmt.Fprintln(w, renderPromptLine(p))
	}
}

func renderDetail(w io.Writer, d prompts.Detail) {
	p := d.Prompt
	fmt.Fprintln(w, renderPromptLine(p))
	fmt.Fprintln(w, boxStyle.Render(p.Content))

	liked := "not liked"
	if d.Liked {
		liked = "liked"
	}
	line := mutedStyle.Render("You have " + liked + " this prompt.")
	if d.CanMutate {
		line += " " + mutedStyle.Render("You can edit or delete it.")
	}
	fmt.Fprintln(w, line)
}

func renderProfile(w io.Writer, v prompts.ProfileView) {
	name := v.Identity.FullName
	if v.Profile != nil && v.Profile.FullName != nil && *v.Profile.FullName != "" {
		name = *v.Profile.FullName
	}
	if name == "" {
		name = v.Identity.Email
	}
	fmt.Fprintln(w, accentStyle.Render(name)+" "+mutedStyle.Render(v.Identity.Email))
	fmt.Fprintf(w, "%d prompts (%d public, %d private)  ♥ %d  👁 %d\n\n",
		v.Stats.PromptCount, v.Stats.PublicCount, v.Stats.PrivateCount, v.Stats.TotalLikes, v.Stats.TotalViews)

	fmt.Fprintln(w, titleStyle.Render(tabTitle(v.Visibility)))
	if len(v.Prompts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nothing here yet."))
		return
	}
	for _, p := range v.Prompts {
		fmt.Fprintln(w, renderPromptLine(p))
	}
}

func tabTitle(v domain.Visibility) string {
	if v == domain.VisibilityPrivate {
		return "Private prompts"
	}
	return "Public prompts"
}

func renderSession(w io.Writer, s domain.Session) {
	if !s.IsAuthenticated() {
		fmt.Fprintln(w, "Not signed in.")
	} else {
		name := s.Identity.FullName
		if name == "" {
			name = s.Identity.Email
		}
		fmt.Fprintf(w, "Signed in as %s <%s>\n", accentStyle.Render(name), s.Identity.Email)
	}
	fmt.Fprintln(w, mutedStyle.Render("Actions: "+strings.Join(handlers.NavActions(s), ", ")))
}

// secretReader reads passwords, masked when stdin is a terminal.
type secretReader struct {
	in  io.Reader
	out io.Writer
	buf *bufio.Reader
}

func newSecretReader(in io.Reader, out io.Writer) *secretReader {
	return &secretReader{in: in, out: out, buf: bufio.NewReader(in)}
}

func (r *secretReader) Ask(label string) (string, error) {
	fmt.Fprintf(r.out, "%s: ", label)
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	line, err := r.buf.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
