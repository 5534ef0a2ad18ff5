package ui

import (
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#2563EB", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	tab   lipgloss.Style
	cur   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		tab:   NewStyle(h).Padding(0, 1),
		cur:   NewBold(t).Padding(0, 1).Underline(true),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// status colors a job or source status.
func (p *Palette) status(s string) string {
	switch s {
	case models.JobActive, models.JobCompleted:
		return p.ok.Render(s)
	case models.JobFailed, models.SourceError:
		return p.err.Render(s)
	case models.JobPaused, models.SourcePending, models.SourceInactive:
		return p.warn.Render(s)
	default:
		return s
	}
}
