package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var fieldLabels = map[string]string{
	"name":          "Name",
	"sourceId":      "Source ID",
	"description":   "Description",
	"frequency":     "Frequency (manual/hourly/daily/weekly/monthly/custom)",
	"cron":          "Cron (custom only)",
	"timezone":      "Timezone",
	"retentionDays": "Retention days",
	"format":        "Format (json/csv)",
	"incremental":   "Incremental (true/false)",
}

// builderView drives a [wizard.JobBuilder] with one text input per field of the current step.
type builderView struct {
	wizard *wizard.JobBuilder
	fields []string
	inputs []textinput.Model
	focus  int
	err    error
	keys   keyMap
}

func newBuilderView(sourceID string) *builderView {
	b := &builderView{wizard: wizard.NewJobBuilder(), keys: newKeyMap()}
	if sourceID != "" {
		_ = b.wizard.Set("sourceId", sourceID)
	}
	b.loadStep()
	return b
}

// loadStep rebuilds the inputs for the current step, prefilled from the form.
func (b *builderView) loadStep() {
	b.fields = wizard.JobStepFields[b.wizard.Step()]
	b.inputs = make([]textinput.Model, len(b.fields))
	for i, f := range b.fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.SetValue(b.wizard.Value(f))
		b.inputs[i] = in
	}
	b.focus = 0
	b.focusInput()
}

func (b *builderView) focusInput() {
	for i := range b.inputs {
		if i == b.focus {
			b.inputs[i].Focus()
		} else {
			b.inputs[i].Blur()
		}
	}
}

// commit copies every input into the form.
func (b *builderView) commit() error {
	for i, f := range b.fields {
		if err := b.wizard.Set(f, b.inputs[i].Value()); err != nil {
			return err
		}
	}
	return nil
}

// update handles a key press. It returns the request once submitted, or cancel when the user backs out of
// the first step.
func (b *builderView) update(msg tea.KeyMsg) (req *models.CreateJobRequest, cancel bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.back):
		b.err = nil
		if !b.wizard.Back() {
			return nil, true, nil
		}
		b.loadStep()
		return nil, false, nil

	case msg.Type == tea.KeyEnter:
		if err := b.commit(); err != nil {
			b.err = err
			return nil, false, nil
		}
		if b.wizard.IsLast() {
			job, err := b.wizard.Submit()
			if err != nil {
				b.err = err
				b.loadStep()
				return nil, false, nil
			}
			return &job, false, nil
		}
		if err := b.wizard.Next(); err != nil {
			b.err = err
			return nil, false, nil
		}
		b.err = nil
		b.loadStep()
		return nil, false, nil

	case key.Matches(msg, b.keys.next) && len(b.inputs) > 0:
		b.focus = (b.focus + 1) % len(b.inputs)
		b.focusInput()
		return nil, false, nil

	case key.Matches(msg, b.keys.prev) && len(b.inputs) > 0:
		b.focus = (b.focus - 1 + len(b.inputs)) % len(b.inputs)
		b.focusInput()
		return nil, false, nil
	}

	if len(b.inputs) == 0 {
		return nil, false, nil
	}
	b.inputs[b.focus], cmd = b.inputs[b.focus].Update(msg)
	return nil, false, cmd
}

func (b *builderView) view() string {
	var s strings.Builder

	steps := make([]string, 0, b.wizard.StepCount())
	for i, title := range b.wizard.Titles() {
		if i+1 == b.wizard.Step() {
			steps = append(steps, styles.cur.Render(title))
		} else {
			steps = append(steps, styles.tab.Render(title))
		}
	}
	s.WriteString(styles.title.Render(fmt.Sprintf("New backup job · step %d/%d", b.wizard.Step(), b.wizard.StepCount())))
	s.WriteString("\n")
	s.WriteString(strings.Join(steps, " › "))
	s.WriteString("\n\n")

	errs := b.wizard.Errors()
	for i, f := range b.fields {
		cursor := "  "
		if i == b.focus {
			cursor = "> "
		}
		fmt.Fprintf(&s, "%s%s\n  %s\n", cursor, fieldLabels[f], b.inputs[i].View())
		if msg, ok := errs[f]; ok {
			s.WriteString("  " + styles.err.Render(msg) + "\n")
		}
	}

	if b.wizard.IsLast() {
		s.WriteString(b.review())
	}

	if b.err != nil && len(errs) == 0 {
		s.WriteString("\n" + styles.err.Render(b.err.Error()) + "\n")
	}
	return s.String()
}

func (b *builderView) review() string {
	job := b.wizard.Form()
	var s strings.Builder
	fmt.Fprintf(&s, "Name:       %s\n", job.Name)
	fmt.Fprintf(&s, "Source:     %s\n", job.SourceID)
	fmt.Fprintf(&s, "Type:       %s\n", job.Type)
	fmt.Fprintf(&s, "Schedule:   %s\n", job.Schedule.Frequency)
	if job.Schedule.Cron != "" {
		fmt.Fprintf(&s, "Cron:       %s\n", job.Schedule.Cron)
	}
	fmt.Fprintf(&s, "Retention:  %d days\n", job.Config.RetentionDays)
	fmt.Fprintf(&s, "Format:     %s\n", job.Config.Format)

	if runs, err := b.wizard.NextRuns(time.Now(), 3); err == nil && len(runs) > 0 {
		s.WriteString("\nNext runs:\n")
		for _, r := range runs {
			fmt.Fprintf(&s, "  • %s\n", r.Format("Mon 2006-01-02 15:04 MST"))
		}
	}
	s.WriteString("\n" + styles.help.Render("enter to create, esc to go back") + "\n")
	return s.String()
}
