package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	OverviewView ViewState = iota
	JobsView
	SourcesView
	RunsView
	BuilderView
	LoginView
)

var tabs = []struct {
	view  ViewState
	title string
}{
	{OverviewView, "Overview"},
	{JobsView, "Jobs"},
	{SourcesView, "Sources"},
}

// OverviewLoader loads the dashboard landing page. Implemented by [tasks.Dashboard].
type OverviewLoader interface {
	Overview(ctx context.Context, progress chan<- tasks.ProgressUpdate, opts tasks.OverviewOpts) (*tasks.OverviewResult, error)
}

// JobClient is the subset of the jobs API the TUI drives. Implemented by api.JobsAPI.
type JobClient interface {
	Run(ctx context.Context, id string) (*models.Job, error)
	Pause(ctx context.Context, id string) (*models.Job, error)
	Resume(ctx context.Context, id string) (*models.Job, error)
	Runs(ctx context.Context, id string) ([]models.JobRun, error)
	Create(ctx context.Context, req models.CreateJobRequest) (*models.Job, error)
}

// LoginRedirect is the API client's navigator while the TUI runs: instead of leaving the program it
// switches to the login-required view.
type LoginRedirect struct {
	expired atomic.Bool
	program atomic.Pointer[tea.Program]
}

// Attach routes future redirects to p.
func (l *LoginRedirect) Attach(p *tea.Program) { l.program.Store(p) }

// RedirectToLogin implements api.Navigator.
func (l *LoginRedirect) RedirectToLogin() {
	if l.expired.Swap(true) {
		return
	}
	if p := l.program.Load(); p != nil {
		go p.Send(sessionExpiredMsg{})
	}
}

// Expired reports whether a redirect has happened.
func (l *LoginRedirect) Expired() bool { return l.expired.Load() }

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	lastTab   ViewState
	dashboard OverviewLoader
	jobs      JobClient
	redirect  *LoginRedirect
	opts      tasks.OverviewOpts

	width  int
	height int

	loading    bool
	progress   tasks.ProgressUpdate
	progressCh <-chan tasks.ProgressUpdate
	doneCh     <-chan overviewLoadedMsg
	overview   *tasks.OverviewResult

	jobList    list.Model
	sourceList list.Model
	runsJob    models.Job
	runs       []models.JobRun
	builder    *builderView

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies. redirect may be nil.
func NewModel(ctx context.Context, dashboard OverviewLoader, jobs JobClient, redirect *LoginRedirect, opts tasks.OverviewOpts) *Model {
	if redirect == nil {
		redirect = &LoginRedirect{}
	}
	m := &Model{
		ctx:        ctx,
		view:       OverviewView,
		dashboard:  dashboard,
		jobs:       jobs,
		redirect:   redirect,
		opts:       opts,
		jobList:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		sourceList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
	}
	m.jobList.Title = "Backup Jobs"
	m.sourceList.Title = "Sources"
	return m
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Init starts loading the overview.
func (m *Model) Init() tea.Cmd {
	return m.loadOverview()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.jobList.SetSize(msg.Width-4, msg.Height-8)
		m.sourceList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionExpiredMsg:
		m.view = LoginView
		return m, nil

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, waitForOverview(m.progressCh, m.doneCh)

	case overviewLoadedMsg:
		m.loading = false
		if m.checkSession(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.overview = msg.result
		return m, tea.Sequence(
			m.jobList.SetItems(jobItems(msg.result.Jobs)),
			m.sourceList.SetItems(sourceItems(msg.result.Sources)),
		)

	case jobActionMsg:
		if m.checkSession(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("✗ %s failed: %v", msg.action, msg.err))
			return m, nil
		}
		m.status = styles.ok.Render(fmt.Sprintf("✓ %s %s → %s", msg.action, msg.job.Name, msg.job.Status))
		return m, m.replaceJob(*msg.job)

	case runsLoadedMsg:
		if m.checkSession(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("✗ failed to load runs: %v", msg.err))
			return m, nil
		}
		m.runsJob = msg.job
		m.runs = msg.runs
		m.view = RunsView
		return m, nil

	case jobCreatedMsg:
		if m.checkSession(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("✗ failed to create job: %v", msg.err))
			return m, nil
		}
		m.builder = nil
		m.view = JobsView
		m.lastTab = JobsView
		m.status = styles.ok.Render(fmt.Sprintf("✓ created %s", msg.job.Name))
		if m.overview != nil {
			m.overview.Jobs = append(m.overview.Jobs, *msg.job)
		}
		return m, m.jobList.InsertItem(len(m.jobList.Items()), jobItem{job: *msg.job})
	}

	return m.updateLists(msg)
}

// checkSession switches to the login view once the session is gone.
func (m *Model) checkSession(err error) bool {
	if m.redirect.Expired() || errors.Is(err, shared.ErrNotAuthenticated) {
		m.view = LoginView
		return true
	}
	return false
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case LoginView:
		return m, tea.Quit
	case BuilderView:
		return m.handleBuilderKeys(msg)
	case RunsView:
		if key.Matches(msg, m.keys.back) {
			m.view = JobsView
			return m, nil
		}
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.view = nextTab(m.view)
		m.lastTab = m.view
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadOverview()
	}

	switch m.view {
	case JobsView:
		return m.handleJobKeys(msg)
	case SourcesView:
		return m.handleSourceKeys(msg)
	}
	return m, nil
}

func (m *Model) handleJobKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.create) {
		return m.openBuilder("")
	}

	job, ok := m.selectedJob()
	if ok {
		switch {
		case key.Matches(msg, m.keys.enter):
			return m, m.loadRuns(job)
		case key.Matches(msg, m.keys.run):
			return m, m.jobAction(tasks.ActionRun, job.ID)
		case key.Matches(msg, m.keys.pause):
			return m, m.jobAction(tasks.ActionPause, job.ID)
		case key.Matches(msg, m.keys.resume):
			return m, m.jobAction(tasks.ActionResume, job.ID)
		}
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

func (m *Model) handleSourceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) || key.Matches(msg, m.keys.create) {
		sourceID := ""
		if item, ok := m.sourceList.SelectedItem().(sourceItem); ok {
			sourceID = item.source.ID
		}
		return m.openBuilder(sourceID)
	}

	var cmd tea.Cmd
	m.sourceList, cmd = m.sourceList.Update(msg)
	return m, cmd
}

func (m *Model) handleBuilderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req, cancel, cmd := m.builder.update(msg)
	switch {
	case cancel:
		m.builder = nil
		m.view = m.lastTab
		return m, nil
	case req != nil:
		return m, m.createJob(*req)
	}
	return m, cmd
}

func (m *Model) openBuilder(sourceID string) (tea.Model, tea.Cmd) {
	m.builder = newBuilderView(sourceID)
	m.view = BuilderView
	m.status = ""
	return m, nil
}

func (m *Model) filtering() bool {
	switch m.view {
	case JobsView:
		return m.jobList.FilterState() == list.Filtering
	case SourcesView:
		return m.sourceList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) selectedJob() (models.Job, bool) {
	item, ok := m.jobList.SelectedItem().(jobItem)
	return item.job, ok
}

// replaceJob swaps the updated job into the overview and the list.
func (m *Model) replaceJob(job models.Job) tea.Cmd {
	if m.overview != nil {
		for i := range m.overview.Jobs {
			if m.overview.Jobs[i].ID == job.ID {
				m.overview.Jobs[i] = job
			}
		}
		m.overview.Stats = tasks.ComputeStats(m.overview.Sources, m.overview.Jobs)
	}
	for i, item := range m.jobList.Items() {
		if ji, ok := item.(jobItem); ok && ji.job.ID == job.ID {
			return m.jobList.SetItem(i, jobItem{job: job})
		}
	}
	return nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case JobsView:
		m.jobList, cmd = m.jobList.Update(msg)
	case SourcesView:
		m.sourceList, cmd = m.sourceList.Update(msg)
	}
	return m, cmd
}

func nextTab(v ViewState) ViewState {
	for i, t := range tabs {
		if t.view == v {
			return tabs[(i+1)%len(tabs)].view
		}
	}
	return OverviewView
}

// loadOverview runs the overview load in the background, streaming progress as messages.
func (m *Model) loadOverview() tea.Cmd {
	if m.dashboard == nil {
		return nil
	}
	m.loading = true
	m.progress = tasks.ProgressUpdate{}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan overviewLoadedMsg, 1)

	m.progressCh = progress
	m.doneCh = done

	ctx, dashboard, opts := m.ctx, m.dashboard, m.opts
	go func() {
		result, err := dashboard.Overview(ctx, progress, opts)
		done <- overviewLoadedMsg{result: result, err: err}
		close(progress)
	}()

	return waitForOverview(progress, done)
}

func waitForOverview(progress <-chan tasks.ProgressUpdate, done <-chan overviewLoadedMsg) tea.Cmd {
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressMsg(update)
		}
		return <-done
	}
}

func (m *Model) jobAction(action, id string) tea.Cmd {
	if m.jobs == nil {
		return nil
	}
	ctx := m.ctx
	jobs := m.jobs
	return func() tea.Msg {
		var (
			job *models.Job
			err error
		)
		switch action {
		case tasks.ActionRun:
			job, err = jobs.Run(ctx, id)
		case tasks.ActionPause:
			job, err = jobs.Pause(ctx, id)
		case tasks.ActionResume:
			job, err = jobs.Resume(ctx, id)
		}
		return jobActionMsg{action: action, job: job, err: err}
	}
}

func (m *Model) loadRuns(job models.Job) tea.Cmd {
	if m.jobs == nil {
		return nil
	}
	ctx := m.ctx
	jobs := m.jobs
	return func() tea.Msg {
		runs, err := jobs.Runs(ctx, job.ID)
		return runsLoadedMsg{job: job, runs: runs, err: err}
	}
}

func (m *Model) createJob(req models.CreateJobRequest) tea.Cmd {
	if m.jobs == nil {
		return nil
	}
	ctx := m.ctx
	jobs := m.jobs
	return func() tea.Msg {
		job, err := jobs.Create(ctx, req)
		return jobCreatedMsg{job: job, err: err}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.view == LoginView {
		return m.renderLogin()
	}
	if m.view == BuilderView && m.builder != nil {
		return fmt.Sprintf("%s\n%s", m.builder.view(), m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.back}))
	}

	var body string
	switch m.view {
	case OverviewView:
		body = m.renderOverview()
	case JobsView:
		body = m.jobList.View()
	case SourcesView:
		body = m.sourceList.View()
	case RunsView:
		body = m.renderRuns()
	}

	parts := []string{m.renderTabs(), body}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.help.ShortHelpView(m.helpKeys()))
	return strings.Join(parts, "\n\n")
}

func (m *Model) helpKeys() []key.Binding {
	switch m.view {
	case JobsView:
		return []key.Binding{m.keys.enter, m.keys.run, m.keys.pause, m.keys.resume, m.keys.create, m.keys.tab, m.keys.quit}
	case SourcesView:
		return []key.Binding{m.keys.create, m.keys.tab, m.keys.quit}
	case RunsView:
		return []key.Binding{m.keys.back, m.keys.quit}
	default:
		return []key.Binding{m.keys.refresh, m.keys.tab, m.keys.quit}
	}
}

func (m *Model) renderTabs() string {
	active := m.view
	if active == RunsView {
		active = JobsView
	}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if t.view == active {
			rendered[i] = styles.cur.Render(t.title)
		} else {
			rendered[i] = styles.tab.Render(t.title)
		}
	}
	return strings.Join(rendered, " ")
}

func (m *Model) renderOverview() string {
	if m.loading {
		msg := m.progress.Message
		if msg == "" {
			msg = "Loading..."
		}
		return styles.title.Render("ListBackup") + "\n" + msg
	}
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\nPress ctrl+r to retry, q to quit"
	}
	if m.overview == nil {
		return ""
	}

	o := m.overview
	title := "ListBackup"
	if o.Account != nil {
		title = o.Account.Name
	}

	var s strings.Builder
	s.WriteString(styles.title.Render(title))
	s.WriteString("\n")
	fmt.Fprintf(&s, "Sources  %d  (%s active, %s errors)\n",
		o.Stats.Sources, styles.ok.Render(fmt.Sprint(o.Stats.ActiveSources)), styles.err.Render(fmt.Sprint(o.Stats.ErrorSources)))
	fmt.Fprintf(&s, "Jobs     %d  (%s active, %s paused, %s failed)\n",
		o.Stats.Jobs, styles.ok.Render(fmt.Sprint(o.Stats.ActiveJobs)),
		styles.warn.Render(fmt.Sprint(o.Stats.PausedJobs)), styles.err.Render(fmt.Sprint(o.Stats.FailedJobs)))
	if o.Stats.NextRun != nil {
		fmt.Fprintf(&s, "Next run %s\n", shared.FormatTime(*o.Stats.NextRun))
	}
	if o.Health != nil {
		health := styles.ok.Render(o.Health.Status)
		if !o.Health.Healthy() {
			health = styles.warn.Render(o.Health.Status)
		}
		fmt.Fprintf(&s, "System   %s\n", health)
	}
	for _, e := range o.Errors {
		s.WriteString(styles.warn.Render(fmt.Sprintf("⚠ %s unavailable: %v", e.Endpoint, e.Error)) + "\n")
	}
	return s.String()
}

func (m *Model) renderRuns() string {
	title := styles.title.Render(fmt.Sprintf("Runs · %s", m.runsJob.Name))
	if len(m.runs) == 0 {
		return title + "\nNo runs yet."
	}
	return title + "\n" + string(formatter.ToTable(formatter.RunsTable(m.runs)))
}

func (m *Model) renderLogin() string {
	return styles.err.Render("Your session has expired.") +
		"\n\nRun `listbackup auth login` to sign in again.\n\n" +
		styles.help.Render("Press any key to exit")
}
