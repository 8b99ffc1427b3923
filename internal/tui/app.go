package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/logview/internal/cache"
	"github.com/altinukshini/logview/internal/config"
	"github.com/altinukshini/logview/internal/follow"
	"github.com/altinukshini/logview/internal/model"
	"github.com/altinukshini/logview/internal/tui/logview"
	"github.com/altinukshini/logview/internal/ui"
)

const (
	// header(1) + status bar(1)
	chromeLines = 2

	statusTimeout   = 30 * time.Second
	downloadTimeout = 2 * time.Minute
)

// JobClient is the part of the GitHub API the app needs to show job logs.
type JobClient interface {
	GetJob(ctx context.Context, jobID int64) (*model.Job, error)
	DownloadJobLog(ctx context.Context, jobID int64) (io.ReadCloser, error)
}

type App struct {
	cfg      config.Config
	client   JobClient
	logCache *cache.LogCache
	watcher  *follow.Watcher
	pager    *pager

	logView logview.Model

	// Content read from stdin before the program started
	input string

	width  int
	height int
	status string
	loaded bool

	// Live log tailing for in-progress jobs
	tailingJobID int64
	job          *model.Job

	showHelp bool
}

type Option func(*App)

// WithInput sets the log text for the stdin source.
func WithInput(content string) Option {
	return func(a *App) { a.input = content }
}

// WithWatcher follows the configured file through w.
func WithWatcher(w *follow.Watcher) Option {
	return func(a *App) { a.watcher = w }
}

func NewApp(cfg config.Config, client JobClient, logCache *cache.LogCache, opts ...Option) App {
	a := App{
		cfg:      cfg,
		client:   client,
		logCache: logCache,
		pager:    &pager{},
		logView:  logview.New(),
		status:   "Loading log...",
	}
	for _, opt := range opts {
		opt(&a)
	}

	a.logView.SetFilterMode(cfg.FilterMode)
	switch cfg.Source() {
	case config.SourceJob:
		a.tailingJobID = cfg.JobID
		a.logView.SetLoading()
	case config.SourceFile:
		a.logView.SetLoading()
		a.logView.SetTailing(a.watcher != nil)
	}
	return a
}

// SetProgram gives the app the running program so it can hand the terminal
// to the pager.
func (a *App) SetProgram(p *tea.Program) {
	a.pager.program = p
}

func (a App) Init() tea.Cmd {
	switch a.cfg.Source() {
	case config.SourceJob:
		return a.loadJob(a.cfg.JobID)
	case config.SourceFile:
		cmds := []tea.Cmd{follow.ReadFile(a.cfg.File)}
		if a.watcher != nil {
			cmds = append(cmds, a.watcher.Wait())
		}
		return tea.Batch(cmds...)
	default:
		input := a.input
		return func() tea.Msg {
			return ui.LogLoadedMsg{Name: "stdin", Content: input}
		}
	}
}

// --- Data fetching commands ---

// loadJob serves a completed job from the cache, otherwise it checks the job
// status to decide between downloading the final log and tailing.
func (a App) loadJob(jobID int64) tea.Cmd {
	logCache := a.logCache
	checkStatus := a.checkJobStatus(jobID)
	return func() tea.Msg {
		if logCache != nil && logCache.HasJob(jobID) {
			content, err := logCache.GetJobLog(jobID)
			if err == nil {
				name := fmt.Sprintf("job %d", jobID)
				if meta, err := logCache.ReadMeta(jobID); err == nil && meta.JobName != "" {
					name = meta.JobName
				}
				log.Printf("job %d: loaded log from cache", jobID)
				return ui.JobLogLoadedMsg{JobID: jobID, JobName: name, Content: content, Final: true}
			}
			log.Printf("job %d: cache read failed: %v", jobID, err)
			if err := logCache.DeleteEntry(jobID); err != nil {
				log.Printf("job %d: drop cache entry: %v", jobID, err)
			}
		}
		return checkStatus()
	}
}

func (a App) scheduleLogRefresh(jobID int64) tea.Cmd {
	return tea.Tick(a.cfg.TailInterval, func(t time.Time) tea.Msg {
		return ui.LogTailTickMsg{JobID: jobID}
	})
}

func (a App) checkJobStatus(jobID int64) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()
		job, err := client.GetJob(ctx, jobID)
		if err != nil {
			return ui.JobTailStatusMsg{JobID: jobID, Err: err}
		}
		return ui.JobTailStatusMsg{
			JobID:     jobID,
			Job:       job,
			Completed: job.Completed(),
		}
	}
}

// fetchJobLog downloads the job log. A final log is also stored in the cache.
func (a App) fetchJobLog(job model.Job, final bool) tea.Cmd {
	client := a.client
	logCache := a.logCache
	repo := a.cfg.RepoNWO()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()
		body, err := client.DownloadJobLog(ctx, job.ID)
		if err != nil {
			return ui.JobLogLoadedMsg{JobID: job.ID, JobName: job.Name, Final: final, Err: err}
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return ui.JobLogLoadedMsg{JobID: job.ID, JobName: job.Name, Final: final, Err: fmt.Errorf("read job log: %w", err)}
		}

		if final && logCache != nil {
			meta := cache.CacheMeta{
				JobID:       job.ID,
				RunID:       job.RunID,
				JobName:     job.Name,
				Repo:        repo,
				Conclusion:  string(job.Conclusion),
				CompletedAt: job.CompletedAt,
			}
			if err := logCache.StoreJobLog(meta, bytes.NewReader(data)); err != nil {
				log.Printf("job %d: caching log failed: %v", job.ID, err)
			}
		}
		return ui.JobLogLoadedMsg{JobID: job.ID, JobName: job.Name, Content: string(data), Final: final}
	}
}

// showContent loads the first log with SetContent and treats everything after
// as a new version of the same log, so search state survives refreshes.
func (a *App) showContent(name, content string) {
	if !a.loaded {
		a.logView.SetContent(name, content)
		a.loaded = true
		return
	}
	a.logView.SetName(name)
	a.logView.UpdateContent(content)
}

func (a *App) stopTailing() {
	a.tailingJobID = 0
	a.logView.SetTailing(false)
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("closing file watcher: %v", err)
		}
	}
	return &a, tea.Quit
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}
		if !a.logView.IsSearching() {
			switch {
			case key.Matches(msg, ui.Keys.Quit):
				return a.quit()
			case key.Matches(msg, ui.Keys.Help):
				a.showHelp = true
				return &a, nil
			case key.Matches(msg, ui.Keys.Pager):
				if !a.loaded {
					return &a, nil
				}
				return &a, a.pager.Open(a.logView.Content())
			}
		}
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return &a, cmd

	case tea.MouseMsg:
		if a.showHelp {
			return &a, nil
		}
		// The log view starts below the app header.
		msg.Y -= headerLines
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return &a, cmd

	case ui.LogLoadedMsg:
		if msg.Err != nil {
			log.Printf("loading %s: %v", msg.Name, msg.Err)
			a.status = fmt.Sprintf("Error: %v", msg.Err)
			break
		}
		a.showContent(msg.Name, msg.Content)
		a.status = fmt.Sprintf("Loaded %s", msg.Name)

	case ui.FileChangedMsg:
		if a.watcher == nil {
			break
		}
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error following %s: %v", filepath.Base(msg.Path), msg.Err)
		} else {
			a.showContent(filepath.Base(msg.Path), msg.Content)
		}
		cmds = append(cmds, a.watcher.Wait())

	case ui.LogTailTickMsg:
		if a.tailingJobID == msg.JobID {
			cmds = append(cmds, a.checkJobStatus(msg.JobID))
		}

	case ui.JobTailStatusMsg:
		if a.tailingJobID != msg.JobID {
			break
		}
		switch {
		case msg.Err != nil:
			log.Printf("job %d: status check failed: %v", msg.JobID, msg.Err)
			a.status = fmt.Sprintf("Error: %v", msg.Err)
			cmds = append(cmds, a.scheduleLogRefresh(msg.JobID))
		case msg.Completed:
			// Job done: fetch the final log and stop tailing
			a.job = msg.Job
			a.stopTailing()
			a.status = fmt.Sprintf("Job %s completed, loading log...", msg.Job.Name)
			cmds = append(cmds, a.fetchJobLog(*msg.Job, true))
		default:
			a.job = msg.Job
			a.logView.SetTailing(true)
			a.status = fmt.Sprintf("Watching %s...", msg.Job.Name)
			cmds = append(cmds, a.fetchJobLog(*msg.Job, false))
		}

	case ui.JobLogLoadedMsg:
		if msg.Err != nil {
			if !msg.Final && a.tailingJobID == msg.JobID && a.job != nil {
				// The log of a running job is often not downloadable yet.
				a.showContent(msg.JobName, renderStepProgress(a.job, time.Now()))
				cmds = append(cmds, a.scheduleLogRefresh(msg.JobID))
				break
			}
			log.Printf("job %d: log download failed: %v", msg.JobID, msg.Err)
			a.status = fmt.Sprintf("Error loading log: %v", msg.Err)
			break
		}
		a.showContent(msg.JobName, msg.Content)
		if msg.Final {
			a.stopTailing()
			a.status = fmt.Sprintf("Loaded %s", msg.JobName)
		} else if a.tailingJobID == msg.JobID {
			cmds = append(cmds, a.scheduleLogRefresh(msg.JobID))
		}

	case ui.ClipboardMsg:
		if msg.Err != nil {
			log.Printf("clipboard: %v", msg.Err)
			a.status = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			a.status = fmt.Sprintf("Copied line %d", msg.LineNumber)
		}

	case ui.PagerClosedMsg:
		if msg.Err != nil {
			log.Printf("pager: %v", msg.Err)
			a.status = fmt.Sprintf("Pager failed: %v", msg.Err)
		}

	case ui.StatusMsg:
		a.status = msg.Text

	default:
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return &a, tea.Batch(cmds...)
}

func (a *App) propagateSize() {
	contentH := a.height - chromeLines
	if contentH < 1 {
		contentH = 1
	}
	a.logView, _ = a.logView.Update(tea.WindowSizeMsg{Width: a.width, Height: contentH})
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.sourceLabel(), a.jobBadge(), a.width)

	content := a.logView.View()
	if a.showHelp {
		content = a.renderHelp()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// Hard clamp: ensure content never overflows the terminal.
	maxContentLines := a.height - chromeLines
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
		}
		for len(lines) < maxContentLines {
			lines = append(lines, "")
		}
		content = strings.Join(lines, "\n")
	}

	return header + "\n" + content + "\n" + statusBar
}

func (a App) sourceLabel() string {
	switch a.cfg.Source() {
	case config.SourceJob:
		return fmt.Sprintf("%s job %d", a.cfg.RepoNWO(), a.cfg.JobID)
	case config.SourceFile:
		return a.cfg.File
	default:
		return "stdin"
	}
}

func (a App) jobBadge() string {
	if a.job == nil {
		return ""
	}
	state := string(a.job.Conclusion)
	if !a.job.Completed() {
		state = string(a.job.Status)
	}
	icon := ui.StatusIcon(state)
	if d := a.job.Duration(); d > 0 {
		return fmt.Sprintf("%s %s %s ", icon, state, d.Truncate(time.Second))
	}
	return fmt.Sprintf("%s %s ", icon, state)
}

func renderStepProgress(job *model.Job, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  Job: %s\n", job.Name))
	if job.RunnerName != "" {
		b.WriteString(fmt.Sprintf("  Runner: %s\n", job.RunnerName))
	}
	if !job.StartedAt.IsZero() {
		elapsed := now.Sub(job.StartedAt).Truncate(time.Second)
		b.WriteString(fmt.Sprintf("  Elapsed: %s\n", elapsed))
	}
	b.WriteString("\n  Steps:\n\n")

	for _, step := range job.Steps {
		icon := ui.StatusIcon(string(step.Conclusion))
		if step.Status == model.JobStatusInProgress {
			icon = ui.StatusIcon("in_progress")
		} else if step.Status == model.JobStatusQueued {
			icon = ui.StatusIcon("queued")
		}

		dur := ""
		if !step.StartedAt.IsZero() && !step.CompletedAt.IsZero() {
			dur = fmt.Sprintf("  %s", step.CompletedAt.Sub(step.StartedAt).Truncate(time.Second))
		} else if !step.StartedAt.IsZero() && step.Status == model.JobStatusInProgress {
			dur = fmt.Sprintf("  %s...", now.Sub(step.StartedAt).Truncate(time.Second))
		}

		b.WriteString(fmt.Sprintf("  %s %s%s\n", icon, step.Name, dur))
	}

	b.WriteString("\n  The full log loads automatically once it is available.\n")
	return b.String()
}

func (a App) contextHints() string {
	if a.showHelp {
		return "any key:close"
	}
	if a.logView.IsSearching() {
		return "enter:next  ctrl+p:prev  M-enter:filter  esc:done"
	}
	hints := "/:search  n/N:match  f:filter  v:select  y:copy  o:pager  ?:help  q:quit"
	if a.logView.IsTailing() {
		return "[LIVE]  " + hints
	}
	return hints
}

func (a App) renderHelp() string {
	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(b key.Binding) string {
		h := b.Help()
		return "  " + keyStyle.Render(h.Key) + desc.Render(h.Desc) + "\n"
	}

	k := ui.Keys
	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	for _, binding := range []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom} {
		b.WriteString(row(binding))
	}

	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	for _, binding := range []key.Binding{k.Search, k.NextMatch, k.PrevMatch, k.ToggleFilter, k.Back} {
		b.WriteString(row(binding))
	}

	b.WriteString("\n" + bold.Render("  In the search field") + "\n\n")
	for _, binding := range []key.Binding{k.InputNext, k.InputPrev, k.InputFilter} {
		b.WriteString(row(binding))
	}

	b.WriteString("\n" + bold.Render("  Lines") + "\n\n")
	b.WriteString("  " + keyStyle.Render("click") + desc.Render("select line") + "\n")
	for _, binding := range []key.Binding{k.Select, k.Copy, k.Pager, k.Quit} {
		b.WriteString(row(binding))
	}

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")
	return b.String()
}
