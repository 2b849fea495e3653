package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/models"
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
	"github.com/tgienger/drt/internal/viewmodels"
)

type positionItem struct {
	position models.Position
}

func (i positionItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.position.CompanyName, i.position.PositionTitle)
}

func (i positionItem) Description() string {
	parts := []string{}
	if i.position.Location != "" {
		parts = append(parts, i.position.Location)
	}
	if i.position.SalaryRange != "" {
		parts = append(parts, i.position.SalaryRange)
	}
	if d := i.position.ApplicationDate.String(); d != "" {
		parts = append(parts, "applied "+d)
	}
	return strings.Join(parts, " • ")
}

func (i positionItem) FilterValue() string {
	return i.position.CompanyName + " " + i.position.PositionTitle
}

type positionDelegate struct {
	styles *styles.Styles
	width  int
}

func (d positionDelegate) Height() int                               { return 2 }
func (d positionDelegate) Spacing() int                              { return 1 }
func (d positionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d positionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(positionItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)
	badge := d.styles.StatusBadge(p.position.CurrentStatus)
	titleWidth := max(width-lipgloss.Width(badge)-6, 10)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(truncate(p.Title(), titleWidth) + "  " + badge)
	desc := descStyle.Render(p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// PositionListView lists positions with a summary header and a create form
type PositionListView struct {
	ctx      context.Context
	api      api.Provider
	list     list.Model
	delegate *positionDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	now      func() time.Time

	width  int
	height int

	state     viewmodels.LoadState
	positions []models.Position
	summary   viewmodels.Summary

	creating bool
	form     *form

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

func NewPositionListView(ctx context.Context, provider api.Provider) *PositionListView {
	s := styles.NewStyles()
	delegate := &positionDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Positions"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)
	// the app owns quitting
	l.KeyMap.Quit.SetEnabled(false)

	return &PositionListView{
		ctx:      ctx,
		api:      provider,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		now:      time.Now,
	}
}

type positionsLoadedMsg struct {
	gen       uint64
	positions []models.Position
	err       error
}

type positionCreatedMsg struct {
	position *models.Position
	err      error
}

type positionDeletedMsg struct {
	err error
}

// formJobInfoMsg is dropped unless form is still the open one
type formJobInfoMsg struct {
	form *form
	info *models.JobInfo
	err  error
}

func (v *PositionListView) Init() tea.Cmd {
	return v.load()
}

func (v *PositionListView) load() tea.Cmd {
	v.state = v.state.Begin()
	gen := v.state.Gen
	ctx, provider := v.ctx, v.api
	return func() tea.Msg {
		positions, err := provider.ListPositions(ctx)
		return positionsLoadedMsg{gen: gen, positions: positions, err: err}
	}
}

func (v *PositionListView) CapturingInput() bool {
	return v.creating || v.confirmingDelete || v.showHelpPopup ||
		v.list.FilterState() == list.Filtering
}

func (v *PositionListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		if v.form != nil {
			v.form.SetWidth(clamp(contentWidth-10, 20, 60))
		}
		return v, nil

	case positionsLoadedMsg:
		next, ok := v.state.Finish(msg.gen, msg.err)
		if !ok {
			return v, nil
		}
		v.state = next
		if msg.err != nil {
			log.WithError(msg.err).WithField("action", "load positions").Error("action failed")
			return v, nil
		}
		v.setPositions(msg.positions)
		return v, nil

	case positionCreatedMsg:
		if msg.err != nil {
			if v.form != nil {
				v.form.busy = ""
			}
			return v, failed("create position", msg.err)
		}
		v.creating = false
		v.form = nil
		return v, v.load()

	case positionDeletedMsg:
		if msg.err != nil {
			return v, failed("delete position", msg.err)
		}
		return v, v.load()

	case formJobInfoMsg:
		if v.form == nil || msg.form != v.form {
			return v, nil
		}
		v.form.busy = ""
		if msg.err != nil {
			return v, failed("fetch job description", msg.err)
		}
		pf := v.formValues()
		pf.ApplyJobInfo(*msg.info)
		v.setFormValues(pf)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			if v.list.FilterState() == list.FilterApplied {
				v.list.ResetFilter()
			}
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Reload):
			return v, v.load()
		case key.Matches(msg, v.keys.New):
			return v, v.startCreate()
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(positionItem); ok {
				id := item.position.ID
				return v, func() tea.Msg { return OpenPosition{ID: id} }
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(positionItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.position.ID
				v.deleteTargetName = item.Title()
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *PositionListView) setPositions(positions []models.Position) {
	v.positions = positions
	v.summary = viewmodels.Summarize(positions)
	items := make([]list.Item, len(positions))
	for i, p := range positions {
		items[i] = positionItem{position: p}
	}
	v.list.SetItems(items)
}

func (v *PositionListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch confirmKey(msg) {
	case "yes":
		v.confirmingDelete = false
		ctx, provider, id := v.ctx, v.api, v.deleteTargetID
		return v, func() tea.Msg {
			return positionDeletedMsg{err: provider.DeletePosition(ctx, id)}
		}
	case "no":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *PositionListView) startCreate() tea.Cmd {
	f := newForm("New Position", "Create")
	f.hint = "Tab: next • ←→: status • Ctrl+F: fetch JD • Ctrl+S: save • Esc: cancel"
	f.addText("company", "Company", "Company name", 200)
	f.addText("title", "Title", "Position title", 200)
	f.addText("link", "Recruiting link", "https://...", 500)
	f.addText("location", "Location", "Optional", 200)
	f.addText("salary", "Salary range", "Optional", 100)
	values := make([]string, len(models.Statuses))
	labels := make([]string, len(models.Statuses))
	for i, st := range models.Statuses {
		values[i] = string(st)
		labels[i] = st.Label()
	}
	f.addChoice("status", "Status", values, labels, string(models.StatusApplied))
	f.addArea("description", "Job description", "Paste or fetch the job description", 20000, 5)
	f.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 60))

	v.form = f
	v.creating = true
	return f.Start()
}

func (v *PositionListView) formValues() viewmodels.PositionForm {
	return viewmodels.PositionForm{
		CompanyName:    v.form.Value("company"),
		PositionTitle:  v.form.Value("title"),
		RecruitingLink: v.form.Value("link"),
		Location:       v.form.Value("location"),
		SalaryRange:    v.form.Value("salary"),
		Status:         models.Status(v.form.Value("status")),
		JobDescription: v.form.Value("description"),
	}
}

func (v *PositionListView) setFormValues(pf viewmodels.PositionForm) {
	v.form.SetValue("company", pf.CompanyName)
	v.form.SetValue("title", pf.PositionTitle)
	v.form.SetValue("link", pf.RecruitingLink)
	v.form.SetValue("location", pf.Location)
	v.form.SetValue("salary", pf.SalaryRange)
	v.form.SetValue("status", string(pf.Status))
	v.form.SetValue("description", pf.JobDescription)
}

func (v *PositionListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.form = nil
		return v, nil

	case key.Matches(msg, v.keys.FormFetch):
		if v.form.busy != "" {
			return v, nil
		}
		link, err := v.formValues().JDLink()
		if err != nil {
			v.form.err = err.Error()
			return v, nil
		}
		v.form.err = ""
		v.form.busy = "Fetching job description..."
		ctx, provider, f := v.ctx, v.api, v.form
		return v, func() tea.Msg {
			info, err := provider.FetchJD(ctx, link)
			return formJobInfoMsg{form: f, info: info, err: err}
		}
	}

	submitted, cmd := v.form.Update(msg)
	if !submitted {
		return v, cmd
	}

	p, err := v.formValues().Position(v.now())
	if err != nil {
		v.form.err = err.Error()
		return v, nil
	}
	v.form.err = ""
	v.form.busy = "Saving..."
	ctx, provider := v.ctx, v.api
	return v, func() tea.Msg {
		created, err := provider.CreatePosition(ctx, p)
		return positionCreatedMsg{position: created, err: err}
	}
}

func (v *PositionListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.width, v.height,
			"↵", "open position",
			"n", "new position",
			"d", "delete position",
			"/", "filter",
			"r", "reload",
			"1 2 3", "dashboard / positions / calendar",
			"q", "quit",
		)
	}

	if v.confirmingDelete {
		return renderConfirm(v.styles, v.width, v.height, "Delete Position?",
			fmt.Sprintf("%s and all of its notes and events will be removed.", v.deleteTargetName))
	}

	if v.creating {
		return v.form.View(v.styles, v.width, v.height)
	}

	s := v.styles
	switch {
	case v.state.IsFailed():
		return renderCentered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
			s.Error.Render("Could not load positions"),
			"",
			s.TitleMuted.Render("Press 'r' to try again"),
		))
	case !v.state.IsLoaded():
		return s.TitleMuted.Render("Loading...")
	}

	if len(v.positions) == 0 {
		return v.renderEmpty()
	}

	content := v.renderSummary() + "\n" + v.list.View() + "\n" + renderHelp(s, v.width,
		"↵", "open", "n", "new", "d", "del", "/", "filter", "r", "reload", "q", "quit")
	return styles.CenterView(content, v.width, v.height)
}

func (v *PositionListView) renderSummary() string {
	s := v.styles
	sum := v.summary
	return s.StatusBar.Render(fmt.Sprintf("Total %s / In progress %s / Accepted %s / Rejected %s / Other %s",
		s.CardValue.Render(fmt.Sprint(sum.Total)),
		s.CardValue.Render(fmt.Sprint(sum.InProgress)),
		s.CardValue.Render(fmt.Sprint(sum.Accepted)),
		s.CardValue.Render(fmt.Sprint(sum.Rejected)),
		s.CardValue.Render(fmt.Sprint(sum.Other)),
	))
}

func (v *PositionListView) renderEmpty() string {
	s := v.styles
	return renderCentered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Positions"),
		"",
		s.TitleMuted.Render("Press 'n' to track your first application"),
		"",
		s.ButtonPrimary.Render(" New Position "),
	))
}
