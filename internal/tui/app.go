package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/trainlog/internal/config"
	"github.com/jask/trainlog/internal/database/repository"
	"github.com/jask/trainlog/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	cfg      config.Config
	tz       *time.Location
	state    appState
	modal    modalState
	status   string
	width    int
	height   int

	trainings []service.TrainingSummary
	types     []string
	cursor    int
	query     string
	searching bool

	form trainingForm

	current      *repository.Training
	signers      []repository.Attendance
	signerCursor int
	attendee     attendeeForm
	pad          *signaturePad
}

// Services are the operations the UI drives. Report and Reset are optional.
type Services struct {
	Register *service.RegisterService
	Report   *service.ReportService
	Reset    service.Resetter
}

type appState string

const (
	viewTrainings   appState = "trainings"
	viewNewTraining appState = "newTraining"
	viewAttendance  appState = "attendance"
)

type modalState string

const (
	modalNone           modalState = ""
	modalDeleteTraining modalState = "deleteTraining"
	modalDeleteSigner   modalState = "deleteSigner"
	modalConfirmReset   modalState = "confirmReset"
)

func New(ctx context.Context, cfg config.Config, services Services, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	return &App{
		ctx:      ctx,
		services: services,
		cfg:      cfg,
		tz:       tz,
		state:    viewTrainings,
		pad:      newSignaturePad(cfg.Signature),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadTrainings(), a.loadTypes())
}

func (a *App) loadTrainings() tea.Cmd {
	query := a.query
	return func() tea.Msg {
		list, err := a.services.Register.ListTrainings(a.ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return trainingsMsg(list)
	}
}

func (a *App) loadTypes() tea.Cmd {
	return func() tea.Msg {
		types, err := a.services.Register.TrainingTypes(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return typesMsg(types)
	}
}

func (a *App) loadSigners(trainingID string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Register.ListAttendance(a.ctx, trainingID)
		if err != nil {
			return errMsg{err}
		}
		return signersMsg{trainingID: trainingID, list: list}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layoutPad()
	case tea.MouseMsg:
		if a.state == viewAttendance && a.modal == modalNone {
			a.pad.handleMouse(m)
		}
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewNewTraining:
			return a.handleFormKey(m)
		case viewAttendance:
			return a.handleAttendanceKey(m)
		default:
			return a.handleListKey(m)
		}
	case trainingsMsg:
		a.trainings = []service.TrainingSummary(m)
		if a.cursor >= len(a.trainings) {
			a.cursor = max(len(a.trainings)-1, 0)
		}
	case typesMsg:
		a.types = []string(m)
	case signersMsg:
		if a.current != nil && a.current.ID == m.trainingID {
			a.signers = m.list
			if a.signerCursor >= len(a.signers) {
				a.signerCursor = max(len(a.signers)-1, 0)
			}
		}
	case trainingSavedMsg:
		a.state = viewTrainings
		a.form = trainingForm{}
		a.status = fmt.Sprintf("training %q saved", m.training.Name)
		return a, a.loadTrainings()
	case attendanceSavedMsg:
		a.attendee = attendeeForm{}
		a.pad.clear()
		a.status = fmt.Sprintf("signature recorded for %s", m.result.Attendance.Name)
		if len(m.result.SimilarNames) > 0 {
			a.status += fmt.Sprintf(" (warning: similar to %s)", strings.Join(m.result.SimilarNames, ", "))
		}
		return a, tea.Batch(a.loadSigners(m.result.Attendance.TrainingID), a.loadTrainings())
	case reloadMsg:
		a.status = m.status
		if m.signersOf != "" {
			return a, tea.Batch(a.loadSigners(m.signersOf), a.loadTrainings())
		}
		return a, a.loadTrainings()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewNewTraining:
		body = a.renderForm()
	case viewAttendance:
		body = a.renderAttendance()
	default:
		body = a.renderTrainings()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

// layoutPad sizes the pad to the terminal width and anchors it below the
// attendance header. A resize always discards the signature in progress.
func (a *App) layoutPad() {
	cols := a.width - 2
	row := lipgloss.Height(a.renderAttendanceHeader()) + 1
	a.pad.layout(cols, row, 1)
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch m.Type {
		case tea.KeyEnter:
			a.searching = false
			return a, nil
		case tea.KeyEsc:
			a.searching = false
			a.query = ""
			return a, a.loadTrainings()
		}
		q := editText(a.query, m)
		if q == a.query {
			return a, nil
		}
		a.query = q
		a.cursor = 0
		return a, a.loadTrainings()
	}

	switch m.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.trainings)-1 {
			a.cursor++
		}
	case "/":
		a.searching = true
		a.status = ""
	case "n":
		a.openForm()
	case "enter":
		if len(a.trainings) == 0 {
			return a, nil
		}
		return a, a.openAttendance(a.trainings[a.cursor].Training)
	case "x", "delete":
		if len(a.trainings) > 0 {
			a.modal = modalDeleteTraining
		}
	case "p":
		if len(a.trainings) > 0 {
			return a, a.reportCmd(a.trainings[a.cursor].Training)
		}
	case "R":
		if a.services.Reset == nil {
			a.status = "reset not available"
			return a, nil
		}
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) openAttendance(t repository.Training) tea.Cmd {
	tr := t
	a.current = &tr
	a.state = viewAttendance
	a.signers = nil
	a.signerCursor = 0
	a.attendee = attendeeForm{}
	a.pad.clear()
	a.status = ""
	return a.loadSigners(t.ID)
}

func (a *App) closeAttendance() tea.Cmd {
	a.state = viewTrainings
	a.current = nil
	a.signers = nil
	a.pad.clear()
	return a.loadTrainings()
}

func (a *App) handleAttendanceKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.status = ""
		return a, a.closeAttendance()
	case "tab", "shift+tab":
		a.attendee.focus = 1 - a.attendee.focus
		return a, nil
	case "ctrl+r":
		a.pad.clear()
		a.status = "signature cleared"
		return a, nil
	case "up":
		if a.signerCursor > 0 {
			a.signerCursor--
		}
		return a, nil
	case "down":
		if a.signerCursor < len(a.signers)-1 {
			a.signerCursor++
		}
		return a, nil
	case "ctrl+x":
		if len(a.signers) > 0 {
			a.modal = modalDeleteSigner
		}
		return a, nil
	case "ctrl+p":
		return a, a.reportCmd(*a.current)
	case "enter", "ctrl+s":
		uri, err := a.pad.dataURI()
		if err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		in := service.AttendanceInput{Name: a.attendee.name, IDNumber: a.attendee.idNumber, Signature: uri}
		return a, a.recordAttendanceCmd(a.current.ID, in)
	}
	a.attendee.edit(m)
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		mode := a.modal
		a.modal = modalNone
		switch mode {
		case modalDeleteTraining:
			if len(a.trainings) == 0 {
				return a, nil
			}
			return a, a.deleteTrainingCmd(a.trainings[a.cursor].ID)
		case modalDeleteSigner:
			if len(a.signers) == 0 || a.current == nil {
				return a, nil
			}
			return a, a.deleteSignerCmd(a.signers[a.signerCursor].ID, a.current.ID)
		case modalConfirmReset:
			a.cursor, a.signerCursor = 0, 0
			return a, a.resetCmd()
		}
	case "n", "N", "esc":
		a.modal = modalNone
	}
	return a, nil
}

// commands
func (a *App) saveTrainingCmd(in service.TrainingInput) tea.Cmd {
	return func() tea.Msg {
		t, err := a.services.Register.AddTraining(a.ctx, in)
		if err != nil {
			return errMsg{err}
		}
		return trainingSavedMsg{training: t}
	}
}

func (a *App) recordAttendanceCmd(trainingID string, in service.AttendanceInput) tea.Cmd {
	return func() tea.Msg {
		res, err := a.services.Register.RecordAttendance(a.ctx, trainingID, in)
		if err != nil {
			return errMsg{err}
		}
		return attendanceSavedMsg{result: res}
	}
}

func (a *App) deleteTrainingCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Register.DeleteTraining(a.ctx, id); err != nil {
			return errMsg{err}
		}
		return reloadMsg{status: "training deleted"}
	}
}

func (a *App) deleteSignerCmd(id, trainingID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Register.DeleteAttendance(a.ctx, id); err != nil {
			return errMsg{err}
		}
		return reloadMsg{status: "signature removed", signersOf: trainingID}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if a.services.Reset == nil {
			return errMsg{fmt.Errorf("reset not configured")}
		}
		if err := a.services.Reset.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return reloadMsg{status: "register reset"}
	}
}

func (a *App) reportCmd(t repository.Training) tea.Cmd {
	if a.services.Report == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("reports not configured")} }
	}
	path := fmt.Sprintf("attendance-%s.pdf", t.ID)
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return errMsg{fmt.Errorf("create %s: %w", path, err)}
		}
		if err := a.services.Report.WriteAttendanceSheet(a.ctx, f, t.ID); err != nil {
			f.Close()
			return errMsg{err}
		}
		if err := f.Close(); err != nil {
			return errMsg{err}
		}
		abs, _ := filepath.Abs(path)
		return statusMsg("attendance sheet written to " + abs)
	}
}

// messages
type trainingsMsg []service.TrainingSummary

type typesMsg []string

type signersMsg struct {
	trainingID string
	list       []repository.Attendance
}

type trainingSavedMsg struct {
	training repository.Training
}

type attendanceSavedMsg struct {
	result service.AttendanceResult
}

// reloadMsg follows a mutation; the lists are reloaded once it has landed.
type reloadMsg struct {
	status    string
	signersOf string
}

type statusMsg string

type errMsg struct{ error }

func (a *App) renderStatus() string {
	switch {
	case a.status == "":
		return ""
	case strings.HasPrefix(a.status, "error: "):
		return "\n" + errorStyle.Render(a.status)
	case strings.Contains(a.status, "warning:"):
		return "\n" + warningStyle.Render(a.status)
	default:
		return "\n" + successStyle.Render(a.status)
	}
}

func (a *App) dateFormat() string {
	if a.cfg.UI.DateFormat == "" {
		return "2006-01-02"
	}
	return a.cfg.UI.DateFormat
}

func (a *App) renderTrainings() string {
	out := titleStyle.Render("Training register") + "\n"
	if a.searching || a.query != "" {
		out += labelStyle.Render("Search: ") + textStyle.Render(a.query)
		if a.searching {
			out += "▏"
		}
		out += "\n"
	}
	if len(a.trainings) == 0 {
		out += "  (no trainings yet)\n"
	}
	for i, t := range a.trainings {
		marker := " "
		line := fmt.Sprintf("%s  %-20s  %-32s  %5sh  %-20s  %d signed",
			t.Date.Format(a.dateFormat()), t.Type, t.Name, formatHours(t.Hours), t.Attendee, t.Signers)
		if i == a.cursor {
			marker = "▶"
			line = focusStyle.Render(line)
		}
		out += fmt.Sprintf("%s %s\n", marker, line)
	}
	out += helpStyle.Render("[enter] Attendance  [n] New  [/] Search  [x] Delete  [p] PDF sheet  [R] Reset  [q] Quit")
	return out + a.renderStatus()
}

// renderAttendanceHeader has a fixed number of lines so the pad below it
// stays anchored on the same screen row.
func (a *App) renderAttendanceHeader() string {
	details := ""
	if a.current != nil {
		t := a.current
		details = fmt.Sprintf("%s · %s · %s · %sh · %s", t.Name, t.Type, t.Date.Format(a.dateFormat()), formatHours(t.Hours), t.Attendee)
	}
	lines := []string{
		titleStyle.Render("Attendance"),
		textStyle.Render(details),
		"",
		a.attendee.fieldLine(0, "Name:      ", a.attendee.name),
		a.attendee.fieldLine(1, "ID number: ", a.attendee.idNumber),
		labelStyle.Render("Sign below with the mouse:"),
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderAttendance() string {
	out := a.renderAttendanceHeader() + "\n" + a.pad.view() + "\n"
	out += helpStyle.Render("[enter] Record  [tab] Next field  [ctrl+r] Clear pad  [↑/↓] Select  [ctrl+x] Remove  [ctrl+p] PDF  [esc] Back") + "\n"

	used := lipgloss.Height(out) + 2
	limit := len(a.signers)
	if a.height > 0 {
		limit = min(limit, max(a.height-used, 0))
	}
	out += labelStyle.Render(fmt.Sprintf("Signed (%d):", len(a.signers)))
	start := 0
	if a.signerCursor >= limit && limit > 0 {
		start = a.signerCursor - limit + 1
	}
	for i := start; i < len(a.signers) && i < start+limit; i++ {
		s := a.signers[i]
		marker := " "
		line := fmt.Sprintf("%-28s  %-14s  %s", s.Name, s.IDNumber, s.SignedAt.In(a.tz).Format(a.dateFormat()+" 15:04"))
		if i == a.signerCursor {
			marker = "▶"
			line = focusStyle.Render(line)
		}
		out += fmt.Sprintf("\n%s %s", marker, line)
	}
	return out + a.renderStatus()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalDeleteTraining:
		name := ""
		if len(a.trainings) > 0 {
			name = a.trainings[a.cursor].Name
		}
		return titleStyle.Render("Delete training?") + fmt.Sprintf("\n%s and all its signatures will be removed.\n[y] Yes  [n] No", name)
	case modalDeleteSigner:
		name := ""
		if len(a.signers) > 0 {
			name = a.signers[a.signerCursor].Name
		}
		return titleStyle.Render("Remove signature?") + fmt.Sprintf("\n%s\n[y] Yes  [n] No", name)
	case modalConfirmReset:
		return titleStyle.Render("Reset register?") + "\nThis will delete every training and signature.\n[y] Yes  [n] No"
	default:
		return ""
	}
}
