package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/memory"
	"github.com/jwebster45206/journal-engine/pkg/roll"
	"github.com/jwebster45206/journal-engine/pkg/turn"
)

const PlaceHolderText = "Write your journal entry here..."

// entryKind distinguishes transcript lines so the journal panel can be
// reformatted from scratch on every resize.
type entryKind int

const (
	entryPrompt entryKind = iota
	entryResponse
	entryNotice
	entryError
)

type transcriptEntry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config          *ConsoleConfig
	client          *http.Client
	journal         *journal.JournalState
	lastRoll        *roll.Roll
	lastMovement    int
	pendingResponse string
	capacityBlocked bool
	transcript      []transcriptEntry
	journalViewport viewport.Model
	metaViewport    viewport.Model
	textarea        textarea.Model
	ready           bool
	width           int
	height          int
	err             error
	loading         bool

	// Book selection state
	showBookModal bool
	books         []string
	bookMap       map[string]string
	selectedBook  int
	loadingBooks  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResultMsg struct {
	result *turn.Result
	err    error
}

type journalMsg struct {
	journal *journal.JournalState
	err     error
}

type booksLoadedMsg struct {
	books   []string
	bookMap map[string]string
	err     error
}

type journalCreatedMsg struct {
	journal *journal.JournalState
	err     error
}

type progressTickMsg struct{}

var (
	journalPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	promptTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	responseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	journalVp := viewport.New(50, 20)
	journalVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:          cfg,
		client:          client,
		textarea:        ta,
		journalViewport: journalVp,
		metaViewport:    metaVp,
		ready:           false,
		showBookModal:   true,
		loadingBooks:    true,
		selectedBook:    0,
	}
}

// rollDice rolls the turn's d10 and d6. The console rolls locally so
// the player sees their dice; the API trusts submitted rolls.
func rollDice() roll.Roll {
	return roll.Roll{
		D10: rand.Intn(10) + 1,
		D6:  rand.Intn(6) + 1,
	}
}

// poolHasRoom reports whether a turn submission could place a response:
// an open memory exists or a slot is free for a new one.
func poolHasRoom(pool memory.Pool) bool {
	for _, mem := range pool {
		if mem.Open() {
			return true
		}
	}
	return pool.ActiveCount() < memory.MaxActive
}

func writeMetadata(m *ConsoleUI) string {
	js := m.journal
	var content strings.Builder
	content.WriteString(titleStyle.Render("JOURNAL") + "\n\n")

	content.WriteString("Journal ID:\n")
	content.WriteString(js.ID.String()[:8] + "...\n\n")

	content.WriteString("Book:\n")
	content.WriteString(js.Book + "\n\n")

	content.WriteString("Position:\n")
	content.WriteString(positionStyle.Render(js.Position.String()) + "\n\n")

	content.WriteString("Turns:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", js.TurnCounter))

	if m.lastRoll != nil {
		content.WriteString("Last Roll:\n")
		content.WriteString(fmt.Sprintf("d10=%d d6=%d (%+d)\n\n", m.lastRoll.D10, m.lastRoll.D6, m.lastMovement))
	}

	if m.capacityBlocked {
		content.WriteString(errorStyle.Render("POOL FULL") + "\n\n")
	}

	content.WriteString(fmt.Sprintf("Memories (%d/%d):\n", js.Memories.ActiveCount(), memory.MaxActive))
	if len(js.Memories) == 0 {
		content.WriteString("None yet\n")
	}
	for i, mem := range js.Memories {
		status := ""
		if mem.Retired {
			status = " [retired]"
		} else if mem.Archived {
			status = " [archived]"
		}
		content.WriteString(fmt.Sprintf("%d. %s (%d/%d)%s\n", i+1, mem.Title, len(mem.Experiences), memory.MaxExperiences, status))
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Roll & write\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /memories: Pool\n")
	content.WriteString("• /archive N\n")
	content.WriteString("• /retire N\n")

	return content.String()
}

// writeJournalContent rebuilds the journal panel from the transcript
// for the current viewport width.
func (m *ConsoleUI) writeJournalContent() {
	journalWidth := m.journalViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("JOURNAL ENGINE") + "\n\n")
	content.WriteString("Each turn rolls a d10 and a d6, moves you through the book,\n")
	content.WriteString("and records what you write as a memory.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", journalWidth-6)) + "\n\n")

	for _, entry := range m.transcript {
		switch entry.kind {
		case entryPrompt:
			content.WriteString(promptTextStyle.Render(wordwrap.String(entry.text, journalWidth-2)) + "\n\n")
		case entryResponse:
			content.WriteString(responseStyle.Render("You wrote: ") + wordwrap.String(entry.text, journalWidth-6) + "\n\n")
		case entryNotice:
			content.WriteString(loadingStyle.Render(wordwrap.String(entry.text, journalWidth-2)) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render(wordwrap.String(entry.text, journalWidth-2)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.journalViewport.SetContent(content.String())
	m.journalViewport.GotoBottom()
}

func (m *ConsoleUI) appendEntry(kind entryKind, text string) {
	m.transcript = append(m.transcript, transcriptEntry{kind: kind, text: text})
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showBookModal {
		return m.loadBooks()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle book modal first
	if m.showBookModal {
		return m.updateBookModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.journalViewport, vpCmd = m.journalViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.showBookModal {
			journalWidth := int(float64(m.width)*0.75) - 4
			metaWidth := m.width - journalWidth - 6

			m.journalViewport.Width = journalWidth - 2
			m.journalViewport.Height = m.height - 7
			m.metaViewport.Width = metaWidth - 2
			m.metaViewport.Height = m.height - 4
			m.textarea.SetWidth(journalWidth - 4)

			m.ready = true
			m.writeJournalContent()

			if m.journal != nil {
				m.metaViewport.SetContent(writeMetadata(&m))
			}
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.pendingResponse = input

			r := rollDice()
			m.lastRoll = &r
			m.lastMovement = r.Movement()

			m.appendEntry(entryResponse, input)
			m.appendEntry(entryNotice, fmt.Sprintf("You rolled d10=%d, d6=%d (movement %+d).", r.D10, r.D6, r.Movement()))
			m.writeJournalContent()

			return m, tea.Batch(m.submitTurn(r, input), progressTick())
		}

	case turnResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.appendEntry(entryError, "Error: "+msg.err.Error())
			m.writeJournalContent()
			return m, nil
		}

		result := msg.result
		if result.Memory.Blocked() {
			m.capacityBlocked = true
			m.appendEntry(entryError, "Your memory pool is full. Archive keeps a memory but holds its slot; retire frees the slot for good. Use /retire N or /archive N, then press Enter to submit again.")
			m.writeJournalContent()
			m.metaViewport.SetContent(writeMetadata(&m))
			// The response was not recorded; restore it for resubmission.
			m.textarea.SetValue(m.pendingResponse)
			return m, nil
		}

		m.capacityBlocked = false
		m.pendingResponse = ""
		m.journal.Position = result.Position
		m.journal.Memories = result.Memories
		m.journal.TurnCounter = result.TurnCounter
		m.lastMovement = result.Movement

		m.appendEntry(entryPrompt, result.Position.String()+" — "+result.PromptText)
		if result.PlaceholderUsed {
			m.appendEntry(entryNotice, "(No prompt is written for this page.)")
		}
		m.writeJournalContent()
		m.metaViewport.SetContent(writeMetadata(&m))
		m.journalViewport.GotoBottom()
		return m, m.refreshJournal()

	case journalMsg:
		if msg.err != nil {
			m.appendEntry(entryError, "Error: "+msg.err.Error())
			m.writeJournalContent()
		} else if msg.journal != nil {
			m.journal = msg.journal
			if m.capacityBlocked && poolHasRoom(m.journal.Memories) {
				m.capacityBlocked = false
				m.appendEntry(entryNotice, "A memory slot is free. Press Enter to submit your entry again.")
				m.writeJournalContent()
			}
			m.metaViewport.SetContent(writeMetadata(&m))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeJournalContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.journalViewport, vpCmd = m.journalViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	cmd := fields[0]

	switch cmd {
	case "/help":
		m.appendEntry(entryNotice, `Commands:
/help - Show this help
/memories - Show your memory pool
/archive N - Archive memory N (keeps its slot)
/retire N - Retire memory N (frees its slot)
Ctrl+C - Quit

How to play:
Write your journal entry and press Enter. The dice are rolled
for you and the book turns to your next prompt.`)
		m.writeJournalContent()

	case "/memories":
		var text strings.Builder
		if len(m.journal.Memories) == 0 {
			text.WriteString("No memories yet. Your first entry will create one.")
		} else {
			text.WriteString(fmt.Sprintf("Memory pool (%d/%d slots used):\n", m.journal.Memories.ActiveCount(), memory.MaxActive))
			for i, mem := range m.journal.Memories {
				status := "open"
				switch {
				case mem.Retired:
					status = "retired"
				case mem.Archived:
					status = "archived"
				case len(mem.Experiences) >= memory.MaxExperiences:
					status = "full"
				}
				text.WriteString(fmt.Sprintf("%d. %s — %d/%d experiences, %s\n", i+1, mem.Title, len(mem.Experiences), memory.MaxExperiences, status))
			}
		}
		m.appendEntry(entryNotice, text.String())
		m.writeJournalContent()

	case "/archive", "/retire":
		action := strings.TrimPrefix(cmd, "/")
		if len(fields) < 2 {
			m.appendEntry(entryError, fmt.Sprintf("Usage: %s N (memory number from the side panel)", cmd))
			m.writeJournalContent()
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(m.journal.Memories) {
			m.appendEntry(entryError, fmt.Sprintf("No memory numbered %q. Use /memories to list them.", fields[1]))
			m.writeJournalContent()
			break
		}
		memoryID := m.journal.Memories[n-1].ID
		m.textarea.Reset()
		return m, m.memoryAction(memoryID, action)
	}

	m.textarea.Reset()
	return m, nil
}

func (m ConsoleUI) submitTurn(r roll.Roll, response string) tea.Cmd {
	return func() tea.Msg {
		result, err := submitTurn(m.client, m.config.APIBaseURL, m.journal.ID, r, response)
		return turnResultMsg{result, err}
	}
}

func (m ConsoleUI) refreshJournal() tea.Cmd {
	return func() tea.Msg {
		js, err := getJournal(m.client, m.config.APIBaseURL, m.journal.ID)
		return journalMsg{js, err}
	}
}

func (m ConsoleUI) memoryAction(memoryID, action string) tea.Cmd {
	return func() tea.Msg {
		js, err := memoryAction(m.client, m.config.APIBaseURL, m.journal.ID, memoryID, action)
		return journalMsg{js, err}
	}
}

func (m ConsoleUI) loadBooks() tea.Cmd {
	return func() tea.Msg {
		orderedNames, bookMap, err := listBooks(m.client, m.config.APIBaseURL)
		return booksLoadedMsg{orderedNames, bookMap, err}
	}
}

func (m ConsoleUI) createJournalFromBook(bookFile string) tea.Cmd {
	return func() tea.Msg {
		js, err := createJournal(m.client, m.config.APIBaseURL, bookFile)
		return journalCreatedMsg{js, err}
	}
}

func (m ConsoleUI) updateBookModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case booksLoadedMsg:
		m.loadingBooks = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.books = msg.books
			m.bookMap = msg.bookMap
		}

	case journalCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.journal = msg.journal
			m.showBookModal = false
			if m.width > 0 && m.height > 0 {
				journalWidth := int(float64(m.width)*0.75) - 4
				metaWidth := m.width - journalWidth - 6
				m.journalViewport.Width = journalWidth - 2
				m.journalViewport.Height = m.height - 7
				m.metaViewport.Width = metaWidth - 2
				m.metaViewport.Height = m.height - 4
				m.textarea.SetWidth(journalWidth - 4)
			}
			m.appendEntry(entryNotice, "Your journal begins at page "+m.journal.Position.String()+". Write your first entry below.")
			if len(m.journal.Memories) > 0 && len(m.journal.Memories[0].Experiences) > 0 {
				m.appendEntry(entryPrompt, m.journal.Memories[0].Title+" — "+m.journal.Memories[0].Experiences[0].Text)
			}
			m.writeJournalContent()
			m.metaViewport.SetContent(writeMetadata(&m))
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingBooks {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				m.showQuitModal = true
				return m, nil
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedBook > 0 {
				m.selectedBook--
			}
		case tea.KeyDown:
			if m.selectedBook < len(m.books)-1 {
				m.selectedBook++
			}
		case tea.KeyEnter:
			if len(m.books) > 0 {
				bookName := m.books[m.selectedBook]
				bookFile := m.bookMap[bookName]
				m.loading = true
				return m, m.createJournalFromBook(bookFile)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showBookModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Close Journal?"))
	content.WriteString("\n\n")
	content.WriteString("Your journal is saved. Come back any time.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderBookModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingBooks {
		content.WriteString(modalTitleStyle.Render("Loading Books..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available prompt books..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load books: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Opening Journal..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Preparing the first page..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Prompt Book"))
		content.WriteString("\n\n")

		for i, book := range m.books {
			if i == m.selectedBook {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", book)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", book)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showBookModal {
		return m.renderBookModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	journalWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - journalWidth - 6

	journalPanel := journalPanelStyle.Width(journalWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.journalViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", journalWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, journalPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.journalViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
