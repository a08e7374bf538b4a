package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/service"
	"github.com/hamyonapp/hamyon/internal/stats"
)

var errQuit = errors.New("quit")

type chatMode int

const (
	modeFree chatMode = iota
	modePickCategory
	modePickType
)

// Chat is the terminal presenter over the draft engine: the same
// parse/propose/confirm loop the Telegram surface runs, driven by stdin.
type Chat struct {
	engine  *draft.Engine
	parser  *nlp.Parser
	storage service.Storage
	reader  *LineReader
	writer  io.Writer
	userID  int64
	current string
	mode    chatMode
	// picks holds the numbered category keys offered by the last "c" command.
	picks []string
}

// NewChat creates an interactive session for one local user.
func NewChat(engine *draft.Engine, parser *nlp.Parser, storage service.Storage, in io.Reader, out io.Writer, userID int64) *Chat {
	return &Chat{
		engine:  engine,
		parser:  parser,
		storage: storage,
		reader:  NewLineReader(in),
		writer:  out,
		userID:  userID,
	}
}

// Run reads lines until EOF, "quit", or context cancellation.
func (c *Chat) Run(ctx context.Context) error {
	fmt.Fprintln(c.writer, FormatTitle("Hamyon"))
	fmt.Fprintln(c.writer, SubtleStyle.Render(`Type an entry like "taksi 15000", or "help" for commands.`))

	for {
		fmt.Fprint(c.writer, FormatPrompt("hamyon"))
		line, err := c.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, ErrInputCancelled) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.writer, "\n"+FormatInfo("Bye!"))
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if err := c.handleLine(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(c.writer, FormatInfo("Bye!"))
				return nil
			}
			return err
		}
	}
}

func (c *Chat) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch c.mode {
	case modePickCategory:
		c.pickCategory(line)
		return nil
	case modePickType:
		c.pickType(line)
		return nil
	}

	switch strings.ToLower(line) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		c.printHelp()
		return nil
	case "balance", "b":
		c.printBalance(ctx)
		return nil
	case "report":
		c.printReport(ctx)
		return nil
	}

	if c.current != "" {
		if handled := c.draftCommand(ctx, strings.ToLower(line)); handled {
			return nil
		}
	}

	c.freeText(line)
	return nil
}

// draftCommand applies single-letter decisions against the current draft.
// Unknown input falls through to free-text handling.
func (c *Chat) draftCommand(ctx context.Context, cmd string) bool {
	var (
		view *draft.View
		err  error
	)
	switch cmd {
	case "y", "yes", "ok":
		view, err = c.engine.Confirm(ctx, c.userID, c.current)
	case "e", "edit":
		view, err = c.engine.BeginEdit(c.userID, c.current)
	case "n", "no", "cancel":
		view, err = c.engine.Cancel(c.userID, c.current)
	case "back":
		view, err = c.engine.Back(c.userID, c.current)
	case "a", "amount":
		view, err = c.engine.PickField(c.userID, c.current, model.FieldAmount)
	case "d", "desc":
		view, err = c.engine.PickField(c.userID, c.current, model.FieldDescription)
	case "c", "category":
		c.offerCategories()
		return true
	case "t", "type":
		c.offerTypes()
		return true
	default:
		return false
	}

	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			fmt.Fprintln(c.writer, FormatWarning("That draft is gone."))
			c.current = ""
			return true
		}
		fmt.Fprintln(c.writer, FormatError(err.Error()))
		return true
	}
	c.show(view)
	return true
}

func (c *Chat) freeText(line string) {
	view, handled, err := c.engine.HandleText(c.userID, line)
	if handled {
		if err != nil {
			fmt.Fprintln(c.writer, FormatWarning("That draft is gone."))
			c.current = ""
			return
		}
		c.show(view)
		return
	}

	entries := c.parser.ParseMulti(line)
	if len(entries) == 0 {
		fmt.Fprintln(c.writer, FormatWarning(`Could not read that. Try "taksi 15000" or "oylik 5 mln".`))
		return
	}

	for _, entry := range entries {
		view, err := c.engine.Create(c.userID, entry, model.SourceText, "")
		if err != nil {
			fmt.Fprintln(c.writer, FormatError(err.Error()))
			continue
		}
		c.show(view)
	}
}

func (c *Chat) offerCategories() {
	view, err := c.engine.Show(c.userID, c.current)
	if err != nil {
		fmt.Fprintln(c.writer, FormatWarning("That draft is gone."))
		c.current = ""
		return
	}

	cats := c.parser.Vocabulary().Categories(view.Draft.Type)
	c.picks = c.picks[:0]
	for i, cat := range cats {
		fmt.Fprintf(c.writer, "  %d. %s\n", i+1, cat.Label(model.LangEn))
		c.picks = append(c.picks, cat.Key)
	}
	fmt.Fprint(c.writer, FormatPrompt("category #"))
	c.mode = modePickCategory
}

func (c *Chat) pickCategory(line string) {
	c.mode = modeFree
	i, err := strconv.Atoi(line)
	if err != nil || i < 1 || i > len(c.picks) {
		fmt.Fprintln(c.writer, FormatWarning("Pick a number from the list."))
		return
	}

	view, err := c.engine.PickCategory(c.userID, c.current, c.picks[i-1])
	if err != nil {
		fmt.Fprintln(c.writer, FormatWarning("That draft is gone."))
		c.current = ""
		return
	}
	c.show(view)
}

func (c *Chat) offerTypes() {
	fmt.Fprintln(c.writer, "  1. expense\n  2. income\n  3. debt")
	fmt.Fprint(c.writer, FormatPrompt("type #"))
	c.mode = modePickType
}

func (c *Chat) pickType(line string) {
	c.mode = modeFree
	types := map[string]model.TxType{"1": model.TxExpense, "2": model.TxIncome, "3": model.TxDebt}
	txType, ok := types[strings.TrimSpace(line)]
	if !ok {
		fmt.Fprintln(c.writer, FormatWarning("Pick 1, 2, or 3."))
		return
	}

	view, err := c.engine.PickType(c.userID, c.current, txType)
	if err != nil {
		fmt.Fprintln(c.writer, FormatWarning("That draft is gone."))
		c.current = ""
		return
	}
	c.show(view)
}

// show renders a view and tracks which draft the next decision applies to.
func (c *Chat) show(v *draft.View) {
	switch v.State {
	case model.StateProposed:
		c.current = v.Draft.ID
		fmt.Fprintln(c.writer, RenderBox("Draft", c.card(v.Draft)))
		fmt.Fprintln(c.writer, SubtleStyle.Render("y = save, e = edit, n = cancel"))

	case model.StateEditMenu:
		c.current = v.Draft.ID
		fmt.Fprintln(c.writer, RenderBox("Edit", c.card(v.Draft)))
		fmt.Fprintln(c.writer, SubtleStyle.Render("c = category, a = amount, d = description, t = type, back"))

	case model.StateEditingAmount:
		c.current = v.Draft.ID
		if v.Retry {
			fmt.Fprintln(c.writer, FormatWarning("Could not read that amount."))
		}
		fmt.Fprintln(c.writer, FormatInfo("Enter the amount:"))

	case model.StateEditingDescription:
		c.current = v.Draft.ID
		fmt.Fprintln(c.writer, FormatInfo("Enter the description:"))

	case model.StateSaved:
		c.current = ""
		msg := "Saved"
		if v.Receipt != nil && v.Receipt.Duplicate {
			msg = "Already saved"
		}
		fmt.Fprintln(c.writer, FormatSuccess(msg))
		if v.Receipt != nil && v.Draft.Type != model.TxDebt {
			fmt.Fprintln(c.writer, InfoStyle.Render("Balance: "+stats.FormatMoney(v.Receipt.Balance)))
		}

	case model.StateCancelled:
		c.current = ""
		fmt.Fprintln(c.writer, FormatInfo("Cancelled."))

	default:
		fmt.Fprintln(c.writer, c.card(v.Draft))
	}
}

func (c *Chat) card(d model.Draft) string {
	vocab := c.parser.Vocabulary()
	lines := []string{
		"Type:     " + string(d.Type),
		"Category: " + vocab.Label(d.Category, model.LangEn),
		"Amount:   " + stats.FormatMoney(d.Amount),
	}
	if d.Description != "" {
		lines = append(lines, "Note:     "+d.Description)
	}
	if d.Merchant != "" {
		lines = append(lines, "Merchant: "+d.Merchant)
	}
	return strings.Join(lines, "\n")
}

func (c *Chat) printHelp() {
	fmt.Fprintln(c.writer, RenderBox("Commands", strings.Join([]string{
		`<category> <amount>   propose an entry, e.g. "taksi 15000"`,
		"y / e / n             save, edit, or cancel the shown draft",
		"balance               show balance and today's totals",
		"report                show the last 7 days",
		"quit                  leave",
	}, "\n")))
}

func (c *Chat) printBalance(ctx context.Context) {
	balance, err := c.storage.GetBalance(ctx, c.userID)
	if err != nil {
		fmt.Fprintln(c.writer, FormatError("Could not read balance: "+err.Error()))
		return
	}
	fmt.Fprintln(c.writer, InfoStyle.Render("Balance: "+stats.FormatMoney(balance)))

	today, err := c.storage.TodayStats(ctx, c.userID)
	if err != nil {
		return
	}
	fmt.Fprintf(c.writer, "Today: -%s / +%s over %d entries\n",
		stats.FormatMoney(today.Expenses), stats.FormatMoney(today.Income), today.Count)
}

func (c *Chat) printReport(ctx context.Context) {
	period, err := c.storage.PeriodStats(ctx, c.userID, 7)
	if err != nil {
		fmt.Fprintln(c.writer, FormatError("Could not build report: "+err.Error()))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Expenses: %s\n", stats.FormatMoney(period.Expenses))
	fmt.Fprintf(&sb, "Income:   %s\n", stats.FormatMoney(period.Income))
	fmt.Fprintf(&sb, "Entries:  %d", period.Count)

	vocab := c.parser.Vocabulary()
	for _, share := range stats.TopCategories(period, 5) {
		fmt.Fprintf(&sb, "\n  %s: %s", vocab.Label(share.Category, model.LangEn), stats.FormatMoney(share.Amount))
	}
	fmt.Fprintln(c.writer, RenderBox("Last 7 days", sb.String()))
}
