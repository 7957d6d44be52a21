package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/poker-equity/internal/config"
	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/equity"
	"github.com/lox/poker-equity/internal/evaluator"
	"github.com/lox/poker-equity/internal/fileutil"
	"github.com/lox/poker-equity/internal/notation"
	"github.com/lox/poker-equity/internal/statistics"
)

var CLI struct {
	Hands         []string      `arg:"" help:"Player hands: exact cards ('AcKd'), one card ('Ac'), 'random', a range ('TT+', '15%'), or a named range ('@premium')" required:"true"`
	Board         string        `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Exact         bool          `short:"e" help:"Enumerate every deal instead of sampling"`
	Iterations    int           `short:"i" help:"Number of Monte Carlo iterations" default:"0"`
	Seed          *int64        `help:"Random seed for reproducible results"`
	Workers       int           `short:"w" help:"Parallel workers (0 = all CPUs)"`
	Timeout       time.Duration `help:"Wall-clock budget; partial results are flagged"`
	Possibilities bool          `short:"p" help:"Show detailed hand type probabilities"`
	Output        string        `short:"o" help:"Write results as JSON to this file"`
	Config        string        `short:"c" default:"poker-equity.hcl" help:"Path to HCL configuration file"`
	LogLevel      string        `short:"l" help:"Log level (overrides config)"`
	Debug         bool          `short:"d" help:"Enable debug logging"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	equityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	logger := newLogger(cfg)

	players, err := parsePlayers(CLI.Hands, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		kctx.Exit(1)
	}

	var board []deck.Card
	if CLI.Board != "" {
		board, err = deck.ParseCards(CLI.Board)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			kctx.Exit(1)
		}
	}

	query := equity.Query{
		Players: players,
		Board:   board,
		Workers: CLI.Workers,
	}
	if query.Workers == 0 {
		query.Workers = cfg.Engine.Workers
	}
	if cfg.Engine.MaxExactCombos > 0 {
		query.MaxExactCombos = cfg.Engine.MaxExactCombos
	}

	iterations := CLI.Iterations
	if iterations == 0 {
		iterations = cfg.Engine.Iterations
	}
	if CLI.Exact {
		query.Strategy = equity.ExactStrategy()
	} else {
		query.Strategy = equity.MonteCarloStrategy(iterations)
		switch {
		case CLI.Seed != nil:
			query.Seed = *CLI.Seed
		case cfg.Engine.Seed != 0:
			query.Seed = cfg.Engine.Seed
		default:
			query.Seed = time.Now().UnixNano()
		}
	}

	timeout := CLI.Timeout
	if timeout == 0 && cfg.Engine.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Engine.TimeoutSeconds) * time.Second
	}

	var opts []equity.Option
	if timeout > 0 {
		opts = append(opts, equity.WithTimeBudget(timeout))
	}
	engine := equity.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("running query",
		"players", len(players),
		"board", deck.FormatCards(board),
		"exact", CLI.Exact,
		"seed", query.Seed)

	startTime := time.Now()
	results, err := engine.Calculate(ctx, query)
	duration := time.Since(startTime)
	if err != nil {
		logger.Error("calculation failed", "error", err)
		kctx.Exit(1)
	}

	displayResults(results, board, CLI.Possibilities, CLI.Exact, duration)

	if CLI.Output != "" {
		if err := writeResults(CLI.Output, results, board); err != nil {
			logger.Error("failed to write results", "error", err, "path", CLI.Output)
			kctx.Exit(1)
		}
		logger.Debug("wrote results", "path", CLI.Output)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := log.New(os.Stderr)
	level := cfg.Engine.LogLevel
	if CLI.LogLevel != "" {
		level = CLI.LogLevel
	}
	if CLI.Debug {
		level = "debug"
	}
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// parsePlayers turns each argument into a seat: exact hole cards when the
// token parses as one or two cards, the keyword "random" for an unknown hand,
// and range notation (or an "@name" config lookup) otherwise.
func parsePlayers(args []string, cfg *config.Config) ([]equity.Player, error) {
	players := make([]equity.Player, 0, len(args))
	for i, arg := range args {
		token := strings.TrimSpace(arg)
		player := equity.Player{Name: token}

		switch {
		case strings.EqualFold(token, "random"):
			// No hole cards; the engine deals them with the board.

		case strings.HasPrefix(token, "@"):
			hands, ok := cfg.LookupRange(token[1:])
			if !ok {
				return nil, fmt.Errorf("hand %d: no range named %q in config", i+1, token[1:])
			}
			r, err := notation.ParseRange(hands)
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", i+1, err)
			}
			player.Range = &r

		default:
			compact := strings.ReplaceAll(token, " ", "")
			if cards, err := deck.ParseCards(compact); err == nil && len(cards) <= 2 {
				player.Hole = cards
				break
			}
			r, err := notation.ParseRange(compact)
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", i+1, err)
			}
			player.Range = &r
		}
		players = append(players, player)
	}
	return players, nil
}

func displayResults(results []equity.Result, board []deck.Card, showPossibilities, exact bool, duration time.Duration) {
	if len(board) > 0 {
		fmt.Printf("%s\n", headerStyle.Render("board"))
		fmt.Printf("%s\n\n", deck.FormatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"))

	for _, r := range results {
		equityCol := fmt.Sprintf("%.2f%%", r.Equity()*100)
		if !exact {
			// Sampled results carry a 95% margin of error.
			est := statistics.EquityEstimate(r.Wins, r.SplitCounts, r.TotalDeals)
			equityCol = fmt.Sprintf("%.2f%% ±%.2f", est.Mean*100, est.MarginOfError()*100)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			handStyle.Render(r.Player),
			equityStyle.Render(equityCol),
			winStyle.Render(fmt.Sprintf("%.1f%%", r.WinPct()*100)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", r.TiePct()*100)))
	}
	w.Flush()

	if showPossibilities {
		fmt.Printf("\n")
		displayPossibilities(results)
	}

	fmt.Printf("\n")
	fmt.Printf("%d deals in %v\n", results[0].TotalDeals, duration.Truncate(time.Millisecond))
	if results[0].Undersampled {
		fmt.Printf("%s\n", warnStyle.Render("stopped early: results cover fewer deals than requested"))
	}
}

func displayPossibilities(results []equity.Result) {
	if results[0].TotalDeals == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s", categoryStyle.Render("hand"))
	for _, r := range results {
		fmt.Fprintf(w, "\t%s", handStyle.Render(r.Player))
	}
	fmt.Fprintf(w, "\n")

	for cat := evaluator.StraightFlush; ; cat-- {
		fmt.Fprintf(w, "%s", categoryStyle.Render(cat.String()))
		for _, r := range results {
			pct := float64(r.Categories[cat]) / float64(r.TotalDeals) * 100
			fmt.Fprintf(w, "\t%.1f%%", pct)
		}
		fmt.Fprintf(w, "\n")
		if cat == evaluator.HighCard {
			break
		}
	}
	w.Flush()
}

// resultJSON is the exported shape of one player's outcome.
type resultJSON struct {
	Player       string  `json:"player"`
	Equity       float64 `json:"equity"`
	WinPct       float64 `json:"win_pct"`
	TiePct       float64 `json:"tie_pct"`
	Wins         uint64  `json:"wins"`
	TiedDeals    uint64  `json:"tied_deals"`
	Losses       uint64  `json:"losses"`
	TotalDeals   uint64  `json:"total_deals"`
	Undersampled bool    `json:"undersampled,omitempty"`
}

func writeResults(path string, results []equity.Result, board []deck.Card) error {
	out := struct {
		Board   string       `json:"board,omitempty"`
		Results []resultJSON `json:"results"`
	}{Board: deck.FormatCards(board)}

	for _, r := range results {
		out.Results = append(out.Results, resultJSON{
			Player:       r.Player,
			Equity:       r.Equity(),
			WinPct:       r.WinPct(),
			TiePct:       r.TiePct(),
			Wins:         r.Wins,
			TiedDeals:    r.TiedDeals,
			Losses:       r.Losses,
			TotalDeals:   r.TotalDeals,
			Undersampled: r.Undersampled,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
