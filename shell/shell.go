// Package shell is an interactive client for games served by any
// api.Backend, in process or over NATS.
package shell

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/automatic"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
)

var errNoData = errors.New("no data in this line")

//go:embed helptext/usage.txt
var usageText string

const requestTimeout = 10 * time.Second

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// seat is a player this session joined as.
type seat struct {
	id    string
	order int
}

// ShellController runs one interactive session. autoplay picks moves with
// dict; seats holds the seats joined in the current game, by order.
type ShellController struct {
	l       *readline.Instance
	backend api.Backend
	dict    lexicon.Dictionary

	gameID  string
	seats   map[int]seat
	current int

	autoMu     sync.Mutex
	autoCancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(backend api.Backend, dict lexicon.Dictionary) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtilegrid>\033[0m ",
		HistoryFile:     "/tmp/tilegrid-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(backend, dict)
	sc.l = l
	return sc
}

func newController(backend api.Backend, dict lexicon.Dictionary) *ShellController {
	return &ShellController{backend: backend, dict: dict, seats: map[int]seat{}, current: -1}
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) needGame() error {
	if sc.gameID == "" {
		return errors.New("no current game; use `new` or `game <id>`")
	}
	return nil
}

func (sc *ShellController) currentSeat() (seat, error) {
	s, ok := sc.seats[sc.current]
	if !ok {
		return seat{}, errors.New("you have not joined this game; use `join`")
	}
	return s, nil
}

func (sc *ShellController) newGame(ctx context.Context, args []string) (*Response, error) {
	req := api.CreateGameRequest{}
	var err error
	if len(args) > 0 {
		if req.Size, err = strconv.Atoi(args[0]); err != nil {
			return nil, errors.New("new [size] [players]")
		}
	}
	if len(args) > 1 {
		if req.MaxPlayers, err = strconv.Atoi(args[1]); err != nil {
			return nil, errors.New("new [size] [players]")
		}
	}
	resp, err := sc.backend.CreateGame(ctx, req)
	if err != nil {
		return nil, err
	}
	sc.setGame(resp.ID)
	return msg("created game " + resp.ID), nil
}

func (sc *ShellController) setGame(id string) {
	sc.gameID = id
	sc.seats = map[int]seat{}
	sc.current = -1
}

func (sc *ShellController) switchGame(ctx context.Context, args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("game <id>")
	}
	if _, err := sc.backend.GetGame(ctx, args[0], ""); err != nil {
		return nil, err
	}
	sc.setGame(args[0])
	return msg("current game is " + args[0]), nil
}

func (sc *ShellController) join(ctx context.Context) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	resp, err := sc.backend.JoinGame(ctx, sc.gameID)
	if err != nil {
		return nil, err
	}
	sc.seats[resp.Order] = seat{id: resp.ID, order: resp.Order}
	sc.current = resp.Order
	return msg(fmt.Sprintf("joined as player %d (%s), rack %s", resp.Order, resp.ID, resp.Rack)), nil
}

func (sc *ShellController) switchSeat(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("seat <order>")
	}
	order, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, err
	}
	if _, ok := sc.seats[order]; !ok {
		return nil, fmt.Errorf("seat %d was not joined in this session", order)
	}
	sc.current = order
	return msg(fmt.Sprintf("acting as player %d", order)), nil
}

func (sc *ShellController) show(ctx context.Context) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	var playerID string
	if s, err := sc.currentSeat(); err == nil {
		playerID = s.id
	}
	gr, err := sc.backend.GetGame(ctx, sc.gameID, playerID)
	if err != nil {
		return nil, err
	}
	return msg(gameDisplay(gr)), nil
}

func gameDisplay(gr *api.GameResponse) string {
	var sb strings.Builder
	b, err := board.FromString(gr.Size, gr.Board)
	if err != nil {
		fmt.Fprintf(&sb, "bad board: %v\n", err)
	} else {
		sb.WriteString(b.ToDisplayText(true))
	}
	fmt.Fprintf(&sb, "game %s: %s, move %d, pool %d\n", gr.ID, gr.Status, gr.NextMove, gr.Pool)
	players := append([]api.PlayerSummary(nil), gr.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].Order < players[j].Order })
	for _, p := range players {
		marker := "   "
		if gr.Status == "playing" && p.Order == gr.NextPlayer {
			marker = "-> "
		}
		fmt.Fprintf(&sb, "%splayer %d  %d\n", marker, p.Order, p.Score)
	}
	if gr.Player != nil {
		fmt.Fprintf(&sb, "your rack: %s\n", gr.Player.Rack)
	}
	return sb.String()
}

// placementArgs accepts "112 C 113 A", "112,C,113,A" or any mix.
func placementArgs(args []string) (string, error) {
	var tokens []string
	for _, a := range args {
		for _, t := range strings.Split(a, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}
	if len(tokens)%2 != 0 {
		return "", errors.New("play <pos> <letter> [<pos> <letter> ...]")
	}
	ps, err := move.PlacementsFromTokens(tokens)
	if err != nil {
		return "", err
	}
	return move.EncodePlacements(ps), nil
}

func (sc *ShellController) play(ctx context.Context, args []string) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	s, err := sc.currentSeat()
	if err != nil {
		return nil, err
	}
	placements, err := placementArgs(args)
	if err != nil {
		return nil, err
	}
	gr, err := sc.backend.GetGame(ctx, sc.gameID, "")
	if err != nil {
		return nil, err
	}
	resp, err := sc.backend.SubmitMove(ctx, sc.gameID, s.id, gr.NextMove,
		api.SubmitMoveRequest{Placements: placements})
	if err != nil {
		return nil, err
	}
	out := fmt.Sprintf("scored %d, total %d, new rack %s; player %d is next",
		resp.Score, resp.Player.Score, resp.Player.Rack, resp.Game.NextPlayer)
	if next, ok := sc.seats[resp.Game.NextPlayer]; ok {
		sc.current = next.order
	}
	return msg(out), nil
}

func (sc *ShellController) getMove(ctx context.Context, args []string) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errors.New("move <seq>")
	}
	seq, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, err
	}
	mr, err := sc.backend.GetMove(ctx, sc.gameID, seq)
	if err != nil {
		return nil, err
	}
	ps, err := move.ParsePlacements(mr.Placements)
	if err != nil {
		return nil, err
	}
	m := &move.Move{Seq: mr.Seq, PlayerID: mr.Player, Placements: ps, Score: mr.Score}
	return msg(m.ShortDescription() + " by " + m.PlayerID), nil
}

func (sc *ShellController) export(ctx context.Context, args []string) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	tr, err := sc.backend.Transcript(ctx, sc.gameID)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		var sb strings.Builder
		if err := tr.Write(&sb); err != nil {
			return nil, err
		}
		return msg(sb.String()), nil
	}
	f, err := os.Create(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := tr.Write(f); err != nil {
		return nil, err
	}
	return msg("wrote transcript to " + args[0]), nil
}

func (sc *ShellController) autoplay(args []string) (*Response, error) {
	nums := []int{1, 20}
	for i := 0; i < len(args) && i < len(nums); i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, errors.New("autoplay [games] [turns] [logfile]")
		}
		nums[i] = n
	}
	var logw io.Writer
	if len(args) > 2 {
		f, err := os.Create(args[2])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		logw = f
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.autoMu.Lock()
	sc.autoCancel = cancel
	sc.autoMu.Unlock()
	defer func() {
		sc.autoMu.Lock()
		sc.autoCancel = nil
		sc.autoMu.Unlock()
		cancel()
	}()

	summary, err := automatic.StartCompVCompGames(ctx, sc.backend, sc.dict,
		api.CreateGameRequest{}, nums[0], 1, nums[1], logw)
	var sb strings.Builder
	switch {
	case errors.Is(err, context.Canceled):
		sb.WriteString("stopped early\n")
	case err != nil:
		return nil, err
	}
	for _, r := range summary.Results {
		fmt.Fprintf(&sb, "%s: %d turns, scores %v\n", r.GameID, r.Turns, r.Scores)
	}
	fmt.Fprintf(&sb, "%d games, %d failed, mean score %.2f, top score %d",
		summary.Games, summary.Failed, summary.MeanScore, summary.TopScore)
	return msg(sb.String()), nil
}

// StopAutoplay cancels a running autoplay batch. It reports whether one
// was running.
func (sc *ShellController) StopAutoplay() bool {
	sc.autoMu.Lock()
	defer sc.autoMu.Unlock()
	if sc.autoCancel == nil {
		return false
	}
	sc.autoCancel()
	return true
}

func (sc *ShellController) handle(line string) (*Response, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd, args := fields[0], fields[1:]
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch cmd {
	case "new", "n":
		return sc.newGame(ctx, args)
	case "game", "g":
		return sc.switchGame(ctx, args)
	case "join", "j":
		return sc.join(ctx)
	case "seat":
		return sc.switchSeat(args)
	case "show", "s", "b":
		return sc.show(ctx)
	case "play", "pl", "p":
		return sc.play(ctx, args)
	case "pass", "pa":
		return sc.play(ctx, nil)
	case "move", "m":
		return sc.getMove(ctx, args)
	case "export":
		return sc.export(ctx, args)
	case "autoplay", "auto":
		return sc.autoplay(args)
	case "help", "h":
		return msg(usageText), nil
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, for non-interactive use.
func (sc *ShellController) Execute(line string) error {
	resp, err := sc.handle(line)
	if err != nil {
		return err
	}
	fmt.Println(resp.message)
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
