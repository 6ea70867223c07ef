package automatic

// Computer vs computer games, for load and data collection.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/lexicon"
)

var (
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying  = expvar.NewInt("isPlaying")
)

var playingMu sync.Mutex

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// Summary aggregates the results of a batch of games.
type Summary struct {
	Games     int
	Failed    int
	Turns     int
	MeanScore float64
	TopScore  int
	Results   []*Result
}

type job struct{}

// StartCompVCompGames plays numGames games on the given number of
// threads and waits for them. Each turn is logged to logw as CSV when
// logw is not nil; a failed write is returned along with the summary.
// Cancelling ctx stops queueing new games.
func StartCompVCompGames(ctx context.Context, backend api.Backend, dict lexicon.Dictionary,
	opts api.CreateGameRequest, numGames, threads, maxTurns int, logw io.Writer) (*Summary, error) {

	if numGames <= 0 {
		return nil, errNoGames
	}
	if threads <= 0 {
		threads = 1
	}
	playingMu.Lock()
	if IsPlaying.Value() > 0 {
		playingMu.Unlock()
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Set(int64(threads))
	playingMu.Unlock()
	defer IsPlaying.Set(0)
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)
	CVCCounter.Set(0)

	var logChan chan string
	var logErr error
	loggerDone := make(chan struct{})
	if logw != nil {
		logChan = make(chan string, 100)
		go func() {
			defer close(loggerDone)
			_, logErr = io.WriteString(logw, LogHeader)
			// keep draining after a failed write so players never block
			for msg := range logChan {
				if logErr == nil {
					_, logErr = io.WriteString(logw, msg)
				}
			}
		}()
	} else {
		close(loggerDone)
	}

	jobs := make(chan job, 100)
	var mu sync.Mutex
	summary := &Summary{}
	var wg sync.WaitGroup
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			defer wg.Done()
			r := NewGameRunner(backend, dict, opts, maxTurns, logChan)
			for range jobs {
				res, err := r.PlayGame(ctx)
				mu.Lock()
				if err != nil {
					log.Err(err).Msg("automatic-game-failed")
					summary.Failed++
				} else {
					summary.Results = append(summary.Results, res)
				}
				mu.Unlock()
				CVCCounter.Add(1)
			}
		}()
	}

gameLoop:
	for i := 1; i <= numGames; i++ {
		select {
		case <-ctx.Done():
			log.Info().Msg("Got stop signal, exiting soon...")
			break gameLoop
		case jobs <- job{}:
		}
	}
	close(jobs)
	wg.Wait()
	if logChan != nil {
		close(logChan)
	}
	<-loggerDone

	summary.Games = len(summary.Results)
	summary.Turns = lo.SumBy(summary.Results, func(r *Result) int { return r.Turns })
	scores := lo.FlatMap(summary.Results, func(r *Result, _ int) []int { return r.Scores })
	if len(scores) > 0 {
		summary.MeanScore = float64(lo.Sum(scores)) / float64(len(scores))
		summary.TopScore = lo.Max(scores)
	}
	log.Info().Int("games", summary.Games).Int("failed", summary.Failed).
		Float64("mean-score", summary.MeanScore).Msg("All games finished.")
	if logErr != nil {
		return summary, fmt.Errorf("writing turn log: %w", logErr)
	}
	return summary, ctx.Err()
}
