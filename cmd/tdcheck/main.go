// Command tdcheck replays every game record under a directory and reports
// the ones that fail. PGN files are replayed move by move; FEN files are
// loaded position by position.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/archive"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/pgnfile"
)

func main() {
	dir := flag.String("dir", "", "directory to scan for .pgn and .fen files")
	threads := flag.Int("threads", runtime.NumCPU(), "replay workers")
	out := flag.String("out", "", "parquet file for game summaries (optional)")
	charset := flag.String("charset", "auto", "input charset: auto, utf-8, latin1, windows-1252")
	flag.Parse()

	if *dir == "" {
		fatal(fmt.Errorf("-dir is required"))
	}
	cs, err := pgnfile.ParseCharset(*charset)
	if err != nil {
		fatal(err)
	}
	if *threads < 1 {
		*threads = 1
	}

	start := time.Now()
	st, err := run(context.Background(), *dir, *threads, *out, cs)
	if err != nil {
		fatal(err)
	}
	log.Printf("%d records, %d failed, %v", st.total, st.failed, time.Since(start).Round(time.Millisecond))
	if st.failed > 0 {
		os.Exit(1)
	}
}

type job struct {
	source string
	index  int
	text   string
	fen    bool
}

type stats struct {
	total  int64
	failed int64
}

func run(ctx context.Context, dir string, threads int, out string, cs pgnfile.Charset) (stats, error) {
	var st stats
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan job)
	results := make(chan archive.GameSummary)

	g.Go(func() error {
		defer close(jobs)
		return loadRecords(ctx, dir, cs, jobs)
	})

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return replay(ctx, jobs, results, &st)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		if out == "" {
			for range results {
			}
			return nil
		}
		return archive.Write(out, results, int64(threads))
	})

	err := g.Wait()
	return stats{total: atomic.LoadInt64(&st.total), failed: atomic.LoadInt64(&st.failed)}, err
}

func loadRecords(ctx context.Context, dir string, cs pgnfile.Charset, jobs chan<- job) error {
	files, err := pgnfile.Collect(dir, ".pgn", ".fen")
	if err != nil {
		return err
	}
	for _, path := range files {
		isFEN := strings.EqualFold(filepath.Ext(path), ".fen")
		var records []string
		if isFEN {
			records, err = pgnfile.ReadFENs(path, cs)
		} else {
			records, err = pgnfile.ReadGames(path, cs)
		}
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		for i, text := range records {
			select {
			case jobs <- job{source: rel, index: i, text: text, fen: isFEN}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func replay(ctx context.Context, jobs <-chan job, results chan<- archive.GameSummary, st *stats) error {
	for j := range jobs {
		var (
			e   *game.Engine
			err error
		)
		if j.fen {
			if e, err = game.NewEngineFromFEN(j.text); err == nil {
				e.Start()
			}
		} else {
			e, err = game.ParsePGN(j.text)
		}
		atomic.AddInt64(&st.total, 1)

		var s archive.GameSummary
		if err != nil {
			atomic.AddInt64(&st.failed, 1)
			log.Printf("%s #%d: %v", j.source, j.index+1, err)
			s = archive.GameSummary{Source: j.source, Index: int32(j.index), Error: err.Error()}
		} else {
			s = archive.Summarize(j.source, j.index, e)
		}
		select {
		case results <- s:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
