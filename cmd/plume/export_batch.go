package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
)

// ErrServiceInit indicates the export service could not be initialized.
var ErrServiceInit = errors.New("failed to initialize export service")

// exportTask pairs a library book with its output path.
type exportTask struct {
	Book       store.Book
	OutputPath string
}

// exportResult holds the outcome of exporting one book.
type exportResult struct {
	Title      string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// exportParams groups parameters shared across batch exports.
type exportParams struct {
	flags   *exportFlags
	cfg     *config.Config
	css     string
	format  string
	baseDir string
	now     func() time.Time
}

// exportAll exports every book in the library through a service pool.
func exportAll(ctx context.Context, flags *exportFlags, cfg *config.Config,
	css, format, outputSpec string, timeout time.Duration, env *Environment,
) error {
	st, err := openLibrary(flags.library, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	books, err := st.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return fmt.Errorf("%w: the library is empty%s", ErrNoInput, hints.ForBookNotFound())
	}

	tasks := make([]exportTask, len(books))
	for i, b := range books {
		tasks[i] = exportTask{
			Book:       b,
			OutputPath: resolveExportOutputPath("", outputSpec, format, plume.Book{Title: b.Title}),
		}
	}

	poolSize := plume.ResolvePoolSize(cfg.Export.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := plume.NewServicePool(poolSize, serviceOptions(cfg, timeout)...)
	defer pool.Close()

	params := &exportParams{
		flags:   flags,
		cfg:     cfg,
		css:     css,
		format:  format,
		baseDir: flags.baseDir,
		now:     env.Now,
	}

	results := exportBatch(ctx, pool, st, tasks, params)

	failed := printExportResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}

// exportBatch processes tasks concurrently using services from the pool.
// Results keep the task order.
func exportBatch(ctx context.Context, pool *plume.ServicePool, st *store.Store,
	tasks []exportTask, params *exportParams,
) []exportResult {
	if len(tasks) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	results := make([]exportResult, len(tasks))
	var wg sync.WaitGroup
	jobs := make(chan int, len(tasks))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				// Service creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = exportResult{
						Title: tasks[idx].Book.Title,
						Err:   fmt.Errorf("%w: %v", ErrServiceInit, err),
					}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = exportResult{
						Title: tasks[idx].Book.Title,
						Err:   ctx.Err(),
					}
					continue
				}
				results[idx] = exportLibraryBook(ctx, svc, st, tasks[idx], params)
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportLibraryBook exports a single library book and returns the result.
func exportLibraryBook(ctx context.Context, svc *plume.Service, st *store.Store,
	task exportTask, params *exportParams,
) exportResult {
	start := time.Now()
	result := exportResult{Title: task.Book.Title, OutputPath: task.OutputPath}

	chapters, err := st.Chapters(ctx, task.Book.ID)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	book := plume.Book{
		Title:    task.Book.Title,
		Author:   task.Book.Author,
		Language: task.Book.Language,
		Date:     task.Book.Date,
		Chapters: fromStoreChapters(chapters),
	}
	sourceDate := book.Date
	book = fillBookFromConfig(book, params.cfg)
	if params.format == formatMarkdown {
		book.Date = sourceDate
	}
	book = applyBookFlagOverrides(book, params.flags)
	book, err = resolveBookDate(book, params.now)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	input := buildExportInput(book, params.cfg, params.css, params.baseDir)

	data, err := exportData(ctx, svc, params.format, input)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(task.OutputPath, data); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// printExportResults outputs batch results and returns the failure count.
func printExportResults(results []exportResult, quiet, verbose bool, env *Environment) int {
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Title, r.Err)
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n",
				r.Title, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed
}
