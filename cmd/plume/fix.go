package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/yamlutil"
)

// fixResult holds the outcome of fixing a single file.
type fixResult struct {
	Path     string
	Output   string // fixed text, kept for stdout mode
	Changed  bool
	Err      error
	Duration time.Duration
}

// runFix normalizes French typography in the given files or directories.
// Without arguments it filters stdin to stdout.
func runFix(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseFixFlags(args)
	if err != nil {
		return err
	}

	if flags.write && flags.check {
		return fmt.Errorf("%w: --write and --check are mutually exclusive", ErrFlagConflict)
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	if len(paths) == 0 {
		return fixStdin(flags, env)
	}

	files, err := discoverManuscripts(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files under %s", ErrNoInput, strings.Join(paths, ", "))
	}

	results := fixBatch(ctx, files, flags.write, resolveFixWorkers(flags.workers, len(files)))
	return printFixResults(results, flags, env)
}

// fixStdin filters one manuscript from stdin to stdout.
func fixStdin(flags *fixFlags, env *Environment) error {
	if flags.write || flags.check {
		return fmt.Errorf("%w: --write and --check need file arguments", ErrFlagConflict)
	}

	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}
	if len(content) > plume.MaxManuscriptSize {
		return fmt.Errorf("%w: %d bytes (max %d)",
			plume.ErrManuscriptTooLarge, len(content), plume.MaxManuscriptSize)
	}

	fmt.Fprint(env.Stdout, fixText(string(content)))
	return nil
}

// fixText runs the typographic pipeline over a manuscript, leaving any YAML
// front matter untouched. Quotes inside the metadata block are YAML syntax,
// not prose.
func fixText(text string) string {
	meta, body, err := yamlutil.SplitFrontMatter(text)
	if err != nil {
		return plume.NormalizeTypography(text)
	}
	return "---\n" + meta + "---\n" + plume.NormalizeTypography(body)
}

// resolveFixWorkers picks the batch concurrency. Typography is CPU-bound, so
// the default is one worker per processor, never more than there are files.
func resolveFixWorkers(flagWorkers, fileCount int) int {
	n := flagWorkers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > fileCount {
		n = fileCount
	}
	return n
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// fixBatch processes files concurrently. Results keep the input order so
// stdout mode prints files in the order they were named.
func fixBatch(ctx context.Context, files []string, write bool, workers int) []fixResult {
	results := make([]fixResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = fixResult{Path: files[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = fixFile(files[idx], write)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// fixFile fixes a single file and returns the result.
func fixFile(path string, write bool) fixResult {
	start := time.Now()
	result := fixResult{Path: path}

	content, err := readManuscript(path)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Output = fixText(content)
	result.Changed = result.Output != content

	if write && result.Changed {
		// #nosec G306 -- manuscripts keep their readable permissions
		if err := os.WriteFile(path, []byte(result.Output), filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// printFixResults reports batch outcomes per mode: fixed text on stdout by
// default, changed paths under --check, per-file confirmations under --write.
func printFixResults(results []fixResult, flags *fixFlags, env *Environment) error {
	var failed, changed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}
		if r.Changed {
			changed++
		}

		switch {
		case flags.check:
			if r.Changed {
				fmt.Fprintln(env.Stdout, r.Path)
			}
		case flags.write:
			if flags.common.quiet || !r.Changed {
				continue
			}
			if flags.common.verbose {
				fmt.Fprintf(env.Stdout, "Fixed %s (%v)\n", r.Path, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Fixed %s\n", r.Path)
			}
		default:
			fmt.Fprint(env.Stdout, r.Output)
		}
	}

	if flags.write && !flags.common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d fixed, %d unchanged, %d failed\n",
			changed, len(results)-changed-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	if flags.check && changed > 0 {
		return fmt.Errorf("%d file(s) need fixing", changed)
	}
	return nil
}
