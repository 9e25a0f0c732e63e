package driver

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/pipeline"
	"saslint/internal/source"
	"saslint/internal/trace"
)

// DirResult holds the per-file results of LintDir in file order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []*FileResult
}

// HasErrors reports whether any file has an error diagnostic.
func (r *DirResult) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any file has a warning diagnostic.
func (r *DirResult) HasWarnings() bool {
	for _, f := range r.Files {
		if f.Bag.HasWarnings() {
			return true
		}
	}
	return false
}

// Bag merges the per-file bags in file order.
func (r *DirResult) Bag() *diag.Bag {
	total := 0
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	out := diag.NewBag(max(total, 1))
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	return out
}

// Count returns the number of diagnostics of the given severity.
func (r *DirResult) Count(sev diag.Severity) int {
	n := 0
	for _, f := range r.Files {
		n += f.Bag.Count(sev)
	}
	return n
}

// Timings sums the per-stage durations of all files.
func (r *DirResult) Timings() pipeline.Timings {
	var total pipeline.Timings
	for _, f := range r.Files {
		for _, st := range pipeline.Stages {
			if f.Stages.Has(st) {
				total.Add(st, f.Stages.Duration(st))
			}
		}
	}
	return total
}

// Lint lints target, which may be a file or a directory.
func Lint(ctx context.Context, target string, opts Options) (*DirResult, error) {
	files, err := ListFiles(ctx, target, opts.config().IgnoreList)
	if err != nil {
		return nil, err
	}
	base := target
	if len(files) == 1 && files[0] == target {
		base = ""
	}
	return LintFiles(ctx, base, files, opts)
}

// LintFiles lints files in parallel. Results are indexed by input position,
// so the output order does not depend on scheduling or Jobs.
func LintFiles(ctx context.Context, baseDir string, files []string, opts Options) (*DirResult, error) {
	ctx, runSpan := trace.Start(ctx, trace.ScopePass, "lint")
	runSpan.WithExtra("files", strconv.Itoa(len(files)))
	defer runSpan.End("")

	fileSet := source.NewFileSet()
	if baseDir != "" {
		fileSet.SetBaseDir(baseDir)
	}
	result := &DirResult{FileSet: fileSet, Files: make([]*FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	opts.baseDir = baseDir

	// FileSet не потокобезопасен на запись: загружаем всё заранее.
	ids := make([]source.FileID, len(files))
	loadTimes := make([]time.Duration, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: pipeline.DisplayName(path, baseDir), Status: pipeline.StatusQueued})
		started := time.Now()
		id, err := fileSet.Load(path)
		loadTimes[i] = time.Since(started)
		if err != nil {
			loadErrors[i] = err
			result.Files[i] = loadFailure(fileSet, path, err, opts)
			continue
		}
		ids[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		if _, failed := loadErrors[i]; failed {
			pipeline.Emit(opts.Progress, pipeline.Event{
				File:   pipeline.DisplayName(path, baseDir),
				Stage:  pipeline.StageLoad,
				Status: pipeline.StatusError,
				Err:    loadErrors[i],
			})
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()
			res := lintCached(gctx, fileSet, ids[i], opts)
			res.Stages.Add(pipeline.StageLoad, loadTimes[i])
			status := pipeline.StatusDone
			if res.Cached {
				status = pipeline.StatusCached
			}
			pipeline.Emit(opts.Progress, pipeline.Event{
				File:     pipeline.DisplayName(path, baseDir),
				Stage:    pipeline.StageRules,
				Status:   status,
				Elapsed:  time.Since(started),
				Problems: res.Bag.Len(),
			})
			// Индекс i уникален для горутины, мьютекс не нужен
			result.Files[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
