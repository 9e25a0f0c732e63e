package driver

import (
	"context"
	"slices"
	"strconv"
	"time"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/observ"
	"saslint/internal/pipeline"
	"saslint/internal/rules"
	"saslint/internal/source"
	"saslint/internal/trace"
)

// Options control a lint run.
type Options struct {
	Config         *config.Config
	MaxDiagnostics int
	// Jobs limits parallel files in LintDir; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, stores and reuses per-file diagnostics.
	Cache *DiskCache
	// Progress receives per-file events; may be nil.
	Progress pipeline.ProgressSink
	// EnableTimings attaches an OBS timing diagnostic to each file result.
	EnableTimings bool
	// KeepStatements retains the scanned statements in FileResult.
	KeepStatements bool

	baseDir string // display names in progress events are relative to it
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Scan     lexer.Result
	Analysis *macro.Analysis
	Timing   *observ.Report
	// Stages holds wall time per pipeline stage.
	Stages pipeline.Timings
	Cached bool
}

// LintSource lints in-memory content under the given name.
func LintSource(ctx context.Context, name string, content []byte, opts Options) (*source.FileSet, *FileResult) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	res := lintLoaded(ctx, fs, id, opts)
	return fs, res
}

// LintFile reads path from disk and lints it. A read failure is returned as
// an IO diagnostic, never as a Go error.
func LintFile(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fs, loadFailure(fs, path, err, opts)
	}
	return fs, lintCached(ctx, fs, id, opts)
}

func loadFailure(fs *source.FileSet, path string, err error, opts Options) *FileResult {
	id := fs.AddVirtual(path, nil)
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
	return &FileResult{Path: fs.Get(id).Path, FileID: id, Bag: bag}
}

// lintCached consults the disk cache before running the rules.
func lintCached(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *FileResult {
	if opts.Cache == nil {
		return lintLoaded(ctx, fs, id, opts)
	}
	f := fs.Get(id)
	cfg := opts.config()
	key := cacheKey(f, cfg)
	var payload DiskPayload
	if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
		if bag, ok := payloadToBag(&payload, id, opts.MaxDiagnostics); ok {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache:hit", f.Path, trace.CurrentSpan(ctx).SpanID)
			return &FileResult{Path: f.Path, FileID: id, Bag: bag, Cached: true}
		}
	}
	res := lintLoaded(ctx, fs, id, opts)
	// Ошибка записи кэша не должна ронять линт.
	_ = opts.Cache.Put(key, bagToPayload(res.Bag)) //nolint:errcheck
	return res
}

// lintLoaded runs every enabled rule over one loaded file:
// path rules, line rules, scan, macro analysis, file rules.
func lintLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *FileResult {
	cfg := opts.config()
	f := fs.Get(id)
	set := rules.Enabled(cfg)
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()
	display := pipeline.DisplayName(f.Path, opts.baseDir)

	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+display, trace.CurrentSpan(ctx).SpanID)
	defer fileSpan.End("")

	var stages pipeline.Timings
	stage := func(st pipeline.Stage) func(note string) {
		pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: st, Status: pipeline.StatusWorking})
		idx := timer.Begin(string(st))
		started := time.Now()
		return func(note string) {
			timer.End(idx, note)
			elapsed := time.Since(started)
			stages.Add(st, elapsed)
			pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: st, Status: pipeline.StatusWorking, Elapsed: elapsed})
		}
	}
	emit := func(r rules.Rule, fd rules.Finding) {
		sp := fd.Span
		sp.File = id
		b := diag.NewReportBuilder(reporter, cfg.SeverityFor(r.Name(), r.DefaultSeverity()), fd.Code, sp, fd.Message).
			WithRule(r.Name()).
			At(fd.Pos)
		if fd.Fix != nil {
			b.WithFixSuggestion(*fd.Fix)
		}
		b.Emit()
	}
	runRule := func(r rules.Rule, fn func() []rules.Finding) {
		span := trace.Begin(tracer, trace.ScopeRule, r.Name(), fileSpan.ID())
		found := fn()
		span.End(strconv.Itoa(len(found)))
		for _, fd := range found {
			emit(r, fd)
		}
	}

	done := stage(pipeline.StageLines)
	for _, r := range set.Path {
		runRule(r, func() []rules.Finding { return r.Test(f.Path) })
	}
	if len(set.Line) > 0 {
		found := make([][]rules.Finding, len(set.Line))
		rules.WalkLines(f, cfg, func(line string, ln uint32, lc *rules.LineContext) {
			for i, r := range set.Line {
				found[i] = append(found[i], r.Test(line, ln, lc)...)
			}
		})
		// Отчитываемся по правилу целиком, чтобы порядок не зависел от строк.
		for i, r := range set.Line {
			runRule(r, func() []rules.Finding { return found[i] })
		}
	}
	done(strconv.Itoa(int(f.LineCount())) + " lines")

	done = stage(pipeline.StageScan)
	scan := lexer.CollectResult(f, lexer.Options{})
	done(strconv.Itoa(len(scan.Statements)) + " statements")

	done = stage(pipeline.StageMacros)
	analysis := macro.Analyze(slices.Values(scan.Statements), macro.Options{
		CaseSensitiveMendName: cfg.CaseSensitiveMendName,
		RequiredOptions:       cfg.RequiredMacroOptions,
	})
	done(strconv.Itoa(len(analysis.Definitions)) + " macros")

	done = stage(pipeline.StageRules)
	fctx := &rules.FileContext{
		File:       f,
		Config:     cfg,
		Statements: scan.Statements,
		Scan:       scan,
		Analysis:   analysis,
	}
	for _, r := range set.File {
		runRule(r, func() []rules.Finding { return r.Test(fctx) })
	}
	done("")

	bag.Sort()
	fileSpan.WithExtra("diagnostics", strconv.Itoa(bag.Len()))

	res := &FileResult{
		Path:     f.Path,
		FileID:   id,
		Bag:      bag,
		Analysis: analysis,
		Stages:   stages,
	}
	if opts.KeepStatements {
		res.Scan = scan
	} else {
		res.Scan = lexer.Result{State: scan.State, Since: scan.Since}
	}
	if opts.EnableTimings {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(bag, id, timingPayload{Kind: "file", Path: display, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	return res
}
