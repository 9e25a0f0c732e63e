// Package macro validates %macro/%mend structure over a statement stream.
//
// Analyze folds the statements of one file with an explicit frame stack and
// returns every definition together with all structural findings. The fold
// never stops early: a mismatched %mend still pops its frame and a nested
// %macro is still pushed, so one mistake does not cascade into others.
// Findings are computed for every check; callers pick the kinds they report.
package macro
