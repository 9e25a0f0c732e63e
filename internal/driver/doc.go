// Package driver runs the lint pipeline over files and directories.
//
// One file goes through path rules, line rules, statement scanning, macro
// analysis and file rules, in that order, and ends as a sorted diag.Bag.
// Directories are walked with the configured ignore list and linted in
// parallel; results keep the walk order.
package driver
