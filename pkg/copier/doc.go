// Package copier builds copier command lines.
//
// Options are translated through static tables keyed by the BoolOption and
// ListOption enumerations. Every user-supplied value is shell-quoted here;
// the process runner hands the joined command to a shell unchanged.
package copier
