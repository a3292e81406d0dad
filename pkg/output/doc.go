// Package output renders update results and extracted dependencies.
//
// Three formats are supported: styled terminal output (lipgloss), plain
// text and JSON. FormatAuto picks terminal output only when stdout is a
// color-capable terminal and NO_COLOR is unset.
package output
