// Package ui implements the interactive terminal interface: a menu, the
// directory prompt, live scan progress, the candidate table with its
// summary treemap, and the confirm and delete screens.
package ui
