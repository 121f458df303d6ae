// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a single organizer run:
//  1. [PreviewView] : Browse the multi-disc series found in the directory
//  2. [ConfirmView] : Confirm renaming and playlist creation
//  3. [RunningView] : Monitor real-time progress updates
//  4. [ResultView] : Display the run summary and any failed renames
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the Organizer, providing non-blocking status reporting during a run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
