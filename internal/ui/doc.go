// Package ui implements the terminal dashboard using bubbletea's Elm architecture.
//
// The TUI mirrors the web dashboard's navigation:
//  1. [MenuView] : Choose one of the four pages, like the sidebar select box
//  2. [PageView] : Render the chosen page, with tab/shift+tab cycling between pages
//
// Pages render in a background command. Progress updates flow through a channel from the
// [dashboard.Engine] and drive a spinner until the result arrives. Results are kept per page,
// so revisiting a page is instant; r re-renders it (drawing a fresh sample on the feature page).
//
// On the explorer, ↑/↓ move between the filter rows, space toggles a genre, ←/→ move a bound
// and enter applies the filters. Charts are drawn as text bars; tables use bubbles/table.
package ui
