// Package console implements the interactive SDN dashboard.
//
// The dashboard is a Bubble Tea program. Background components (the
// notifier, the connectivity monitor and the panel board) never touch the
// model directly: they push events through a Bridge, which the model drains
// one message at a time. Keys trigger backend actions, refreshes, topology
// selection and the scrollable detail pane.
package console
