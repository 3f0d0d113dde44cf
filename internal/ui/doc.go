// Package ui holds the terminal building blocks shared by sdnctl's one-shot
// commands and the dashboard: ANSI colors (DisableColors for --no-color),
// status symbols, the action spinner, ratio bars and simple tables.
//
// A one-shot action reports like this:
//
//	s := ui.NewSpinner(os.Stdout, "Inject flow rules")
//	s.Start()
//	out := actions.Run(ctx, "inject_flows")
//	s.Success(out.Message) // or s.Fail(out.Message)
package ui
