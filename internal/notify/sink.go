package notify

import "github.com/rileyhilliard/sdnctl/internal/logger"

// SinkFunc adapts a pair of functions to the Sink interface.
type SinkFunc struct {
	ShowFunc  func(Notification)
	ClearFunc func(id string)
}

func (f SinkFunc) Show(n Notification) {
	if f.ShowFunc != nil {
		f.ShowFunc(n)
	}
}

func (f SinkFunc) Clear(id string) {
	if f.ClearFunc != nil {
		f.ClearFunc(id)
	}
}

// LogSink writes notifications as log lines. Used by headless mode where
// there is no screen to render into.
type LogSink struct {
	Log logger.Logger
}

func (s LogSink) Show(n Notification) {
	switch n.Severity {
	case SeverityError:
		s.Log.Error("%s", n.Message)
	case SeverityWarning:
		s.Log.Warn("%s", n.Message)
	default:
		s.Log.Info("[%s] %s", n.Severity, n.Message)
	}
}

func (s LogSink) Clear(string) {}
