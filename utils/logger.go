package utils

// Logger is the reporting sink handed to components that emit warnings.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// OrDiscard returns l, or a logger that drops everything when l is nil
func OrDiscard(l Logger) Logger {
	if l == nil {
		return discardLogger{}
	}
	return l
}
