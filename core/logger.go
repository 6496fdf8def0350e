package core

// Logger is any leveled logger.
// args may carry an error, a map[string]interface{} of extras, or the acting participant.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Participant identifies who triggered a log entry; passed as one of the args.
type Participant struct {
	ID string
}
