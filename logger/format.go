package logger

import "fmt"

// FormatMessage builds the delivered message text. A non-nil err is
// rendered first, followed by message; args are applied to message as
// fmt verbs only when message is not empty.
func FormatMessage(message string, err error, args ...interface{}) string {
	if len(args) > 0 && message != "" {
		message = fmt.Sprintf(message, args...)
	}
	if err == nil {
		return message
	}
	if message == "" {
		return err.Error()
	}
	return err.Error() + " " + message
}
