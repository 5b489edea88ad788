package backend

// commandError signals a failed backend command so stores can render it into
// their error state.
type commandError struct {
	command string
	msg     string
}

func (e commandError) Error() string { return e.command + ": " + e.msg }

// IsCommand reports whether err came from a backend command invocation.
func IsCommand(err error) bool {
	_, ok := err.(commandError)
	return ok
}
