package notification

// ValidationError indicates a notification body that fails structural
// validation. The message is safe to return to the calling homeserver.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
