package notifier

// Result is the soft outcome of a send attempt. Channels never return Go
// errors to the caller; every failure is carried here so it can be logged
// and retried on a later run.
type Result struct {
	Success bool
	Error   string
}

func ok() Result {
	return Result{Success: true}
}

func failed(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Message is a rendered notification with per-channel bodies.
type Message struct {
	Subject  string
	Text     string
	HTML     string
	Telegram string
}
