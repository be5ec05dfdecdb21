package email

// Email is one outbound plain-text message.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Provider sends transactional email.
type Provider interface {
	Send(email *Email) error
	Close() error
}
