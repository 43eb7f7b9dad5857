package services

// Mailer delivers a single HTML message. Implementations live in utils.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}
