package email

// Message is a single-recipient outbound email. HTMLBody is the primary
// content; TextBody is derived from it when left empty.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
