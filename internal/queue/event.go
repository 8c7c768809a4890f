// Package queue defines message payloads exchanged over the message
// broker and the background consumer that delivers them.
package queue

// MailRequestedEvent is published when the API wants an email sent.
// Delivery happens out of band so a slow or failing mail provider never
// blocks a request.
type MailRequestedEvent struct {
	ToName  string `json:"to_name"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
