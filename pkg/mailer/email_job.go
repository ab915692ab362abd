package mailer

const resetSubject = "Reset password"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending
// email. Subject and Text are final; the worker does no rendering.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// PasswordResetBody composes the plaintext reset email around the newly
// generated password.
func PasswordResetBody(newPassword string) string {
	return "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
		"Here is your new password: " + newPassword + "\n\n" +
		"If you did not request this, please ignore this email and your password will remain unchanged.\n"
}

// WelcomeJob builds the queued greeting sent after registration.
func WelcomeJob(to, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome",
		Text: "Hi " + username + ",\n\n" +
			"Your account has been created. You can now log in with your username and password.\n",
	}
}
