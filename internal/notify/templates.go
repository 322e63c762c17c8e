package notify

import (
	"fmt"
	"html"
)

// RegistrationReceived tells the society inbox about a new registration.
func RegistrationReceived(to, firstName, lastName, email string, batch int) Message {
	name := html.EscapeString(firstName + " " + lastName)
	return Message{
		To:      []string{to},
		Subject: "New EHSAS registration: " + firstName + " " + lastName,
		Body: fmt.Sprintf(`<p>%s (%s) has registered from batch %d.</p>
<p>Review the request in the admin dashboard.</p>`, name, html.EscapeString(email), batch),
	}
}

// MembershipApproved carries the new membership id to the alumni.
func MembershipApproved(to, firstName, membershipID string) Message {
	return Message{
		To:      []string{to},
		Subject: "Your EHSAS membership is approved",
		Body: fmt.Sprintf(`<p>Dear %s,</p>
<p>Welcome to the Elden Heights School Alumni Society. Your membership has been approved.</p>
<p>Your EHSAS ID is <strong>%s</strong>.</p>`, html.EscapeString(firstName), html.EscapeString(membershipID)),
	}
}

// MembershipRejected tells the alumni the registration was not approved.
func MembershipRejected(to, firstName string) Message {
	return Message{
		To:      []string{to},
		Subject: "Your EHSAS registration",
		Body: fmt.Sprintf(`<p>Dear %s,</p>
<p>We were unable to approve your EHSAS registration. Please contact the society if you believe this is a mistake.</p>`,
			html.EscapeString(firstName)),
	}
}
