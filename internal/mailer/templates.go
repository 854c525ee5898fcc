// AngelaMos | 2026
// templates.go

package mailer

import "html/template"

var (
	eventSubmittedTmpl = template.Must(
		template.New("event_submitted").Parse(eventSubmittedHTML))
	eventApprovedTmpl = template.Must(
		template.New("event_approved").Parse(eventApprovedHTML))
	eventRejectedTmpl = template.Must(
		template.New("event_rejected").Parse(eventRejectedHTML))
	passwordResetTmpl = template.Must(
		template.New("password_reset").Parse(passwordResetHTML))
)

const eventSubmittedHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c2410c;">New Event Pending Approval</h2>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px 12px 6px 0; font-weight: bold;">Title</td><td>{{.Event.Title}}</td></tr>
    <tr><td style="padding: 6px 12px 6px 0; font-weight: bold;">Date</td><td>{{.Event.Date}} at {{.Event.Time}}</td></tr>
    <tr><td style="padding: 6px 12px 6px 0; font-weight: bold;">Location</td><td>{{.Event.LocationText}}</td></tr>
    <tr><td style="padding: 6px 12px 6px 0; font-weight: bold;">Category</td><td>{{.Event.Category}}</td></tr>
    <tr><td style="padding: 6px 12px 6px 0; font-weight: bold;">Posted by</td><td>{{.Event.PosterName}} ({{.Event.ContactEmail}})</td></tr>
  </table>
  <p>{{.Event.Description}}</p>
  <p style="margin-top: 24px;">
    <a href="{{.ApproveLink}}" style="background: #16a34a; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px; margin-right: 12px;">Approve</a>
    <a href="{{.RejectLink}}" style="background: #dc2626; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reject</a>
  </p>
  <p style="color: #777; font-size: 12px;">Each link works once and expires in 7 days. You can also moderate from the admin dashboard.</p>
</body>
</html>`

const eventApprovedHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">Your event is live!</h2>
  <p>Hi {{.Name}},</p>
  <p>Good news. Your event <strong>{{.Title}}</strong> has been approved and is now visible on the public listing.</p>
  <p>Thanks for contributing to the community.</p>
</body>
</html>`

const eventRejectedHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Event submission update</h2>
  <p>Hi {{.Name}},</p>
  <p>Unfortunately your event <strong>{{.Title}}</strong> was not approved for the public listing this time.</p>
  <p>You can edit the event from your dashboard and it will go back into the review queue, or contact us if you think this was a mistake.</p>
</body>
</html>`

const passwordResetHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c2410c;">Reset your password</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. Click the button below to choose a new one.</p>
  <p style="margin: 24px 0;">
    <a href="{{.ResetLink}}" style="background: #c2410c; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reset Password</a>
  </p>
  <p style="color: #777; font-size: 12px;">The link expires in 1 hour. If you did not ask for this, you can ignore this email.</p>
</body>
</html>`
