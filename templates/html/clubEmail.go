package templates

import (
	"fmt"
	"html"
	"strings"
)

const defaultAccent = "#b8975a"

// RenderClubEmail generates branded HTML for a club email.
// The subject is displayed in the header banner, and bodyContent is plain text
// that gets HTML-escaped and has newlines converted to <br> tags.
func RenderClubEmail(subject, bodyContent, clubName, accent string) string {
	escaped := html.EscapeString(bodyContent)
	htmlBody := strings.ReplaceAll(escaped, "\n", "<br>")

	safeSubject := html.EscapeString(subject)
	safeClub := html.EscapeString(clubName)
	if !validColor(accent) {
		accent = defaultAccent
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: Georgia, 'Times New Roman', serif; margin: 0; padding: 0; background-color: #f6f3ee; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background-color: #111111; padding: 36px 30px; text-align: center; border-bottom: 3px solid %s; }
    .header p { color: %s; margin: 0 0 8px; font-size: 12px; letter-spacing: 3px; text-transform: uppercase; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 400; }
    .content { padding: 40px 30px; color: #222; line-height: 1.6; font-size: 15px; }
    .footer { padding: 24px 30px; text-align: center; color: #888; font-size: 12px; border-top: 1px solid #eee; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <p>%s</p>
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>&copy; %s</p>
    </div>
  </div>
</body>
</html>`, safeSubject, accent, accent, safeClub, safeSubject, htmlBody, safeClub)
}

// RenderEventReminder is the body of the reminder sent the day before an event
func RenderEventReminder(memberName, title, date, timeOfDay, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", memberName)
	fmt.Fprintf(&b, "A reminder that %s takes place tomorrow, %s", title, date)
	if timeOfDay != "" {
		fmt.Fprintf(&b, " at %s", timeOfDay)
	}
	b.WriteString(".\n")
	if location != "" {
		fmt.Fprintf(&b, "Location: %s\n", location)
	}
	b.WriteString("\nWe look forward to welcoming you.")
	return b.String()
}

// validColor accepts #rgb and #rrggbb hex colours only, so theme values can't
// break out of the style block
func validColor(c string) bool {
	if len(c) != 4 && len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
