package notifications

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
)

const dateLayout = "January 02, 2006 at 03:04 PM"

type rendered struct {
	Subject string
	Text    string
	HTML    string
}

// render executes the template parts against data. Unknown keys fail.
func render(tmpl *models.NotificationTemplate, data map[string]any) (*rendered, error) {
	subject, err := executeText("subject", tmpl.Subject, data)
	if err != nil {
		return nil, err
	}
	text, err := executeText("text", tmpl.TextBody, data)
	if err != nil {
		return nil, err
	}
	html, err := executeHTML(tmpl.HTMLBody, data)
	if err != nil {
		return nil, err
	}
	return &rendered{
		Subject: strings.Join(strings.Fields(subject), " "),
		Text:    strings.TrimSpace(text),
		HTML:    strings.TrimSpace(html),
	}, nil
}

func executeText(part, body string, data map[string]any) (string, error) {
	t, err := texttemplate.New(part).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", &RenderError{Part: part, Err: err}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", &RenderError{Part: part, Err: err}
	}
	return buf.String(), nil
}

func executeHTML(body string, data map[string]any) (string, error) {
	t, err := htmltemplate.New("html").Option("missingkey=error").Parse(body)
	if err != nil {
		return "", &RenderError{Part: "html", Err: err}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", &RenderError{Part: "html", Err: err}
	}
	return buf.String(), nil
}

// templateContext builds the fixed key space templates may reference:
// notification, item, user and site_url. Item and user are present only
// when known.
func templateContext(n *models.Notification, item *models.Item, user *models.User, siteURL string) map[string]any {
	siteURL = strings.TrimRight(siteURL, "/")
	data := map[string]any{
		"site_url": siteURL,
		"notification": map[string]any{
			"id":         n.ID.String(),
			"type":       string(n.Type),
			"title":      n.Title,
			"message":    n.Message,
			"priority":   string(n.Priority),
			"created_at": formatDate(n.CreatedAt),
		},
	}
	if item != nil {
		data["item"] = itemContext(item, siteURL)
	}
	if user != nil {
		data["user"] = map[string]any{
			"id":         user.ID.String(),
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"full_name":  user.FullName(),
		}
	}
	return data
}

func itemContext(item *models.Item, siteURL string) map[string]any {
	category := ""
	if item.Category != nil {
		category = item.Category.Name
	}
	location := ""
	if item.Location != nil {
		location = item.Location.FullLocation()
	}
	return map[string]any{
		"id":           item.ID.String(),
		"title":        item.Title,
		"description":  item.Description,
		"kind":         string(item.Kind),
		"status":       string(item.Status),
		"category":     category,
		"location":     location,
		"reward_coins": item.RewardCoins,
		"claimer_name": item.ClaimerName,
		"is_urgent":    item.IsUrgent,
		"created_at":   formatDate(item.CreatedAt),
		"url":          siteURL + "/items/" + item.ID.String(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
