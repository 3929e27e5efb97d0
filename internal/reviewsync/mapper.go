package reviewsync

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/walletwise/insights/internal/domain"
)

// ItemToNotionProperties converts a recommendation item to the Notion
// properties of the review board. The board schema is: Recommendation ID
// (title), User, Window, Persona, Kind, Title, Rationale, Status (select).
func ItemToNotionProperties(item domain.RecommendationItem) notionapi.Properties {
	props := notionapi.Properties{
		"Recommendation ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: item.ID,
					},
				},
			},
		},
	}

	if item.UserID != "" {
		props["User"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: item.UserID,
					},
				},
			},
		}
	}

	props["Window"] = notionapi.NumberProperty{
		Number: float64(item.WindowDays),
	}

	if item.Persona != "" {
		props["Persona"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(item.Persona),
			},
		}
	}

	if item.Kind != "" {
		props["Kind"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(item.Kind),
			},
		}
	}

	if item.Title != "" {
		props["Title"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: item.Title,
					},
				},
			},
		}
	}

	if item.Rationale != "" {
		props["Rationale"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: item.Rationale,
					},
				},
			},
		}
	}

	props["Status"] = notionapi.SelectProperty{
		Select: notionapi.Option{
			Name: statusToOption(item.Status),
		},
	}

	if !item.CreatedAt.IsZero() {
		d := notionapi.Date(item.CreatedAt.UTC().Truncate(time.Second))
		props["Created"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &d,
			},
		}
	}

	return props
}

// statusToOption maps the engine's status values onto the board's select
// option names.
func statusToOption(status domain.RecommendationStatus) string {
	switch status {
	case domain.StatusPending:
		return "Pending"
	case domain.StatusApproved:
		return "Approved"
	case domain.StatusRejected:
		return "Rejected"
	case domain.StatusFlagged:
		return "Flagged"
	default:
		return "Pending"
	}
}

// optionToStatus is the inverse mapping for the pull direction. Unknown
// options come back empty so the caller can skip them.
func optionToStatus(option string) domain.RecommendationStatus {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "pending":
		return domain.StatusPending
	case "approved":
		return domain.StatusApproved
	case "rejected":
		return domain.StatusRejected
	case "flagged":
		return domain.StatusFlagged
	default:
		return ""
	}
}

// extractItemID pulls the recommendation id out of a board page's title
// property. Returns "" when the page has no usable title.
func extractItemID(page notionapi.Page) string {
	prop, ok := page.Properties["Recommendation ID"]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, rt := range title.Title {
		sb.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// extractStatus pulls the operator-set status option from a board page.
func extractStatus(page notionapi.Page) domain.RecommendationStatus {
	prop, ok := page.Properties["Status"]
	if !ok {
		return ""
	}
	sel, ok := prop.(*notionapi.SelectProperty)
	if !ok {
		return ""
	}
	return optionToStatus(sel.Select.Name)
}
