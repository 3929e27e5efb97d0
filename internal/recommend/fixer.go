package recommend

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// FixerModelName is the model used for rewrite suggestions.
const FixerModelName = "gemini-2.5-flash"

// SuggestToneFix asks the model for a rewrite of rationale text that failed
// the tone gate, then re-validates the suggestion. This is an author-time
// utility for catalog maintainers; the serving path drops failing items and
// never calls the model.
func SuggestToneFix(ctx context.Context, text string, toneErr error) (string, error) {
	prompt := "You are reviewing customer-facing financial guidance for tone.\n\n" +
		"The following text was rejected by an automated tone check.\n" +
		fmt.Sprintf("Rejection reason: %s\n\n", toneErr) +
		"Rewrite it so that it:\n" +
		"- keeps every factual claim and number unchanged\n" +
		"- removes judgmental or absolute language\n" +
		"- uses supportive phrasing such as \"consider\" or \"you can\"\n" +
		"- uses at most one exclamation mark and no all-caps words\n\n" +
		"Return ONLY the rewritten text, with no preamble and no quotes.\n\n" +
		"Text:\n" + text

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("SuggestToneFix: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, FixerModelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("SuggestToneFix: generate content: %w", err)
	}

	suggestion := strings.TrimSpace(resp.Text())
	if suggestion == "" {
		return "", fmt.Errorf("SuggestToneFix: empty response from model")
	}

	// The model's output goes through the same gate; a suggestion that
	// still fails is not worth surfacing.
	if err := CheckTone(suggestion); err != nil {
		return "", fmt.Errorf("SuggestToneFix: suggestion still fails tone check: %w", err)
	}
	return suggestion, nil
}
