package reviewsync

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store/inmemory"
)

type fakeNotion struct {
	pages   []notionapi.Page
	created []notionapi.Properties
}

func (f *fakeNotion) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	f.created = append(f.created, properties)
	return &notionapi.Page{}, nil
}

func (f *fakeNotion) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	return &notionapi.Page{}, nil
}

func (f *fakeNotion) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: f.pages}, nil
}

func boardPage(itemID, status string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID("page-" + itemID),
		Properties: notionapi.Properties{
			"Recommendation ID": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: itemID}},
			},
			"Status": &notionapi.SelectProperty{
				Select: notionapi.Option{Name: status},
			},
		},
	}
}

func TestPushItemsSkipsExistingPages(t *testing.T) {
	notion := &fakeNotion{pages: []notionapi.Page{boardPage("rec-1", "Pending")}}
	items := []domain.RecommendationItem{
		{ID: "rec-1", Status: domain.StatusPending},
		{ID: "rec-2", Status: domain.StatusPending},
	}

	if err := PushItems(context.Background(), notion, "db", items, false); err != nil {
		t.Fatalf("PushItems: %v", err)
	}
	if len(notion.created) != 1 {
		t.Fatalf("created %d pages, want 1", len(notion.created))
	}
	title := notion.created[0]["Recommendation ID"].(notionapi.TitleProperty)
	if title.Title[0].Text.Content != "rec-2" {
		t.Errorf("created page for %q, want rec-2", title.Title[0].Text.Content)
	}
}

func TestPushItemsDryRunCreatesNothing(t *testing.T) {
	notion := &fakeNotion{}
	items := []domain.RecommendationItem{{ID: "rec-1"}}

	if err := PushItems(context.Background(), notion, "db", items, true); err != nil {
		t.Fatalf("PushItems: %v", err)
	}
	if len(notion.created) != 0 {
		t.Errorf("dry run created %d pages", len(notion.created))
	}
}

func TestPullVerdictsAppliesNonPending(t *testing.T) {
	recs := inmemory.NewStore()
	ctx := context.Background()
	err := recs.ReplaceRecommendations(ctx, "u1", 30, []domain.RecommendationItem{
		{ID: "rec-1", Status: domain.StatusPending},
		{ID: "rec-2", Status: domain.StatusPending},
		{ID: "rec-3", Status: domain.StatusPending},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	notion := &fakeNotion{pages: []notionapi.Page{
		boardPage("rec-1", "Approved"),
		boardPage("rec-2", "Pending"),
		boardPage("rec-3", "Flagged"),
		boardPage("", "Rejected"),
	}}

	if err := PullVerdicts(ctx, notion, "db", recs, false); err != nil {
		t.Fatalf("PullVerdicts: %v", err)
	}

	items, _ := recs.Recommendations(ctx, "u1", 30)
	want := map[string]domain.RecommendationStatus{
		"rec-1": domain.StatusApproved,
		"rec-2": domain.StatusPending,
		"rec-3": domain.StatusFlagged,
	}
	for _, item := range items {
		if item.Status != want[item.ID] {
			t.Errorf("%s status = %s, want %s", item.ID, item.Status, want[item.ID])
		}
	}
}

func TestPullVerdictsDryRunWritesNothing(t *testing.T) {
	recs := inmemory.NewStore()
	ctx := context.Background()
	if err := recs.ReplaceRecommendations(ctx, "u1", 30, []domain.RecommendationItem{
		{ID: "rec-1", Status: domain.StatusPending},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	notion := &fakeNotion{pages: []notionapi.Page{boardPage("rec-1", "Rejected")}}
	if err := PullVerdicts(ctx, notion, "db", recs, true); err != nil {
		t.Fatalf("PullVerdicts: %v", err)
	}

	items, _ := recs.Recommendations(ctx, "u1", 30)
	if items[0].Status != domain.StatusPending {
		t.Errorf("dry run changed status to %s", items[0].Status)
	}
}
