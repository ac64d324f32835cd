package domain

import (
	"slices"
	"testing"
)

func TestPushRecentView_MovesRepeatToFront(t *testing.T) {
	var views []string
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		views = PushRecentView(views, id)
	}
	if want := []string{"e", "d", "c", "b", "a"}; !slices.Equal(views, want) {
		t.Fatalf("after five views: want %v, got %v", want, views)
	}

	views = PushRecentView(views, "a")
	if want := []string{"a", "e", "d", "c", "b"}; !slices.Equal(views, want) {
		t.Fatalf("after repeat: want %v, got %v", want, views)
	}
}

func TestPushRecentView_CapsLength(t *testing.T) {
	views := []string{"1", "2", "3", "4", "5"}
	got := PushRecentView(views, "6")
	if len(got) != MaxRecentViews {
		t.Fatalf("expected %d entries, got %d", MaxRecentViews, len(got))
	}
	if got[0] != "6" || got[4] != "4" {
		t.Errorf("unexpected order: %v", got)
	}
	if views[0] != "1" {
		t.Errorf("input slice was modified: %v", views)
	}
}

func TestToggleBookmark_Pairs(t *testing.T) {
	start := []string{"x"}

	after, on := ToggleBookmark(start, "r1")
	if !on {
		t.Fatal("first toggle should bookmark")
	}
	after, on = ToggleBookmark(after, "r1")
	if on {
		t.Fatal("second toggle should remove bookmark")
	}
	if !slices.Equal(after, start) {
		t.Errorf("bookmarks not restored: want %v, got %v", start, after)
	}
}

func TestResourcePatch_FieldsSkipsNil(t *testing.T) {
	title := "Algorithms"
	link := "https://drive.google.com/file/d/1"
	p := ResourcePatch{Title: &title, GDriveLink: &link}

	fields := p.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields["title"] != title || fields["gdriveLink"] != link {
		t.Errorf("unexpected fields: %v", fields)
	}

	r := &Resource{Title: "old", Subject: "keep"}
	p.Apply(r)
	if r.Title != title || r.Subject != "keep" || r.GDriveLink != link {
		t.Errorf("unexpected resource after apply: %+v", r)
	}
}
