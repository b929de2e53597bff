package study

import (
	"errors"
	"testing"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

func sampleCards() []model.Flashcard {
	return []model.Flashcard{
		{ID: "1", Question: "Q1", Answer: "A1", Status: model.StatusNew},
		{ID: "2", Question: "Q2", Answer: "A2"},
		{ID: "3", Question: "Q3", Answer: "A3", Status: model.StatusLater},
	}
}

func TestDeckNavigationResetsFlip(t *testing.T) {
	d := NewDeck(sampleCards())
	if d.Prev() {
		t.Fatalf("prev on first card should not move")
	}
	d.Flip()
	if !d.Flipped() {
		t.Fatalf("expected flipped")
	}
	if !d.Next() || d.Index() != 1 || d.Flipped() {
		t.Fatalf("next should advance and show the front, index=%d flipped=%v", d.Index(), d.Flipped())
	}
	d.Next()
	if d.Next() {
		t.Fatalf("next on last card should not move")
	}
	cur, _ := d.Current()
	if cur.ID != "3" {
		t.Fatalf("unexpected current %q", cur.ID)
	}
}

func TestDeckToggles(t *testing.T) {
	d := NewDeck(sampleCards())
	card, err := d.ToggleMastered()
	if err != nil || card.Status != model.StatusMastered {
		t.Fatalf("expected mastered, got %q %v", card.Status, err)
	}
	card, _ = d.ToggleMastered()
	if card.Status != model.StatusNew {
		t.Fatalf("second toggle should return to new, got %q", card.Status)
	}
	d.Next()
	d.Next()
	card, _ = d.ToggleLater()
	if card.Status != model.StatusNew {
		t.Fatalf("later card should toggle back to new, got %q", card.Status)
	}
	if _, err := d.Mark("forgotten"); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestDeckCountsAndFilter(t *testing.T) {
	d := NewDeck(sampleCards())
	counts := d.Counts()
	if counts[model.StatusNew] != 2 || counts[model.StatusLater] != 1 || counts[model.StatusMastered] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	later := d.Filter(model.StatusLater)
	if len(later) != 1 || later[0].ID != "3" {
		t.Fatalf("unexpected filter %+v", later)
	}
}

func TestEmptyDeck(t *testing.T) {
	d := FromUserCards(nil)
	if _, err := d.Current(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if _, err := d.ToggleLater(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	d.Flip()
	if d.Flipped() || d.Next() {
		t.Fatalf("empty deck must not flip or move")
	}
}
