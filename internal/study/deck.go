// Package study holds the interactive state behind the flashcard and quiz
// panels. Nothing here performs I/O; the CLI drives these types and sends
// the resulting requests through the client.
package study

import (
	"errors"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// ErrEmptyDeck is returned by operations that need a current card.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck walks a list of flashcards one at a time.
type Deck struct {
	cards   []model.Flashcard
	index   int
	flipped bool
}

// NewDeck copies cards into a deck positioned on the first card.
func NewDeck(cards []model.Flashcard) *Deck {
	cp := make([]model.Flashcard, len(cards))
	copy(cp, cards)
	for i := range cp {
		if cp[i].Status == "" {
			cp[i].Status = model.StatusNew
		}
	}
	return &Deck{cards: cp}
}

// FromUserCards turns locally authored cards into a deck.
func FromUserCards(cards []model.UserCard) *Deck {
	fc := make([]model.Flashcard, 0, len(cards))
	for _, c := range cards {
		fc = append(fc, model.Flashcard{ID: c.ID, Question: c.Front, Answer: c.Back, Status: model.StatusNew})
	}
	return NewDeck(fc)
}

func (d *Deck) Len() int { return len(d.cards) }
func (d *Deck) Index() int { return d.index }
func (d *Deck) Flipped() bool { return d.flipped }
func (d *Deck) IsFirst() bool { return d.index == 0 }
func (d *Deck) IsLast() bool { return d.index >= len(d.cards)-1 }

// Current returns the card under the cursor.
func (d *Deck) Current() (model.Flashcard, error) {
	if len(d.cards) == 0 {
		return model.Flashcard{}, ErrEmptyDeck
	}
	return d.cards[d.index], nil
}

// Flip shows the other side of the current card.
func (d *Deck) Flip() {
	if len(d.cards) > 0 {
		d.flipped = !d.flipped
	}
}

// Next moves forward, clamped at the last card. It reports whether it moved.
func (d *Deck) Next() bool {
	if d.IsLast() {
		return false
	}
	d.index++
	d.flipped = false
	return true
}

// Prev moves back, clamped at the first card.
func (d *Deck) Prev() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	d.flipped = false
	return true
}

// Mark sets the status of the current card and returns the updated card.
func (d *Deck) Mark(status model.CardStatus) (model.Flashcard, error) {
	if !status.Valid() {
		return model.Flashcard{}, errors.New("invalid status " + string(status))
	}
	if len(d.cards) == 0 {
		return model.Flashcard{}, ErrEmptyDeck
	}
	d.cards[d.index].Status = status
	return d.cards[d.index], nil
}

// ToggleMastered flips the current card between mastered and new.
func (d *Deck) ToggleMastered() (model.Flashcard, error) {
	return d.toggle(model.StatusMastered)
}

// ToggleLater flips the current card between later and new.
func (d *Deck) ToggleLater() (model.Flashcard, error) {
	return d.toggle(model.StatusLater)
}

func (d *Deck) toggle(status model.CardStatus) (model.Flashcard, error) {
	cur, err := d.Current()
	if err != nil {
		return cur, err
	}
	if cur.Status == status {
		return d.Mark(model.StatusNew)
	}
	return d.Mark(status)
}

// Cards returns a copy of every card in order.
func (d *Deck) Cards() []model.Flashcard {
	cp := make([]model.Flashcard, len(d.cards))
	copy(cp, d.cards)
	return cp
}

// Filter returns the cards with the given status, in deck order.
func (d *Deck) Filter(status model.CardStatus) []model.Flashcard {
	var out []model.Flashcard
	for _, c := range d.cards {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Counts tallies cards per status.
func (d *Deck) Counts() map[model.CardStatus]int {
	counts := map[model.CardStatus]int{
		model.StatusNew:      0,
		model.StatusLater:    0,
		model.StatusMastered: 0,
	}
	for _, c := range d.cards {
		counts[c.Status]++
	}
	return counts
}
