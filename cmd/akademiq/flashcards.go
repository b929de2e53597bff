package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/storage"
	"github.com/dharsanguruparan/AkademIQ/internal/study"
)

func newFlashcardsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flashcards",
		Aliases: []string{"cards"},
		Short:   "Generate, review and author flashcards",
	}
	cmd.AddCommand(
		newFlashcardsGenerateCmd(a),
		&cobra.Command{
			Use:   "list",
			Short: "List generated flashcards",
			RunE: func(cmd *cobra.Command, args []string) error {
				cards, err := a.api.ListFlashcards(cmd.Context(), a.session.DocumentID)
				if err != nil {
					return a.fail(err)
				}
				a.printCards(cards)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <card-id>",
			Short: "Delete a generated flashcard",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.api.DeleteFlashcard(cmd.Context(), a.session.DocumentID, args[0]); err != nil {
					return a.fail(err)
				}
				a.printf("Deleted %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "mark <card-id> <new|later|mastered>",
			Short: "Tag a generated flashcard",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				card, err := a.api.UpdateFlashcardStatus(cmd.Context(), args[0], model.CardStatus(args[1]))
				if err != nil {
					return a.fail(err)
				}
				a.printf("%s is now %s\n", args[0], statusLabel(card.Status))
				return nil
			},
		},
		newFlashcardsStudyCmd(a),
		newFlashcardsAddCmd(a),
		&cobra.Command{
			Use:   "mine",
			Short: "List your own cards for the current document",
			RunE: func(cmd *cobra.Command, args []string) error {
				docID, err := a.documentID()
				if err != nil {
					return a.fail(err)
				}
				cards, err := a.store.ListCards(docID)
				if err != nil {
					return err
				}
				if len(cards) == 0 {
					a.printf("No cards yet. Add one with \"flashcards add\".\n")
					return nil
				}
				for i, c := range cards {
					a.printf("%2d. [%s]\n    Q: %s\n    A: %s\n", i+1, c.ID, c.Front, c.Back)
				}
				a.printf("%d/%d cards\n", len(cards), model.MaxUserCardsPerDocument)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <card-id>",
			Short: "Remove one of your own cards",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				docID, err := a.documentID()
				if err != nil {
					return a.fail(err)
				}
				if err := a.store.DeleteCard(docID, args[0]); err != nil {
					return a.fail(err)
				}
				a.printf("Removed %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newFlashcardsGenerateCmd(a *app) *cobra.Command {
	var count int
	var difficulty string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards from the current document",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("Generating flashcards...\n")
			cards, err := a.api.GenerateFlashcards(cmd.Context(), a.session.DocumentID, count, difficulty)
			if err != nil {
				return a.fail(err)
			}
			a.printCards(cards)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", client.DefaultFlashcardCount, "Number of cards")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", model.DifficultyMedium, "easy, medium or hard")
	return cmd
}

func newFlashcardsAddCmd(a *app) *cobra.Command {
	var front, back string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write your own card for the current document",
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := a.documentID()
			if err != nil {
				return a.fail(err)
			}
			ctx := cmd.Context()
			if front == "" {
				if front, err = a.ask(ctx, "Front", ""); err != nil {
					return err
				}
			}
			if back == "" {
				if back, err = a.ask(ctx, "Back", ""); err != nil {
					return err
				}
			}
			card, err := a.store.AddCard(docID, front, back)
			if errors.Is(err, storage.ErrCardLimit) {
				return a.fail(fmt.Errorf("you can keep at most %d cards per document", model.MaxUserCardsPerDocument))
			}
			if err != nil {
				return a.fail(err)
			}
			a.printf("Added %s\n", card.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&front, "front", "", "Question side")
	cmd.Flags().StringVar(&back, "back", "", "Answer side")
	return cmd
}

func newFlashcardsStudyCmd(a *app) *cobra.Command {
	var mine bool
	var only string
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Review cards one at a time",
		Long: `Review cards one at a time. Commands: enter or f flips the card, n and p move,
m toggles mastered, l toggles study-later, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deck, err := a.loadDeck(ctx, mine, model.CardStatus(only))
			if err != nil {
				return a.fail(err)
			}
			if deck.Len() == 0 {
				a.printf("No cards to study.\n")
				return nil
			}
			return a.studyLoop(ctx, deck, !mine)
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "Study your own cards instead of generated ones")
	cmd.Flags().StringVar(&only, "only", "", "Limit to cards with this status")
	return cmd
}

func (a *app) loadDeck(ctx context.Context, mine bool, only model.CardStatus) (*study.Deck, error) {
	var deck *study.Deck
	if mine {
		docID, err := a.documentID()
		if err != nil {
			return nil, err
		}
		cards, err := a.store.ListCards(docID)
		if err != nil {
			return nil, err
		}
		deck = study.FromUserCards(cards)
	} else {
		cards, err := a.api.ListFlashcards(ctx, a.session.DocumentID)
		if err != nil {
			return nil, err
		}
		deck = study.NewDeck(cards)
	}
	if only != "" {
		if !only.Valid() {
			return nil, fmt.Errorf("invalid status %q", only)
		}
		deck = study.NewDeck(deck.Filter(only))
	}
	return deck, nil
}

// studyLoop drives a deck from typed commands. Status changes on generated
// cards are sent to the backend; a failed update is shown and the local
// state is kept.
func (a *app) studyLoop(ctx context.Context, deck *study.Deck, remote bool) error {
	for {
		card, _ := deck.Current()
		side := card.Question
		label := "Q"
		if deck.Flipped() {
			side, label = card.Answer, "A"
		}
		a.printf("\n[%d/%d] %s  %s: %s\n", deck.Index()+1, deck.Len(), statusLabel(card.Status), label, side)
		cmdLine, err := a.ask(ctx, "(f)lip (n)ext (p)rev (m)astered (l)ater (q)uit", "f")
		if err != nil {
			return err
		}
		var changed *model.Flashcard
		switch strings.ToLower(cmdLine) {
		case "f":
			deck.Flip()
		case "n":
			if !deck.Next() {
				a.printf("That was the last card.\n")
			}
		case "p":
			if !deck.Prev() {
				a.printf("Already at the first card.\n")
			}
		case "m":
			c, _ := deck.ToggleMastered()
			changed = &c
		case "l":
			c, _ := deck.ToggleLater()
			changed = &c
		case "q":
			counts := deck.Counts()
			a.printf("New %d, later %d, mastered %d\n", counts[model.StatusNew], counts[model.StatusLater], counts[model.StatusMastered])
			return nil
		default:
			a.printf("Unknown command %q\n", cmdLine)
		}
		if changed != nil && remote {
			if _, err := a.api.UpdateFlashcardStatus(ctx, changed.ID, changed.Status); err != nil {
				a.report(err)
			}
		}
	}
}

func (a *app) printCards(cards []model.Flashcard) {
	if len(cards) == 0 {
		a.printf("No flashcards generated yet. Run \"flashcards generate\" to create some.\n")
		return
	}
	for i, c := range cards {
		a.printf("%2d. [%s] %s\n    Q: %s\n    A: %s\n", i+1, c.ID, statusLabel(c.Status), c.Question, c.Answer)
	}
}

func statusLabel(s model.CardStatus) string {
	switch s {
	case model.StatusMastered:
		return "Mastered"
	case model.StatusLater:
		return "Later"
	default:
		return "Study"
	}
}
