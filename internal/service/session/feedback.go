package session

import (
	"context"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// FeedbackStateMachine drives the per-item like/dislike cycle. Switching from
// one reaction to the opposite is a reset followed by the new reaction; a
// failed reset aborts the switch, a failed second call leaves the item
// neutral.
type FeedbackStateMachine struct {
	s *Session
}

func (f *FeedbackStateMachine) like(ctx context.Context, itemID int) error {
	return f.react(ctx, itemID, models.FeedbackLiked)
}

func (f *FeedbackStateMachine) dislike(ctx context.Context, itemID int) error {
	return f.react(ctx, itemID, models.FeedbackDisliked)
}

func (f *FeedbackStateMachine) react(ctx context.Context, itemID int, want models.FeedbackState) error {
	if f.s.acting.Active() {
		return ErrFeedbackSuppressed
	}
	fb, ok := f.s.state.Feedback[itemID]
	if !ok {
		return ErrUnknownItem
	}

	switch fb.State {
	case want:
		// Same reaction again clears it.
		if err := f.callReset(ctx, itemID); err != nil {
			return err
		}
		f.undo(fb)
		return nil
	case models.FeedbackNone:
		if err := f.callReact(ctx, itemID, want); err != nil {
			return err
		}
		f.apply(fb, want)
		return nil
	default:
		// Opposite reaction held: clear first, then apply. When the
		// second call fails the item stays neutral.
		if err := f.callReset(ctx, itemID); err != nil {
			return err
		}
		f.undo(fb)
		if err := f.callReact(ctx, itemID, want); err != nil {
			return err
		}
		f.apply(fb, want)
		return nil
	}
}

func (f *FeedbackStateMachine) callReact(ctx context.Context, itemID int, want models.FeedbackState) error {
	var env *ledger.Envelope
	var err error
	if want == models.FeedbackLiked {
		env, err = f.s.client.LikeItem(ctx, itemID)
	} else {
		env, err = f.s.client.DislikeItem(ctx, itemID)
	}
	if err != nil {
		return err
	}
	f.s.messages.publish(env.Messages...)
	return nil
}

func (f *FeedbackStateMachine) callReset(ctx context.Context, itemID int) error {
	env, err := f.s.client.ResetItemFeedback(ctx, itemID)
	if err != nil {
		return err
	}
	f.s.messages.publish(env.Messages...)
	return nil
}

func (f *FeedbackStateMachine) apply(fb *models.ItemFeedback, state models.FeedbackState) {
	fb.State = state
	if state == models.FeedbackLiked {
		fb.TotalLikes++
	} else {
		fb.TotalDislikes++
	}
}

func (f *FeedbackStateMachine) undo(fb *models.ItemFeedback) {
	switch fb.State {
	case models.FeedbackLiked:
		if fb.TotalLikes > 0 {
			fb.TotalLikes--
		}
	case models.FeedbackDisliked:
		if fb.TotalDislikes > 0 {
			fb.TotalDislikes--
		}
	}
	fb.State = models.FeedbackNone
}
