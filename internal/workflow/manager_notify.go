package workflow

import (
	"context"
	"errors"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/versionstore"
)

func isFinal(v versionstore.Version) bool {
	stage, err := v.Stage()
	return err == nil && stage.IsTerminal()
}

func (m *Manager) notifyFinalized(ctx context.Context, final versionstore.Version) {
	if m.collab.Notifier == nil {
		return
	}
	title := final.ChapterTitle()
	if title == "" {
		title = final.OriginalURL()
	}
	if err := m.collab.Notifier.NotifyFinalized(ctx, title, final.ID); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "finalized notification failed", "notification_failed",
			logging.String(logging.FieldVersionID, final.ID),
			logging.Error(err),
		)
	}
}

func (m *Manager) notifyHalted(ctx context.Context, cause error, stage string) {
	switch {
	case m.collab.Notifier == nil,
		errors.Is(cause, context.Canceled),
		errors.Is(cause, context.DeadlineExceeded),
		errors.Is(cause, services.ErrConfiguration):
		return
	}
	// The run context may already be done; delivery uses a detached context.
	if err := m.collab.Notifier.NotifyHalted(context.WithoutCancel(ctx), cause, stage); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "halt notification failed", "notification_failed",
			logging.String("halted_stage", stage),
			logging.Error(err),
		)
	}
}
