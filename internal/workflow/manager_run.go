package workflow

import (
	"context"
	"errors"
	"slices"
	"strings"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/versionstore"
)

func (m *Manager) run(ctx context.Context, from versionstore.Version) (Result, error) {
	result := Result{
		CorrelationID: m.correlationID(ctx),
		Start:         from,
		LastID:        from.ID,
	}
	stage, err := from.Stage()
	if err != nil {
		return result, services.Wrap(services.ErrValidation, from.StageLabel(), "route", "stored stage is not recognised", err)
	}
	result.Step = NextStep(stage)

	ctx = services.WithVersionID(services.WithStage(ctx, stage.String()), from.ID)
	logger := logging.WithContext(ctx, m.logger)
	decision := "continue"
	if result.Step == StepNone {
		decision = "skip"
	}
	logger.Info("pipeline routed",
		logging.Args(append(logging.DecisionAttrs("resume_route", decision, "stage "+stage.String()),
			logging.String("next_step", result.Step.String()))...)...,
	)
	if result.Step == StepNone {
		result.Outcome = OutcomeAlreadyFinal
		if stage.Kind == versionstore.KindEdited {
			result.Outcome = OutcomeBranchTip
		}
		return result, nil
	}

	steps := plan(result.Step)
	if m.collab.Transformer == nil && slices.ContainsFunc(steps, func(t transition) bool { return t.automated }) {
		return result, services.Wrap(services.ErrConfiguration, stage.String(), result.Step.String(),
			"automated passes need an LLM API key (set llm.api_key)", nil)
	}

	current := from
	for _, t := range steps {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeHalted
			return result, err
		}
		next, wrote, err := m.apply(ctx, t, current)
		if err != nil {
			result.Outcome = OutcomeHalted
			m.notifyHalted(ctx, err, t.to.String())
			return result, err
		}
		if !wrote {
			continue
		}
		result.Written = append(result.Written, next)
		result.LastID = next.ID
		if next.Content != current.Content {
			m.recordDiff(&result, Diff{
				BeforeID: current.ID, AfterID: next.ID,
				BeforeLabel: t.beforeLabel, AfterLabel: t.afterLabel,
				Before: current.Content, After: next.Content,
			})
		}
		current = next
	}
	result.Outcome = OutcomeCompleted
	logger.Info("pipeline finished",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.String("last_version_id", result.LastID),
		logging.Int("versions_written", len(result.Written)),
	)
	if current.ID != from.ID && isFinal(current) {
		m.notifyFinalized(ctx, current)
	}
	return result, nil
}

// apply executes one transition. wrote is false when a human pass left the
// text unchanged.
func (m *Manager) apply(ctx context.Context, t transition, current versionstore.Version) (versionstore.Version, bool, error) {
	ctx = services.WithVersionID(services.WithStage(ctx, t.to.String()), current.ID)
	logger := logging.WithContext(ctx, m.logger)

	var (
		text string
		err  error
	)
	if t.automated {
		text, err = m.transform(ctx, t, current.Content)
		if err != nil {
			logging.ErrorWithContext(logger, "automated step failed", "transform_failed",
				logging.String("step", t.name),
				logging.String("last_version_id", current.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "resume this URL once the LLM endpoint is healthy"),
				logging.String(logging.FieldImpact, "pipeline halted; no version written for this step"),
			)
			return versionstore.Version{}, false, err
		}
	} else {
		var changed bool
		text, changed, err = m.edit(ctx, current.Content)
		if err != nil {
			if ctx.Err() != nil {
				return versionstore.Version{}, false, ctx.Err()
			}
			logging.WarnWithContext(logger, "editor failed; treating pass as unchanged", "editor_failed",
				logging.String("step", t.name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the editor command in config"),
				logging.String(logging.FieldImpact, "pipeline continues with the previous version"),
			)
			changed = false
		}
		if !changed || text == current.Content {
			logger.Info("human pass unchanged", logging.String("step", t.name))
			return current, false, nil
		}
	}

	metadata := map[string]string{
		versionstore.KeyStage:         t.to.String(),
		versionstore.KeyProcessedBy:   string(t.actor),
		versionstore.KeySourceVersion: current.ID,
		versionstore.KeyTimestamp:     versionstore.FormatTimestamp(m.now()),
	}
	if url := current.OriginalURL(); url != "" {
		metadata[versionstore.KeyOriginalURL] = url
	}
	if title := current.ChapterTitle(); title != "" {
		metadata[versionstore.KeyChapterTitle] = title
	}
	next, err := m.put(ctx, text, metadata, t.name)
	if err != nil {
		return versionstore.Version{}, false, err
	}
	logger.Info("version stored",
		logging.String(logging.FieldEventType, "version_stored"),
		logging.String("new_version_id", next.ID),
		logging.String("processed_by", string(t.actor)),
	)
	return next, true, nil
}

func (m *Manager) transform(ctx context.Context, t transition, text string) (string, error) {
	if m.collab.Transformer == nil {
		return "", services.Wrap(services.ErrConfiguration, t.to.String(), t.name, "no transformer configured", nil)
	}
	var (
		out string
		err error
	)
	switch t.to.Kind {
	case versionstore.KindAISpun:
		out, err = m.collab.Transformer.Rewrite(ctx, text)
	default:
		out, err = m.collab.Transformer.Review(ctx, text)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", services.Wrap(services.ErrTransform, t.to.String(), t.name, "automated pass failed", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", services.Wrap(services.ErrTransform, t.to.String(), t.name, "automated pass returned empty text", nil)
	}
	return out, nil
}

func (m *Manager) edit(ctx context.Context, text string) (string, bool, error) {
	if m.collab.Editor == nil {
		return text, false, nil
	}
	return m.collab.Editor.Edit(ctx, text)
}
