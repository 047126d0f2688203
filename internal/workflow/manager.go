package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"scribe/internal/logging"
	"scribe/internal/retrieval"
	"scribe/internal/services"
	"scribe/internal/versionstore"
)

// Manager drives versions through the revision pipeline.
type Manager struct {
	store     Store
	retriever *retrieval.Retriever
	collab    Collaborators
	logger    *slog.Logger
	now       func() time.Time
	newRunID  func() string
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithClock overrides the clock used for version timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRunIDGenerator overrides how run correlation ids are minted.
func WithRunIDGenerator(next func() string) ManagerOption {
	return func(m *Manager) {
		if next != nil {
			m.newRunID = next
		}
	}
}

// NewManager constructs a workflow manager over store.
func NewManager(store Store, collab Collaborators, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		retriever: retrieval.New(store),
		collab:    collab,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ingest acquires url, stores it as a raw version, and runs the full pipeline.
func (m *Manager) Ingest(ctx context.Context, url, label string) (Result, error) {
	url = strings.TrimSpace(url)
	label = strings.TrimSpace(label)
	if url == "" {
		return Result{}, services.Wrap(services.ErrValidation, versionstore.StageRaw.String(), "ingest", "url is required", nil)
	}
	if m.collab.Acquirer == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, versionstore.StageRaw.String(), "ingest", "no acquirer configured", nil)
	}
	ctx, logger := m.runContext(ctx, url)

	acquired, err := m.collab.Acquirer.Fetch(ctx, url, label)
	if err != nil {
		return Result{}, services.Wrap(services.ErrAcquisition, versionstore.StageRaw.String(), "fetch", "failed to acquire content", err)
	}
	if strings.TrimSpace(acquired.Content) == "" {
		return Result{}, services.Wrap(services.ErrAcquisition, versionstore.StageRaw.String(), "fetch", "acquired content is empty", nil)
	}
	if label == "" {
		label = strings.TrimSpace(acquired.Label)
	}

	metadata := map[string]string{
		versionstore.KeyOriginalURL:  url,
		versionstore.KeyStage:        versionstore.StageRaw.String(),
		versionstore.KeyProcessedBy:  string(versionstore.ActorScraper),
		versionstore.KeyTimestamp:    versionstore.FormatTimestamp(m.now()),
		versionstore.KeyChapterTitle: label,
	}
	if label == "" {
		delete(metadata, versionstore.KeyChapterTitle)
	}
	raw, err := m.put(ctx, acquired.Content, metadata, "store raw")
	if err != nil {
		return Result{}, err
	}
	logger.Info("raw content stored",
		logging.String(logging.FieldEventType, "version_stored"),
		logging.String(logging.FieldVersionID, raw.ID),
		logging.String(logging.FieldStage, raw.StageLabel()),
		logging.Int("content_chars", len(acquired.Content)),
	)

	result, err := m.run(ctx, raw)
	result.Written = append([]versionstore.Version{raw}, result.Written...)
	if result.LastID == "" {
		result.LastID = raw.ID
	}
	return result, err
}

// Resume continues the pipeline from the newest version recorded for url.
func (m *Manager) Resume(ctx context.Context, url string) (Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Result{}, services.Wrap(services.ErrValidation, "", "resume", "url is required", nil)
	}
	ctx, logger := m.runContext(ctx, url)

	latest, err := m.retriever.LatestVersion(ctx, url)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return Result{}, services.Wrap(services.ErrNotFound, "", "resume", "no versions found for this URL", err)
		}
		return Result{}, services.Wrap(services.ErrStore, "", "resume", "lookup latest version", err)
	}
	logger.Info("latest version found",
		logging.String(logging.FieldVersionID, latest.ID),
		logging.String(logging.FieldStage, latest.StageLabel()),
		logging.String("processed_by", latest.ProcessedBy()),
		logging.String("timestamp", latest.Timestamp()),
	)
	return m.run(ctx, *latest)
}

// Run continues the pipeline from an already stored version.
func (m *Manager) Run(ctx context.Context, from versionstore.Version) (Result, error) {
	ctx, _ = m.runContext(ctx, from.OriginalURL())
	return m.run(ctx, from)
}

// Branch opens a historical version in the editor and, when the text
// changes, stores the edit as a new edited_from_<stage> tip.
func (m *Manager) Branch(ctx context.Context, versionID string) (Result, error) {
	source, err := m.store.Get(ctx, versionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return Result{}, services.Wrap(services.ErrNotFound, "", "branch", "version not found", err)
		}
		return Result{}, services.Wrap(services.ErrStore, "", "branch", "load version", err)
	}
	stage, err := source.Stage()
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, source.StageLabel(), "branch", "stored stage is not recognised", err)
	}
	if m.collab.Editor == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stage.String(), "branch", "no editor configured", nil)
	}
	ctx, logger := m.runContext(ctx, source.OriginalURL())
	ctx = services.WithVersionID(ctx, source.ID)
	result := Result{CorrelationID: m.correlationID(ctx), Start: *source, LastID: source.ID}

	edited, changed, err := m.collab.Editor.Edit(ctx, source.Content)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		logging.WarnWithContext(logger, "editor failed; treating branch as unchanged", "editor_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the editor command in config"),
			logging.String(logging.FieldImpact, "no branch version was written"),
		)
		changed = false
	}
	if !changed || edited == source.Content {
		result.Outcome = OutcomeUnchanged
		logger.Info("branch edit unchanged", logging.String(logging.FieldVersionID, source.ID))
		return result, nil
	}

	metadata := source.CloneMetadata()
	metadata[versionstore.KeyStage] = versionstore.EditedFrom(stage).String()
	metadata[versionstore.KeyProcessedBy] = string(versionstore.ActorHumanEditor)
	metadata[versionstore.KeySourceVersion] = source.ID
	metadata[versionstore.KeyTimestamp] = versionstore.FormatTimestamp(m.now())

	branched, err := m.put(ctx, edited, metadata, "store branch")
	if err != nil {
		return result, err
	}
	result.Written = append(result.Written, branched)
	result.LastID = branched.ID
	result.Outcome = OutcomeCompleted
	m.recordDiff(&result, Diff{
		BeforeID: source.ID, AfterID: branched.ID,
		BeforeLabel: "Original Version", AfterLabel: "Edited Version",
		Before: source.Content, After: edited,
	})
	logger.Info("branch version stored",
		logging.String(logging.FieldEventType, "version_stored"),
		logging.String(logging.FieldVersionID, branched.ID),
		logging.String(logging.FieldStage, branched.StageLabel()),
		logging.String("source_version", source.ID),
	)
	return result, nil
}

func (m *Manager) runContext(ctx context.Context, url string) (context.Context, *slog.Logger) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, m.newRunID())
	}
	ctx = services.WithOriginalURL(ctx, url)
	return ctx, logging.WithContext(ctx, m.logger)
}

func (m *Manager) correlationID(ctx context.Context) string {
	id, _ := services.RequestIDFromContext(ctx)
	return id
}

func (m *Manager) put(ctx context.Context, content string, metadata map[string]string, operation string) (versionstore.Version, error) {
	id, err := m.store.Put(ctx, content, metadata)
	if err != nil {
		return versionstore.Version{}, services.Wrap(services.ErrStore, metadata[versionstore.KeyStage], operation, "write version", err)
	}
	return versionstore.Version{ID: id, Content: content, Metadata: metadata}, nil
}

func (m *Manager) recordDiff(result *Result, diff Diff) {
	result.Diffs = append(result.Diffs, diff)
	if m.collab.Diffs != nil {
		m.collab.Diffs.ShowDiff(diff.Before, diff.After, diff.BeforeLabel, diff.AfterLabel)
	}
}
