package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/repository"
	"github.com/rgauld/dialectic/internal/storage"
)

// Service resolves a stage's declared input rules into fully-hydrated
// source documents.
type Service struct {
	resources     ResourceFinder
	feedback      FeedbackFinder
	contributions ContributionFinder
	names         DisplayNameResolver
	store         storage.Downloader
	logger        *slog.Logger
}

// NewService creates a new resolver service.
func NewService(
	resources ResourceFinder,
	feedbackRepo FeedbackFinder,
	contributions ContributionFinder,
	names DisplayNameResolver,
	store storage.Downloader,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resources:     resources,
		feedback:      feedbackRepo,
		contributions: contributions,
		names:         names,
		store:         store,
		logger:        logger,
	}
}

// ResolveRequest carries the entities scoping one resolution pass.
type ResolveRequest struct {
	Stage     *stage.Stage
	Project   *project.Project
	Session   *session.Session
	Iteration int
}

// Resolve gathers input documents for the stage's recipe step, in rule
// declaration order. A required rule that cannot be satisfied returns a
// *RuleError; optional rules degrade to log entries.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*GatheredContext, error) {
	rules := req.Stage.RecipeStep.InputRules
	out := &GatheredContext{
		SourceDocuments: []SourceDocument{},
		RecipeStep:      req.Stage.RecipeStep,
	}
	if len(rules) == 0 {
		return out, nil
	}

	names := s.resolveDisplayNames(ctx, rules)

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		name := names[rule.StageSlug]

		var (
			docs []SourceDocument
			err  error
		)
		switch rule.Type {
		case stage.RuleDocument:
			docs, err = resolveDocumentRule(ctx, s.resources, s.store, s.logger, rule, req, name)
		case stage.RuleFeedback:
			docs, err = resolveFeedbackRule(ctx, s.feedback, s.store, s.logger, rule, req, name)
		case stage.RuleHeaderContext, stage.RuleContribution:
			docs, err = resolveContributionRule(ctx, s.contributions, s.store, s.logger, rule, req, name)
		default:
			return nil, fmt.Errorf("unknown input rule type %q", rule.Type)
		}
		if err != nil {
			return nil, err
		}
		out.SourceDocuments = append(out.SourceDocuments, docs...)
	}
	return out, nil
}

// resolveDisplayNames batch-resolves the distinct referenced slugs once
// per invocation. Display decoration never aborts resolution; a failed
// lookup falls back to the slugs themselves.
func (s *Service) resolveDisplayNames(ctx context.Context, rules []stage.InputRule) map[string]string {
	slugs := make([]string, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, ok := seen[r.StageSlug]; ok {
			continue
		}
		seen[r.StageSlug] = struct{}{}
		slugs = append(slugs, r.StageSlug)
	}

	names, err := s.names.DisplayNames(ctx, slugs)
	if err != nil {
		s.logger.Error("stage display name resolution failed, falling back to slugs", "error", err)
		names = make(map[string]string, len(slugs))
	}
	for _, slug := range slugs {
		if _, ok := names[slug]; !ok {
			names[slug] = slug
		}
	}
	return names
}

// resolveDocumentRule resolves a document rule against the rendered
// resource catalog. Its signature has no path to raw contributions:
// finished documents live exclusively in the resource catalog and are
// never synthesized from model output.
func resolveDocumentRule(
	ctx context.Context,
	resources ResourceFinder,
	store storage.Downloader,
	logger *slog.Logger,
	rule stage.InputRule,
	req ResolveRequest,
	displayName string,
) ([]SourceDocument, error) {
	var found []document.Resource

	if rule.Multiple && rule.DocumentKey == nil {
		list, err := resources.ListRendered(ctx, repository.ResourceScope{
			SessionID: req.Session.ID,
			Iteration: req.Iteration,
			StageSlug: rule.StageSlug,
		})
		if err != nil {
			return nil, classifyQueryError(logger, rule, displayName, err)
		}
		if len(list) == 0 {
			return nil, classifyNotFound(logger, rule, displayName)
		}
		found = list
	} else {
		res, err := resources.FindRendered(ctx, repository.ResourceQuery{
			SessionID:   req.Session.ID,
			Iteration:   req.Iteration,
			StageSlug:   rule.StageSlug,
			DocumentKey: rule.DocumentKey,
		})
		if errors.Is(err, repository.ErrNotFound) {
			return nil, classifyNotFound(logger, rule, displayName)
		}
		if err != nil {
			return nil, classifyQueryError(logger, rule, displayName, err)
		}
		found = []document.Resource{*res}
	}

	docs := make([]SourceDocument, 0, len(found))
	for _, res := range found {
		if !res.HasStorageDetails() {
			// Data-integrity failure: the catalog row exists but cannot be
			// downloaded.
			if rule.Required {
				return nil, &RuleError{Kind: ErrStorageDetailsMissing, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule)}
			}
			logger.Error("optional rendered document has no storage details, skipping",
				"stage", rule.StageSlug, "document_key", keyOf(rule), "resource_id", res.ID)
			continue
		}
		content, err := store.Download(ctx, res.StorageBucket, res.StoragePath)
		if err != nil {
			if rule.Required {
				return nil, &RuleError{Kind: ErrRequiredDownloadFailed, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule), Cause: err}
			}
			logger.Error("optional rendered document download failed, skipping",
				"stage", rule.StageSlug, "document_key", keyOf(rule), "error", err)
			continue
		}
		docs = append(docs, SourceDocument{
			ID:      res.ID,
			Type:    rule.Type,
			Content: string(content),
			Metadata: Metadata{
				Header:      rule.SectionHeader,
				DisplayName: displayName,
				ModelName:   artifact.ModelSlugFromFileName(res.FileName),
			},
		})
	}
	return docs, nil
}

// resolveFeedbackRule resolves a feedback rule against the feedback
// catalog at the previous iteration, scoped to the project owner.
func resolveFeedbackRule(
	ctx context.Context,
	feedbackRepo FeedbackFinder,
	store storage.Downloader,
	logger *slog.Logger,
	rule stage.InputRule,
	req ResolveRequest,
	displayName string,
) ([]SourceDocument, error) {
	rec, err := feedbackRepo.Find(ctx, repository.FeedbackQuery{
		SessionID: req.Session.ID,
		StageSlug: rule.StageSlug,
		Iteration: req.Iteration - 1,
		UserID:    req.Project.UserID,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, classifyNotFound(logger, rule, displayName)
	}
	if err != nil {
		return nil, classifyQueryError(logger, rule, displayName, err)
	}

	if rec.StorageBucket == "" || rec.StoragePath == "" {
		if rule.Required {
			return nil, &RuleError{Kind: ErrStorageDetailsMissing, RuleType: rule.Type, StageName: displayName}
		}
		logger.Error("optional feedback record has no storage details, skipping",
			"stage", rule.StageSlug, "feedback_id", rec.ID)
		return nil, nil
	}
	content, err := store.Download(ctx, rec.StorageBucket, rec.StoragePath)
	if err != nil {
		if rule.Required {
			return nil, &RuleError{Kind: ErrRequiredDownloadFailed, RuleType: rule.Type, StageName: displayName, Cause: err}
		}
		logger.Error("optional feedback download failed, skipping",
			"stage", rule.StageSlug, "error", err)
		return nil, nil
	}

	// Feedback headers come only from the rule's explicit section header.
	return []SourceDocument{{
		ID:      rec.ID,
		Type:    rule.Type,
		Content: string(content),
		Metadata: Metadata{
			Header:      rule.SectionHeader,
			DisplayName: displayName,
		},
	}}, nil
}

// resolveContributionRule resolves header_context and contribution rules
// against the raw contribution catalog, selecting latest-edit rows. These
// rule types never consult the rendered-resource catalog.
func resolveContributionRule(
	ctx context.Context,
	contributions ContributionFinder,
	store storage.Downloader,
	logger *slog.Logger,
	rule stage.InputRule,
	req ResolveRequest,
	displayName string,
) ([]SourceDocument, error) {
	q := repository.ContributionQuery{
		SessionID:   req.Session.ID,
		Iteration:   req.Iteration,
		StageSlug:   rule.StageSlug,
		DocumentKey: rule.DocumentKey,
	}

	var found []contributionRow
	if rule.Multiple {
		list, err := contributions.ListLatest(ctx, q)
		if err != nil {
			return nil, classifyQueryError(logger, rule, displayName, err)
		}
		if len(list) == 0 {
			return nil, classifyNotFound(logger, rule, displayName)
		}
		for _, c := range list {
			found = append(found, contributionRow{id: c.ID, bucket: c.StorageBucket, path: c.StoragePath, fileName: c.FileName, modelName: c.ModelName})
		}
	} else {
		c, err := contributions.FindLatest(ctx, q)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, classifyNotFound(logger, rule, displayName)
		}
		if err != nil {
			return nil, classifyQueryError(logger, rule, displayName, err)
		}
		found = []contributionRow{{id: c.ID, bucket: c.StorageBucket, path: c.StoragePath, fileName: c.FileName, modelName: c.ModelName}}
	}

	docs := make([]SourceDocument, 0, len(found))
	for _, row := range found {
		if row.bucket == "" || row.path == "" {
			if rule.Required {
				return nil, &RuleError{Kind: ErrStorageDetailsMissing, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule)}
			}
			logger.Error("optional contribution has no storage details, skipping",
				"stage", rule.StageSlug, "contribution_id", row.id)
			continue
		}
		content, err := store.Download(ctx, row.bucket, row.path)
		if err != nil {
			if rule.Required {
				return nil, &RuleError{Kind: ErrRequiredDownloadFailed, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule), Cause: err}
			}
			logger.Error("optional contribution download failed, skipping",
				"stage", rule.StageSlug, "contribution_id", row.id, "error", err)
			continue
		}

		// The file name encodes the model slug; parsing it avoids a second
		// catalog lookup.
		modelName := artifact.ModelSlugFromFileName(row.fileName)
		if modelName == "" {
			modelName = row.modelName
		}
		docs = append(docs, SourceDocument{
			ID:      row.id,
			Type:    rule.Type,
			Content: string(content),
			Metadata: Metadata{
				Header:      rule.SectionHeader,
				DisplayName: displayName,
				ModelName:   modelName,
			},
		})
	}
	return docs, nil
}

type contributionRow struct {
	id        string
	bucket    string
	path      string
	fileName  string
	modelName string
}

func classifyNotFound(logger *slog.Logger, rule stage.InputRule, displayName string) error {
	if rule.Required {
		return &RuleError{Kind: ErrRequiredInputMissing, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule)}
	}
	logger.Debug("optional input not found, skipping",
		"type", string(rule.Type), "stage", rule.StageSlug, "document_key", keyOf(rule))
	return nil
}

func classifyQueryError(logger *slog.Logger, rule stage.InputRule, displayName string, err error) error {
	if rule.Required {
		return &RuleError{Kind: ErrCatalogQuery, RuleType: rule.Type, StageName: displayName, DocumentKey: keyOf(rule), Cause: err}
	}
	logger.Error("optional input catalog query failed, treating as not found",
		"type", string(rule.Type), "stage", rule.StageSlug, "error", err)
	return nil
}

func keyOf(rule stage.InputRule) string {
	if rule.DocumentKey == nil {
		return ""
	}
	return *rule.DocumentKey
}
