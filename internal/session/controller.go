package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"govscheme-workers/internal/audit"
	apperrors "govscheme-workers/internal/common/errors"
	gateway "govscheme-workers/internal/common/http"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/metrics"
	"govscheme-workers/internal/common/validation"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/reference"
	"govscheme-workers/internal/scheme"
)

// User-facing notice and chat texts.
const (
	NoticeFoundFormat  = "Found %d schemes for you!"
	NoticeBackendDown  = "Error connecting to server. Is backend running?"
	NoticeSearchFailed = "Could not load the scheme directory. Please try again."
	NoticeRejected     = "Could not find recommendations for this profile. Please try again."

	ChatFallbackError = "Server error. Please try again."
	ChatFallbackEmpty = "Sorry, I couldn't process that."

	DefaultMaxChatTurns = 50

	// Result names forwarded to the assistant as context.
	chatContextSchemes = 10
)

var errStale = errors.New("session moved on")

type Gateway interface {
	GetRecommendations(ctx context.Context, profile models.UserProfile, language string) (*models.RecommendResponse, error)
	SendChatMessage(ctx context.Context, message, language string, chatCtx gateway.ChatContext) (*gateway.ChatReply, error)
	GetAllSchemes(ctx context.Context, filters gateway.SchemeFilters) (*gateway.SchemeDirectory, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) (string, error)
}

type CatalogIndexer interface {
	IndexSchemes(ctx context.Context, schemes []models.Scheme) (int, error)
}

type MatchObserver interface {
	RecordMatches(ctx context.Context, state string, matches int)
}

// Options holds the optional collaborators. Nil ones are skipped.
type Options struct {
	Audit        AuditRecorder
	Catalog      CatalogIndexer
	Observer     MatchObserver
	MaxChatTurns int

	// StrictProfile also requires name and gender on submitted profiles.
	StrictProfile bool
}

// Outcome is the session after an operation that waited on the backend.
// Stale is set when the session changed while the call was in flight and
// the reply was dropped; State is then the session as it is now.
type Outcome struct {
	State *models.SessionState
	Stale bool
}

// Controller applies user intents to session state. Every transition goes
// through Store.Update; backend calls happen between two updates and their
// result is applied only if the session has not moved on.
type Controller struct {
	store   Store
	gateway Gateway
	log     logger.Logger
	opts    Options
	now     func() time.Time
}

func NewController(store Store, gw Gateway, log logger.Logger, opts Options) *Controller {
	if opts.MaxChatTurns <= 0 {
		opts.MaxChatTurns = DefaultMaxChatTurns
	}
	return &Controller{
		store:   store,
		gateway: gw,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
}

func (c *Controller) State(ctx context.Context, id string) (*models.SessionState, error) {
	return c.store.Load(ctx, id)
}

func (c *Controller) notice(kind models.NoticeKind, msg string) *models.Notice {
	return &models.Notice{Kind: kind, Message: msg, CreatedAt: c.now().UTC()}
}

// SubmitProfile sends the profile for matching. The returned error is the
// backend failure the user was told about, or a rejected precondition.
func (c *Controller) SubmitProfile(ctx context.Context, id string, profile models.UserProfile) (*Outcome, error) {
	log := logger.ForSession(c.log, id)

	result, err := validation.ValidateProfileWith(&profile, validation.Rules{RequireIdentity: c.opts.StrictProfile})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewProfileValidationFailedError(result.Summary()).
			WithMetadata("validationErrors", result.Errors)
	}

	var (
		generation uint64
		language   string
	)
	_, err = c.store.Update(ctx, id, func(s *models.SessionState) error {
		if s.CurrentView == models.ViewLoading {
			return ErrRequestInFlight
		}
		s.Generation++
		generation = s.Generation
		language = s.Language
		s.CurrentView = models.ViewLoading
		s.Notice = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ViewTransitions.WithLabelValues(string(models.ViewLoading)).Inc()

	resp, callErr := c.gateway.GetRecommendations(ctx, profile, language)
	// The session must leave the loading view even if the job was cancelled.
	ctx = context.WithoutCancel(ctx)
	if callErr == nil && (!resp.Success || resp.Schemes == nil) {
		reason := resp.Error
		if reason == "" {
			reason = "backend did not report success"
		}
		callErr = apperrors.NewRecommendationRejectedError(reason)
	}

	var (
		classified []models.Scheme
		counts     scheme.Counts
	)
	if callErr == nil {
		classified = scheme.ClassifyAll(resp.Schemes)
		counts = scheme.Summarize(classified)
		metrics.SchemesClassified.WithLabelValues(string(scheme.KindCentral)).Add(float64(counts.Central))
		metrics.SchemesClassified.WithLabelValues(string(scheme.KindState)).Add(float64(counts.State))
	}

	state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		if s.Generation != generation || s.CurrentView != models.ViewLoading {
			return errStale
		}
		if callErr != nil {
			msg := NoticeBackendDown
			if apperrors.HasCode(callErr, apperrors.ErrCodeRecommendationRejected) {
				msg = NoticeRejected
			}
			s.CurrentView = models.ViewHome
			s.Notice = c.notice(models.NoticeError, msg)
			return nil
		}
		s.Results = classified
		s.TotalMatches = resp.TotalMatches
		s.UserProfile = profile.Clone()
		s.CurrentView = models.ViewResults
		s.Notice = c.notice(models.NoticeSuccess, fmt.Sprintf(NoticeFoundFormat, resp.TotalMatches))
		return nil
	})
	if errors.Is(err, errStale) {
		metrics.StaleResultsDropped.WithLabelValues(gateway.OpRecommend).Inc()
		log.Info("dropping recommendation reply for a session that moved on", map[string]interface{}{
			"generation": generation,
		})
		current, loadErr := c.store.Load(ctx, id)
		if loadErr != nil {
			return nil, loadErr
		}
		return &Outcome{State: current, Stale: true}, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.ViewTransitions.WithLabelValues(string(state.CurrentView)).Inc()

	c.recordSubmission(ctx, id, profile, language, resp, counts, callErr)

	if callErr != nil {
		log.Warn("recommendation round failed", map[string]interface{}{"error": callErr.Error()})
		return &Outcome{State: state}, callErr
	}
	log.Info("recommendation round applied", map[string]interface{}{
		"totalMatches": resp.TotalMatches,
		"central":      counts.Central,
		"state":        counts.State,
	})
	return &Outcome{State: state}, nil
}

func (c *Controller) recordSubmission(ctx context.Context, id string, profile models.UserProfile, language string,
	resp *models.RecommendResponse, counts scheme.Counts, callErr error) {
	if c.opts.Observer != nil && callErr == nil {
		c.opts.Observer.RecordMatches(ctx, profile.State, resp.TotalMatches)
	}
	if c.opts.Audit == nil {
		return
	}

	entry := audit.Entry{
		SessionID:  id,
		State:      profile.State,
		Category:   profile.Category,
		Occupation: profile.Occupation,
		Language:   language,
		Outcome:    audit.OutcomeSuccess,
	}
	switch {
	case callErr == nil:
		entry.TotalMatches = resp.TotalMatches
		entry.CentralCount = counts.Central
		entry.StateCount = counts.State
	case apperrors.HasCode(callErr, apperrors.ErrCodeRecommendationRejected):
		entry.Outcome = audit.OutcomeRejected
	default:
		entry.Outcome = audit.OutcomeFailed
	}

	if _, err := c.opts.Audit.Record(ctx, entry); err != nil {
		logger.ForSession(c.log, id).Warn("audit write failed", map[string]interface{}{"error": err.Error()})
	}
}

// ResetApp returns the session to its initial state, keeping only the
// language and chat transcript. It also invalidates any in-flight request.
func (c *Controller) ResetApp(ctx context.Context, id string) (*models.SessionState, error) {
	state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		next := models.NewSessionState(s.ID, s.Language)
		next.Generation = s.Generation + 1
		next.Chat = s.Chat
		next.ChatEpoch = s.ChatEpoch
		*s = *next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ViewTransitions.WithLabelValues(string(models.ViewHome)).Inc()
	return state, nil
}

// RunSearch fetches the full directory and keeps the schemes whose name,
// description or category contains query. A failed fetch only sets an
// error notice.
func (c *Controller) RunSearch(ctx context.Context, id, query string) (*Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	log := logger.ForSession(c.log, id)

	before, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	generation := before.Generation

	dir, callErr := c.gateway.GetAllSchemes(ctx, gateway.SchemeFilters{})
	ctx = context.WithoutCancel(ctx)
	if callErr != nil {
		state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
			s.Notice = c.notice(models.NoticeError, NoticeSearchFailed)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{State: state}, callErr
	}

	hits := scheme.Search(dir.Schemes, query)
	c.mirrorDirectory(ctx, log, dir.Schemes)

	state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		if s.Generation != generation {
			return errStale
		}
		s.SearchQuery = query
		s.SearchResults = hits
		s.CurrentView = models.ViewSearch
		s.Notice = nil
		return nil
	})
	if errors.Is(err, errStale) {
		metrics.StaleResultsDropped.WithLabelValues(gateway.OpSchemes).Inc()
		log.Info("dropping search results for a session that moved on", map[string]interface{}{"query": query})
		current, loadErr := c.store.Load(ctx, id)
		if loadErr != nil {
			return nil, loadErr
		}
		return &Outcome{State: current, Stale: true}, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.ViewTransitions.WithLabelValues(string(models.ViewSearch)).Inc()
	log.Info("search applied", map[string]interface{}{"query": query, "hits": len(hits), "directory": len(dir.Schemes)})
	return &Outcome{State: state}, nil
}

func (c *Controller) mirrorDirectory(ctx context.Context, log logger.Logger, directory []models.Scheme) {
	if c.opts.Catalog == nil || len(directory) == 0 {
		return
	}
	n, err := c.opts.Catalog.IndexSchemes(ctx, scheme.ClassifyAll(directory))
	if err != nil {
		log.Warn("catalog mirror failed", map[string]interface{}{"error": err.Error(), "indexed": n})
		return
	}
	log.Debug("catalog mirrored", map[string]interface{}{"indexed": n})
}

// Navigate switches view. Loading can only be entered by SubmitProfile;
// leaving it this way discards the pending reply.
func (c *Controller) Navigate(ctx context.Context, id string, view models.View) (*models.SessionState, error) {
	if !view.Valid() {
		return nil, apperrors.NewInvalidViewError(string(view))
	}
	if view == models.ViewLoading {
		return nil, ErrLoadingNotNavigable
	}
	state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		s.Generation++
		s.CurrentView = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ViewTransitions.WithLabelValues(string(view)).Inc()
	return state, nil
}

func (c *Controller) SetLanguage(ctx context.Context, id, code string) (*models.SessionState, error) {
	lang, ok := reference.LanguageByCode(code)
	if !ok {
		return nil, apperrors.NewInvalidLanguageError(code)
	}
	return c.store.Update(ctx, id, func(s *models.SessionState) error {
		s.Language = lang.Code
		return nil
	})
}

// ConsumeNotice returns the pending notice, if any, and clears it.
func (c *Controller) ConsumeNotice(ctx context.Context, id string) (*models.Notice, error) {
	var notice *models.Notice
	_, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		notice = s.Notice
		s.Notice = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notice, nil
}

// Results derives the displayed subset of the last recommendation round.
func (c *Controller) Results(ctx context.Context, id string, filter scheme.Filter, mode scheme.SortMode) (*scheme.View, error) {
	state, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return scheme.Apply(state.Results, filter, mode)
}

// SendChat appends the user's message and the assistant's reply to the
// transcript. Backend failures degrade to a fixed bot reply and are not
// returned as errors.
func (c *Controller) SendChat(ctx context.Context, id, message string) (*Outcome, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	log := logger.ForSession(c.log, id)

	var (
		epoch    uint64
		language string
		chatCtx  gateway.ChatContext
	)
	_, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		s.Chat = c.appendTurn(s.Chat, models.ChatRoleUser, message)
		epoch = s.ChatEpoch
		language = s.Language
		chatCtx = chatContextFor(s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reply := ChatFallbackError
	resp, callErr := c.gateway.SendChatMessage(ctx, message, language, chatCtx)
	ctx = context.WithoutCancel(ctx)
	switch {
	case callErr != nil:
		log.Warn("chat backend failed, using fallback", map[string]interface{}{"error": callErr.Error()})
	case strings.TrimSpace(resp.Response) == "":
		reply = ChatFallbackEmpty
	default:
		reply = resp.Response
	}

	state, err := c.store.Update(ctx, id, func(s *models.SessionState) error {
		if s.ChatEpoch != epoch {
			return errStale
		}
		s.Chat = c.appendTurn(s.Chat, models.ChatRoleBot, reply)
		return nil
	})
	if errors.Is(err, errStale) {
		metrics.StaleResultsDropped.WithLabelValues(gateway.OpChat).Inc()
		current, loadErr := c.store.Load(ctx, id)
		if loadErr != nil {
			return nil, loadErr
		}
		return &Outcome{State: current, Stale: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Outcome{State: state}, nil
}

// ClearChat empties the transcript. Replies still in flight are dropped.
func (c *Controller) ClearChat(ctx context.Context, id string) (*models.SessionState, error) {
	return c.store.Update(ctx, id, func(s *models.SessionState) error {
		s.Chat = nil
		s.ChatEpoch++
		return nil
	})
}

func (c *Controller) appendTurn(chat []models.ChatTurn, role models.ChatRole, text string) []models.ChatTurn {
	chat = append(chat, models.ChatTurn{Role: role, Text: text, At: c.now().UTC()})
	if over := len(chat) - c.opts.MaxChatTurns; over > 0 {
		chat = append([]models.ChatTurn(nil), chat[over:]...)
	}
	return chat
}

func chatContextFor(s *models.SessionState) gateway.ChatContext {
	summary := s.UserProfile.Summary()
	cc := gateway.ChatContext{
		SessionID:  s.ID,
		State:      summary.State,
		Category:   summary.Category,
		Occupation: summary.Occupation,
		Age:        summary.Age,
	}
	for i, r := range s.Results {
		if i == chatContextSchemes {
			break
		}
		cc.Schemes = append(cc.Schemes, r.DisplayName())
	}
	return cc
}
