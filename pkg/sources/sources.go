package sources

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	dotrigerrors "github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// SyncAction is what Sync did to the checkout
type SyncAction string

const (
	SyncCloned   SyncAction = "cloned"
	SyncUpdated  SyncAction = "updated"
	SyncUpToDate SyncAction = "up-to-date"
	SyncSkipped  SyncAction = "skipped"
)

// Repo is a remote and the local checkout tracking it
type Repo struct {
	URL    string
	Branch string
	Path   string
}

// SyncResult describes a finished Sync
type SyncResult struct {
	Action   SyncAction `json:"action" yaml:"action"`
	Path     string     `json:"path" yaml:"path"`
	Head     string     `json:"head,omitempty" yaml:"head,omitempty"`
	Attempts int        `json:"attempts" yaml:"attempts"`
}

// Syncer clones and pulls managed sources
type Syncer struct {
	policy   RetryPolicy
	logger   zerolog.Logger
	progress io.Writer
}

// NewSyncer creates a Syncer retrying with policy
func NewSyncer(policy RetryPolicy) *Syncer {
	return &Syncer{
		policy: policy,
		logger: logging.GetLogger("sources"),
	}
}

// WithProgress sends git progress output to w
func (s *Syncer) WithProgress(w io.Writer) *Syncer {
	s.progress = w
	return s
}

// WithLogger replaces the logger
func (s *Syncer) WithLogger(logger zerolog.Logger) *Syncer {
	s.logger = logger
	return s
}

// Sync clones repo.URL into repo.Path, or pulls when a checkout is already
// there. An empty URL skips syncing.
func (s *Syncer) Sync(ctx context.Context, repo Repo) (*SyncResult, error) {
	result := &SyncResult{Path: repo.Path}
	if repo.URL == "" {
		result.Action = SyncSkipped
		s.logger.Debug().Msg("No source URL configured, skipping sync")
		return result, nil
	}
	if repo.Path == "" {
		return nil, dotrigerrors.New(dotrigerrors.ErrInvalidInput, "checkout path cannot be empty")
	}

	done := logging.LogOperationStart(s.logger, "sync")
	defer done()

	var err error
	if _, statErr := os.Stat(filepath.Join(repo.Path, ".git")); statErr == nil {
		err = s.pull(ctx, repo, result)
	} else {
		err = s.clone(ctx, repo, result)
	}
	if err != nil {
		return result, dotrigerrors.Wrapf(err, dotrigerrors.ErrSourceSync, "failed to sync %s", repo.URL).
			WithDetail("attempts", result.Attempts)
	}

	s.logger.Info().
		Str("url", repo.URL).
		Str("path", repo.Path).
		Str("action", string(result.Action)).
		Str("head", shortHash(result.Head)).
		Msg("Source synced")
	return result, nil
}

func (s *Syncer) clone(ctx context.Context, repo Repo, result *SyncResult) error {
	if entries, err := os.ReadDir(repo.Path); err == nil && len(entries) > 0 {
		return dotrigerrors.Newf(dotrigerrors.ErrInvalidInput,
			"%s exists and is not a git checkout", repo.Path)
	}
	if err := os.MkdirAll(filepath.Dir(repo.Path), 0755); err != nil {
		return err
	}

	opts := &git.CloneOptions{
		URL:      repo.URL,
		Progress: s.progress,
	}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		opts.SingleBranch = true
	}

	var cloned *git.Repository
	err := retry.Do(ctx, s.policy.backoff(), func(ctx context.Context) error {
		result.Attempts++
		s.logger.Debug().Str("url", repo.URL).Int("attempt", result.Attempts).Msg("Cloning source")

		r, err := git.PlainCloneContext(ctx, repo.Path, false, opts)
		if err != nil {
			// A failed clone leaves a partial checkout behind
			_ = os.RemoveAll(repo.Path)
			return s.classify(err)
		}
		cloned = r
		return nil
	})
	if err != nil {
		return err
	}

	result.Action = SyncCloned
	result.Head = headHash(cloned)
	return nil
}

func (s *Syncer) pull(ctx context.Context, repo Repo, result *SyncResult) error {
	r, err := git.PlainOpen(repo.Path)
	if err != nil {
		return err
	}
	worktree, err := r.Worktree()
	if err != nil {
		return err
	}

	before := headHash(r)
	opts := &git.PullOptions{
		RemoteName: "origin",
		Progress:   s.progress,
	}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		opts.SingleBranch = true
	}

	upToDate := false
	err = retry.Do(ctx, s.policy.backoff(), func(ctx context.Context) error {
		result.Attempts++
		s.logger.Debug().Str("path", repo.Path).Int("attempt", result.Attempts).Msg("Pulling source")

		err := worktree.PullContext(ctx, opts)
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			upToDate = true
			return nil
		}
		if err != nil {
			return s.classify(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	result.Head = headHash(r)
	if upToDate || result.Head == before {
		result.Action = SyncUpToDate
	} else {
		result.Action = SyncUpdated
	}
	return nil
}

// classify marks transient failures retryable. Errors that will not change
// on a second try stop the retry loop at once.
func (s *Syncer) classify(err error) error {
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		errors.Is(err, transport.ErrEmptyRemoteRepository),
		errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, git.ErrNonFastForwardUpdate),
		errors.Is(err, git.ErrWorktreeNotClean),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	s.logger.Warn().Err(err).Msg("Git operation failed, retrying")
	return retry.RetryableError(err)
}

func headHash(r *git.Repository) string {
	if r == nil {
		return ""
	}
	ref, err := r.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
