package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/go-github/v83/github"
	"github.com/mchmarny/termpulse/pkg/net"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	pageSizeDefault = 100
	importWorkers   = 4

	// ImportMonthsDefault caps how far back the importer reaches when no
	// previous import state exists.
	ImportMonthsDefault = 6
)

// GitHubImportOptions configure one import run.
type GitHubImportOptions struct {
	Corpus        string
	Org           string
	Repos         []string
	Months        int
	MinTermLength int
	// Fresh clears the per-repo import state so the full window is
	// re-fetched.
	Fresh bool
}

// RepoImportSummary describes the outcome for one repo.
type RepoImportSummary struct {
	Repo  string `json:"repo" yaml:"repo"`
	Items int    `json:"items" yaml:"items"`
	Terms int    `json:"terms" yaml:"terms"`
}

// GitHubImportResult is the outcome of one import run.
type GitHubImportResult struct {
	Corpus   string               `json:"corpus" yaml:"corpus"`
	Org      string               `json:"org" yaml:"org"`
	Repos    []*RepoImportSummary `json:"repos" yaml:"repos"`
	Duration string               `json:"duration" yaml:"duration"`
}

// ImportGitHub tokenizes issue and PR text from GitHub into per-repo term
// counts: each repo becomes one set in the corpus. Imports are incremental,
// a high-water mark per repo limits re-fetching on subsequent runs.
func ImportGitHub(ctx context.Context, db *sql.DB, token string, opts GitHubImportOptions) (*GitHubImportResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if token == "" || opts.Corpus == "" || opts.Org == "" {
		return nil, errors.New("token, corpus, and org are required")
	}
	if opts.Months < 1 {
		opts.Months = ImportMonthsDefault
	}
	if opts.MinTermLength < 1 {
		opts.MinTermLength = 3
	}

	start := time.Now()
	client := github.NewClient(net.GetOAuthClient(ctx, token))

	repos := opts.Repos
	if len(repos) == 0 {
		var err error
		if repos, err = GetOrgRepoNames(ctx, client, opts.Org); err != nil {
			return nil, err
		}
	}

	if opts.Fresh {
		if err := ClearImportState(db, opts.Corpus, opts.Org); err != nil {
			return nil, err
		}
	}

	type repoCounts struct {
		repo   string
		counts map[string]float64
		items  int
		newest time.Time
	}

	results := make([]*repoCounts, 0, len(repos))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importWorkers)

	for _, repo := range repos {
		g.Go(func() error {
			since, err := GetImportState(db, opts.Corpus, opts.Org, repo)
			if err != nil {
				return err
			}
			if floor := start.AddDate(0, -opts.Months, 0); since.Before(floor) {
				since = floor
			}

			slog.Info("importing terms", "org", opts.Org, "repo", repo, "since", since.Format("2006-01-02"))
			rc := &repoCounts{repo: repo, counts: make(map[string]float64)}
			rc.items, rc.newest, err = importRepoTerms(gctx, client, opts.Org, repo, since, opts.MinTermLength, rc.counts)
			if err != nil {
				return errors.Wrapf(err, "failed to import %s/%s", opts.Org, repo)
			}

			mu.Lock()
			results = append(results, rc)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &GitHubImportResult{
		Corpus: opts.Corpus,
		Org:    opts.Org,
		Repos:  make([]*RepoImportSummary, 0, len(results)),
	}

	for _, rc := range results {
		counts := make([]*TermCount, 0, len(rc.counts))
		for term, n := range rc.counts {
			counts = append(counts, &TermCount{Set: rc.repo, Term: term, N: n})
		}
		if len(counts) > 0 {
			if err := AddTermCounts(db, opts.Corpus, counts); err != nil {
				return nil, err
			}
		}
		if !rc.newest.IsZero() {
			if err := SaveImportState(db, opts.Corpus, opts.Org, rc.repo, rc.newest); err != nil {
				return nil, err
			}
		}
		res.Repos = append(res.Repos, &RepoImportSummary{
			Repo:  rc.repo,
			Items: rc.items,
			Terms: len(rc.counts),
		})
	}

	res.Duration = time.Since(start).String()
	return res, nil
}

func importRepoTerms(ctx context.Context, client *github.Client, org, repo string, since time.Time, minTerm int, counts map[string]float64) (items int, newest time.Time, err error) {
	opt := &github.IssueListByRepoOptions{
		State: "all",
		Since: since,
		Sort:  "updated",
		ListOptions: github.ListOptions{
			PerPage: pageSizeDefault,
		},
	}

	for {
		issues, resp, err := client.Issues.ListByRepo(ctx, org, repo, opt)
		if err != nil {
			return items, newest, errors.Wrap(err, "failed to list issues")
		}

		for _, issue := range issues {
			items++
			CountTokens(counts, issue.GetTitle(), minTerm)
			CountTokens(counts, issue.GetBody(), minTerm)
			if t := issue.GetUpdatedAt().Time; t.After(newest) {
				newest = t
			}
		}

		slog.Debug("listed issues", "org", org, "repo", repo, "page", opt.ListOptions.Page, "rate", rateInfo(&resp.Rate))

		if resp.NextPage == 0 {
			break
		}
		opt.ListOptions.Page = resp.NextPage
	}

	return items, newest, nil
}

// GetOrgRepoNames lists the non-archived repos of a GitHub org or user.
func GetOrgRepoNames(ctx context.Context, client *github.Client, org string) ([]string, error) {
	if client == nil || org == "" {
		return nil, errors.New("client and org are required")
	}

	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: pageSizeDefault},
	}

	names := make([]string, 0)
	for {
		repos, resp, err := client.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list repositories for: %s", org)
		}
		for _, r := range repos {
			if r.GetArchived() {
				continue
			}
			names = append(names, r.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return names, nil
}

func rateInfo(r *github.Rate) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("rate:%d/%d until:%s", r.Remaining, r.Limit, r.Reset.Format("15:04"))
}
