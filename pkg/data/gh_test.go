package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-github/v83/github"
	"github.com/stretchr/testify/assert"
)

func TestRateInfo(t *testing.T) {
	assert.Empty(t, rateInfo(nil))

	r := &github.Rate{
		Limit:     5000,
		Remaining: 4999,
		Reset:     github.Timestamp{Time: time.Date(2026, 8, 1, 15, 4, 0, 0, time.UTC)},
	}
	s := rateInfo(r)
	assert.Contains(t, s, "4999/5000")
	assert.Contains(t, s, "15:04")
}

func TestImportGitHub_Invalid(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := ImportGitHub(ctx, nil, "tok", GitHubImportOptions{Corpus: "c", Org: "o"})
	assert.Error(t, err)

	_, err = ImportGitHub(ctx, db, "", GitHubImportOptions{Corpus: "c", Org: "o"})
	assert.Error(t, err)

	_, err = ImportGitHub(ctx, db, "tok", GitHubImportOptions{Org: "o"})
	assert.Error(t, err)

	_, err = ImportGitHub(ctx, db, "tok", GitHubImportOptions{Corpus: "c"})
	assert.Error(t, err)
}

func TestGetOrgRepoNames_Invalid(t *testing.T) {
	_, err := GetOrgRepoNames(context.Background(), nil, "org")
	assert.Error(t, err)

	_, err = GetOrgRepoNames(context.Background(), github.NewClient(nil), "")
	assert.Error(t, err)
}
