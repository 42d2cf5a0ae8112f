package cli

import (
	"fmt"

	"github.com/mchmarny/termpulse/pkg/data"
	"github.com/urfave/cli/v2"
)

const queryResultLimitDefault = 25

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	querySetFlag = &cli.StringFlag{
		Name:  "set",
		Usage: "Narrow results to a single set (e.g. one repo or document)",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "terms",
				Usage:   "List top terms by weighted log-odds (requires compute --save)",
				Aliases: []string{"t"},
				Action:  cmdQueryTerms,
				Flags: []cli.Flag{
					corpusFlag,
					querySetFlag,
					queryLimitFlag,
				},
			},
			{
				Name:    "sets",
				Usage:   "List the sets of a corpus with term totals",
				Aliases: []string{"s"},
				Action:  cmdQuerySets,
				Flags: []cli.Flag{
					corpusFlag,
				},
			},
			{
				Name:   "corpora",
				Usage:  "List all stored corpora",
				Action: cmdQueryCorpora,
			},
		},
	}
)

func optional(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}

func cmdQueryTerms(c *cli.Context) error {
	cfg := getConfig(c)
	corpus := corpusOrDefault(c, cfg)

	list, err := data.GetTopTerms(cfg.DB, corpus, optional(c.String(querySetFlag.Name)), c.Int(queryLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to query terms: %w", err)
	}

	return encode(list)
}

func cmdQuerySets(c *cli.Context) error {
	cfg := getConfig(c)
	corpus := corpusOrDefault(c, cfg)

	list, err := data.GetSets(cfg.DB, corpus)
	if err != nil {
		return fmt.Errorf("failed to query sets: %w", err)
	}

	return encode(list)
}

func cmdQueryCorpora(c *cli.Context) error {
	cfg := getConfig(c)

	list, err := data.GetCorpora(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to query corpora: %w", err)
	}

	return encode(list)
}
