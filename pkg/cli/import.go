package cli

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/termpulse/pkg/data"
	"github.com/urfave/cli/v2"
)

var (
	csvFileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "Path to a CSV file with set,term,count rows",
		Required: true,
	}

	orgNameFlag = &cli.StringFlag{
		Name:     "org",
		Usage:    "Name of the GitHub organization or user",
		Required: true,
	}

	repoNameFlag = &cli.StringSliceFlag{
		Name:  "repo",
		Usage: "Name of the GitHub repository (can be specified multiple times, default: all org repos)",
	}

	monthsFlag = &cli.IntFlag{
		Name:  "months",
		Usage: fmt.Sprintf("Number of months to import (default: %d)", data.ImportMonthsDefault),
		Value: data.ImportMonthsDefault,
	}

	freshFlag = &cli.BoolFlag{
		Name:  "fresh",
		Usage: "Clear import state and re-import the full window",
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import term counts into a corpus",
		Subcommands: []*cli.Command{
			{
				Name:  "csv",
				Usage: "Load set,term,count rows from a CSV file",
				UsageText: `termpulse import csv --file counts.csv --corpus books
   termpulse import csv --file counts.csv              # uses the configured corpus`,
				Action: cmdImportCSV,
				Flags: []cli.Flag{
					csvFileFlag,
					corpusFlag,
				},
			},
			{
				Name:  "github",
				Usage: "Tokenize GitHub issue/PR text, one set per repo",
				UsageText: `termpulse import github --org NVIDIA --repo NVSentinel --repo skyhook
   termpulse import github --org NVIDIA                # all org repos
   termpulse import github --org NVIDIA --fresh        # re-import from scratch`,
				Action: cmdImportGitHub,
				Flags: []cli.Flag{
					orgNameFlag,
					repoNameFlag,
					monthsFlag,
					freshFlag,
					corpusFlag,
				},
			},
		},
	}
)

func cmdImportCSV(c *cli.Context) error {
	cfg := getConfig(c)
	corpus := corpusOrDefault(c, cfg)

	res, err := data.ImportCSV(cfg.DB, corpus, c.String(csvFileFlag.Name))
	if err != nil {
		return fmt.Errorf("importing CSV: %w", err)
	}

	slog.Info("imported counts", "corpus", corpus, "rows", res.Rows)
	return encode(res)
}

func cmdImportGitHub(c *cli.Context) error {
	cfg := getConfig(c)
	corpus := corpusOrDefault(c, cfg)

	token, err := getGitHubToken()
	if err != nil {
		return err
	}

	months := c.Int(monthsFlag.Name)
	if !c.IsSet(monthsFlag.Name) && cfg.Conf.ImportMonths > 0 {
		months = cfg.Conf.ImportMonths
	}

	res, err := data.ImportGitHub(c.Context, cfg.DB, token, data.GitHubImportOptions{
		Corpus:        corpus,
		Org:           c.String(orgNameFlag.Name),
		Repos:         c.StringSlice(repoNameFlag.Name),
		Months:        months,
		MinTermLength: cfg.Conf.MinTermLength,
		Fresh:         c.Bool(freshFlag.Name),
	})
	if err != nil {
		return fmt.Errorf("importing from GitHub: %w", err)
	}

	return encode(res)
}
