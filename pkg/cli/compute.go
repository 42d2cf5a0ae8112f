package cli

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/termpulse/pkg/data"
	"github.com/mchmarny/termpulse/pkg/logodds"
	"github.com/urfave/cli/v2"
)

var (
	uninformativeFlag = &cli.BoolFlag{
		Name:  "uninformative",
		Usage: "Use the flat alpha = 1 prior instead of empirical Bayes",
	}

	unweightedFlag = &cli.BoolFlag{
		Name:  "unweighted",
		Usage: "Include the unstandardized log_odds column",
	}

	saveFlag = &cli.BoolFlag{
		Name:  "save",
		Usage: "Persist the scores for later query and server use",
	}

	computeCmd = &cli.Command{
		Name:    "compute",
		Aliases: []string{"c"},
		Usage:   "Compute weighted log-odds for a corpus",
		UsageText: `termpulse compute --corpus books --save
   termpulse compute --corpus books --uninformative --unweighted`,
		Action: cmdCompute,
		Flags: []cli.Flag{
			corpusFlag,
			uninformativeFlag,
			unweightedFlag,
			saveFlag,
		},
	}
)

func cmdCompute(c *cli.Context) error {
	cfg := getConfig(c)
	corpus := corpusOrDefault(c, cfg)

	opts := logodds.Options{
		Uninformative: c.Bool(uninformativeFlag.Name) || cfg.Conf.Uninformative,
		Unweighted:    c.Bool(unweightedFlag.Name),
	}

	res, err := data.ComputeScores(cfg.DB, corpus, opts, c.Bool(saveFlag.Name))
	if err != nil {
		return fmt.Errorf("computing scores: %w", err)
	}

	slog.Info("scored corpus", "corpus", corpus, "rows", res.Rows, "saved", res.Saved)
	return encode(res)
}
