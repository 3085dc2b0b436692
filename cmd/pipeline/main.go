package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/csvfile"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/playstore"
	sentimentad "github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/sentiment"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/app"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/shared"
	mysqlrepo "github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "pipeline")

	log.Info().
		Str("source", cfg.Source).
		Int("banks", len(shared.Banks)).
		Int("fetch_count", cfg.FetchCount).
		Msg("pipeline starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	var source domain.ReviewSource
	switch cfg.Source {
	case "csv":
		source = csvfile.New(cfg.RawDir)
	default:
		source = playstore.New(cfg.PlayBase, cfg.PlayLang, cfg.PlayCountry, 5)
	}

	scorer := sentimentad.New(cfg.SentimentURL, cfg.SentimentKey, 10)

	taxonomy := app.DefaultTaxonomy()
	if cfg.TaxonomyPath != "" {
		taxonomy, err = app.LoadTaxonomy(cfg.TaxonomyPath)
		if err != nil {
			log.Fatal().Err(err).Msg("taxonomy load failed")
		}
		log.Info().Int("themes", len(taxonomy)).Str("path", cfg.TaxonomyPath).Msg("loaded taxonomy override")
	}

	svc := app.NewPipelineService(source, scorer, repo, app.PipelineOptions{
		Banks:       shared.Banks,
		FetchCount:  cfg.FetchCount,
		Workers:     cfg.Workers,
		TopKeywords: cfg.TopKeywords,
		MinDocFreq:  cfg.MinDocFreq,
		Taxonomy:    taxonomy,
		Threshold:   cfg.ThemeThreshold,
	})

	stats, err := svc.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	for bank, bs := range stats.Banks {
		log.Info().
			Str("bank", bank).
			Int("total", bs.Total).
			Float64("positive_pct", bs.PositivePct).
			Float64("negative_pct", bs.NegativePct).
			Int("unscored", bs.Unscored).
			Msg("bank summary")
	}
	log.Info().
		Int("total", stats.Global.Total).
		Float64("mean_confidence", stats.Global.MeanSentimentConfidence).
		Msg("pipeline completed")
}
