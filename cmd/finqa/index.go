package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finqa/internal/service"
	"finqa/internal/summarizer"
)

func indexCMD(cfgPath *string) *cobra.Command {
	var company string
	var index = &cobra.Command{
		Use:   "index",
		Short: "Parse, chunk, embed and index the filings in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.log.Sync()
			if company != "" {
				a.cfg.Company = company
			}

			emb, err := a.embedder()
			if err != nil {
				return err
			}
			idx, err := a.vectorIndex()
			if err != nil {
				return err
			}
			ix := service.NewIndexer(a.store, a.sectionChunker(), emb, idx, summarizer.NewFrequencySummarizer(),
				service.IndexOptions{Company: a.cfg.Company, SummaryMaxSentences: a.cfg.Summarizer.MaxSentences},
				a.log.Named("indexer"))
			m, err := ix.Run(cmd.Context())
			if errors.Is(err, service.ErrNoDocuments) {
				a.log.Warn("nothing to index; add COMPANY_YEAR filings to the data directory", zap.String("data_dir", a.cfg.DataDir))
				return nil
			}
			if err != nil {
				return err
			}
			a.log.Info("done", zap.Int("chunks", m.Chunks), zap.String("index_dir", a.cfg.IndexDir))
			return nil
		},
	}
	index.Flags().StringVar(&company, "company", "", "only index filings with this company prefix")
	return index
}
