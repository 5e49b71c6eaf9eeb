package ctl

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/server/embedding"
	"github.com/dmitrijs2005/libris/internal/server/services"
	"github.com/spf13/cobra"
)

type embeddingGenerator interface {
	GenerateMissing(ctx context.Context, embedder embedding.Embedder) (int, error)
}

type embeddingImporter interface {
	Import(ctx context.Context, src services.RecordSource, key string) (services.ImportResult, error)
}

// newRecordSource is a seam for the S3 client.
var newRecordSource = func(ctx context.Context, c embedding.S3Config) (services.RecordSource, error) {
	return embedding.NewS3Source(ctx, c)
}

func (a *App) embedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute vectors for books that have none",
		Long: "Sends \"title author\" of every book without a vector to the configured\n" +
			"OpenAI-compatible embeddings endpoint and stores the result.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			embedder := embedding.NewHTTPEmbedder(embedding.HTTPConfig{
				Endpoint:          a.cfg.Embedding.Endpoint,
				Model:             a.cfg.Embedding.Model,
				APIKey:            a.cfg.Embedding.APIKey,
				RequestsPerSecond: a.cfg.Embedding.RequestsPerSecond,
			})
			return a.generate(ctx, a.embeddingService(), embedder)
		},
	}
	cmd.AddCommand(a.embedImportCommand())
	return cmd
}

func (a *App) embedImportCommand() *cobra.Command {
	var bucket string
	cmd := &cobra.Command{
		Use:   "import <object-key>",
		Short: "Import precomputed vectors from S3",
		Long: "Reads a JSON-lines object of {\"isbn\": ..., \"embedding\": [...]} records\n" +
			"and stores each vector on the book with that ISBN.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			s3cfg := embedding.S3Config{
				Endpoint:     a.cfg.S3.Endpoint,
				Region:       a.cfg.S3.Region,
				AccessKey:    a.cfg.S3.AccessKey,
				SecretKey:    a.cfg.S3.SecretKey,
				Bucket:       a.cfg.S3.Bucket,
				UsePathStyle: a.cfg.S3.UsePathStyle,
			}
			if bucket != "" {
				s3cfg.Bucket = bucket
			}
			src, err := newRecordSource(ctx, s3cfg)
			if err != nil {
				return err
			}
			return a.importVectors(ctx, a.embeddingService(), src, args[0])
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket name (overrides config)")
	return cmd
}

func (a *App) embeddingService() *services.EmbeddingService {
	return services.NewEmbeddingService(a.db, a.rm, a.cfg, a.logger)
}

func (a *App) generate(ctx context.Context, gen embeddingGenerator, embedder embedding.Embedder) error {
	n, err := gen.GenerateMissing(ctx, embedder)
	fmt.Fprintf(a.out, "embedded %d books\n", n)
	return err
}

func (a *App) importVectors(ctx context.Context, imp embeddingImporter, src services.RecordSource, key string) error {
	res, err := imp.Import(ctx, src, key)
	fmt.Fprintf(a.out, "updated %d books, skipped %d records\n", res.Updated, res.Skipped)
	return err
}
