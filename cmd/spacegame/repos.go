package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"spacegame/internal/config"
	"spacegame/internal/model"
	"spacegame/internal/repository"
	"spacegame/internal/repository/local"
	"spacegame/internal/repository/stored"
	"spacegame/internal/source"
	"spacegame/internal/store"
	boltstore "spacegame/internal/store/bolt"
)

const (
	scoresBucket   = "scores"
	profilesBucket = "profiles"
)

type repos struct {
	scores   repository.Repository[model.Score]
	profiles repository.Repository[model.Profile]
	close    func() error
}

func sourceOptions(cfg *config.Config, stdin io.Reader) source.Options {
	return source.Options{
		S3: source.S3Options{
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
		},
		MinIO: source.MinIOOptions{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Secure:    cfg.MinIO.Secure,
		},
		Stdin: stdin,
	}
}

// openRepos opens both repositories on the configured backend.
func openRepos(ctx context.Context, cfg *config.Config, stdin io.Reader) (*repos, error) {
	switch cfg.Data.Backend {
	case config.BackendBolt:
		st, err := boltstore.Open(cfg.Data.BoltPath, boltstore.Options{ReadOnly: true, Timeout: 5 * time.Second})
		if err != nil {
			return nil, err
		}
		return &repos{
			scores:   stored.New[model.Score](st, scoresBucket),
			profiles: stored.New[model.Profile](st, profilesBucket),
			close:    st.Close,
		}, nil
	default:
		scores, profiles, err := loadDocuments(ctx, cfg, stdin)
		if err != nil {
			return nil, err
		}
		return &repos{scores: scores, profiles: profiles, close: func() error { return nil }}, nil
	}
}

// loadDocuments loads the score and profile documents concurrently.
func loadDocuments(ctx context.Context, cfg *config.Config, stdin io.Reader) (*local.Repository[model.Score], *local.Repository[model.Profile], error) {
	if cfg.Data.Scores == "-" && cfg.Data.Profiles == "-" {
		return nil, nil, errors.New("scores and profiles cannot both be read from stdin")
	}
	opts := sourceOptions(cfg, stdin)
	var (
		scores   *local.Repository[model.Score]
		profiles *local.Repository[model.Profile]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scores, err = loadDocument[model.Score](gctx, cfg.Data.Scores, opts)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = loadDocument[model.Profile](gctx, cfg.Data.Profiles, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return scores, profiles, nil
}

func loadDocument[T repository.Model](ctx context.Context, uri string, opts source.Options) (*local.Repository[T], error) {
	rc, err := source.Open(ctx, uri, opts)
	if err != nil {
		return nil, repository.Unreadable(uri, err)
	}
	defer rc.Close()
	return local.LoadNamed[T](uri, rc)
}

// importDocuments copies the configured documents into the bolt file in a
// single transaction covering both buckets.
func importDocuments(ctx context.Context, cfg *config.Config, stdin io.Reader, replace bool) (int, int, error) {
	scores, profiles, err := loadDocuments(ctx, cfg, stdin)
	if err != nil {
		return 0, 0, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Data.BoltPath), 0700); err != nil {
		return 0, 0, fmt.Errorf("creating data dir: %w", err)
	}
	st, err := boltstore.Open(cfg.Data.BoltPath, boltstore.Options{Timeout: 5 * time.Second})
	if err != nil {
		return 0, 0, err
	}
	defer st.Close()

	allScores, err := scores.GetItems(ctx, nil, nil, 0, scores.Len())
	if err != nil {
		return 0, 0, err
	}
	allProfiles, err := profiles.GetItems(ctx, nil, nil, 0, profiles.Len())
	if err != nil {
		return 0, 0, err
	}

	scoreEntries, err := stored.Encode(ctx, allScores)
	if err != nil {
		return 0, 0, err
	}
	profileEntries, err := stored.Encode(ctx, allProfiles)
	if err != nil {
		return 0, 0, err
	}
	batch := store.Batch{scoresBucket: scoreEntries, profilesBucket: profileEntries}
	if err := stored.Write(st, batch, replace); err != nil {
		return 0, 0, err
	}
	return len(scoreEntries), len(profileEntries), nil
}
