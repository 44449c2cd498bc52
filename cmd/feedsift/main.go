package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ken00H/feedsift/internal/archive"
	"github.com/ken00H/feedsift/internal/config"
	"github.com/ken00H/feedsift/internal/filter"
	"github.com/ken00H/feedsift/internal/log"
	"github.com/ken00H/feedsift/internal/record"
	"github.com/ken00H/feedsift/internal/sink"
	"github.com/ken00H/feedsift/internal/source"
	"github.com/ken00H/feedsift/internal/store"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "Path to YAML config file")
	flag.Parse()
	if cfgPath == "" {
		panic("CONFIG_PATH env or --config must be set")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if err := log.InitWithConfig(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	started := time.Now()

	fl, err := filter.New(filter.Options{
		CaseSensitive:       cfg.Filter.CaseSensitive,
		TrimWhitespace:      cfg.Filter.TrimWhitespace,
		StripURLs:           cfg.Filter.StripURLs,
		StripMentions:       cfg.Filter.StripMentions,
		FoldArabic:          cfg.Filter.FoldArabic,
		SimilarityThreshold: cfg.Filter.SimilarityThreshold,
		WindowSize:          cfg.Filter.WindowSize,
	})
	if err != nil {
		log.L.Fatalw("filter", "err", err)
	}
	log.L.Infow("filter ready", "run_id", runID, "policy", fl.Policy())

	if cfg.Dedupe.ResumeFromSink {
		texts, err := sink.ResumeTexts(cfg.Output.Path, record.Format(cfg.Output.Format))
		if err != nil {
			log.L.Fatalw("resume from sink", "err", err, "path", cfg.Output.Path)
		}
		fl.Seed(texts...)
		log.L.Infow("resumed from sink", "records", len(texts))
	}

	var st *store.SQLite
	if cfg.Dedupe.Persist {
		st, err = store.Open(cfg.Dedupe.SQLitePath)
		if err != nil {
			log.L.Fatalw("dedupe store", "err", err, "path", cfg.Dedupe.SQLitePath)
		}
		defer st.Close()
		if removed, err := st.GC(ctx, cfg.Dedupe.RetentionDays); err != nil {
			log.L.Warnw("dedupe gc", "err", err)
		} else if removed > 0 {
			log.L.Infow("dedupe gc", "removed", removed)
		}
	}

	var up *archive.Uploader
	if cfg.S3.Enabled {
		up, err = archive.New(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.UseSSL)
		if err != nil {
			log.L.Fatalw("archive", "err", err)
		}
		if err := up.EnsureBucket(ctx); err != nil {
			log.L.Fatalw("ensure bucket", "err", err)
		}
	}

	snk, err := sink.Open(cfg.Output.Path, record.Format(cfg.Output.Format))
	if err != nil {
		log.L.Fatalw("sink", "err", err, "path", cfg.Output.Path)
	}

	src := source.NewReader(cfg.Input)
	if err := src.Start(ctx); err != nil {
		log.L.Fatalw("source", "err", err, "path", cfg.Input.Path)
	}

	var accepted, duplicate int64
	for rec := range src.Records() {
		key := fl.Key(rec.Text)
		if st != nil {
			seen, serr := st.Seen(ctx, key)
			if serr != nil {
				log.L.Warnw("store lookup", "err", serr)
			} else if seen {
				duplicate++
				_ = st.Mark(ctx, key, rec.Text)
				log.L.Debugw("skip_duplicate", "event", "skip_duplicate", "run_id", runID, "key", key)
				continue
			}
		}
		if fl.Evaluate(rec.Text) == filter.Duplicate {
			duplicate++
			log.L.Debugw("skip_duplicate", "event", "skip_duplicate", "run_id", runID, "key", key)
			continue
		}
		if err := snk.Append(rec); err != nil {
			log.L.Errorw("sink_append_failed", "event", "sink_append_failed", "run_id", runID, "err", err)
			continue
		}
		if st != nil {
			if merr := st.Mark(ctx, key, rec.Text); merr != nil {
				log.L.Warnw("store mark", "err", merr)
			}
		}
		accepted++
		log.L.Debugw("record_accepted", "event", "record_accepted", "run_id", runID, "key", key)
	}

	if err := snk.Close(); err != nil {
		log.L.Warnw("sink close", "err", err)
	}

	if up != nil {
		info := archive.RunInfo{
			RunID:     runID,
			Policy:    fl.Policy(),
			Accepted:  accepted,
			Duplicate: duplicate,
			Started:   started,
		}
		// shutdown may have cancelled ctx; give the upload its own deadline
		upCtx, upCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer upCancel()
		if key, err := up.UploadRun(upCtx, cfg.Output.Path, info); err != nil {
			log.L.Errorw("archive_failed", "event", "archive_failed", "run_id", runID, "err", err)
		} else {
			log.L.Infow("archive_success", "event", "archive_success", "run_id", runID, "key", key, "bucket", cfg.S3.Bucket)
		}
	}

	log.L.Infow("run_complete",
		"event", "run_complete",
		"run_id", runID,
		"policy", fl.Policy(),
		"accepted", accepted,
		"duplicate", duplicate,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
