package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/config"
	"github.com/abhisek/viva/internal/intent"
	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/session"
	"github.com/abhisek/viva/internal/store"
	"github.com/abhisek/viva/internal/tutor"
)

// deps holds everything a tutoring front end needs.
type deps struct {
	store   *store.Store
	service *tutor.Service
}

func (d *deps) Close() error {
	return d.store.Close()
}

// buildDeps opens the store and wires provider, classifier, generator and
// session service together.
func buildDeps(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*deps, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eventRepo := st.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo, log)
	if err != nil {
		st.Close()
		return nil, err
	}

	classifier := intent.NewLLMClassifier(provider, intent.DefaultClassifierConfig(), log)
	generator := tutor.NewLLMGenerator(provider, tutor.DefaultGeneratorConfig())
	controller := tutor.NewController(classifier, generator, tutor.WithLogger(log))
	svc := tutor.NewService(session.NewStore(), controller, eventRepo, log, tutor.WithDefaultLang(cfg.DefaultLang))

	log.WithFields(logrus.Fields{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model(),
		"db":       cfg.DBPath,
	}).Debug("dependencies ready")

	return &deps{store: st, service: svc}, nil
}
