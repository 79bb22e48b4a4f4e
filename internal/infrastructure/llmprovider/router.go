package llmprovider

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/llm"
)

// Observer is notified after every provider call.
type Observer interface {
	ProviderRequest(provider, outcome string, duration time.Duration)
}

// Router dispatches requests to the generator registered for req.Provider.
type Router struct {
	providers map[string]llm.StreamGenerator
	observer  Observer
	log       zerolog.Logger
}

var _ llm.StreamGenerator = (*Router)(nil)

// Config selects endpoints and default credentials.
type Config struct {
	Timeout         time.Duration
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	OllamaBaseURL   string
}

// NewRouter registers every supported provider.
func NewRouter(cfg Config, observer Observer, log zerolog.Logger) *Router {
	r := &Router{
		providers: make(map[string]llm.StreamGenerator, len(llm.Providers)),
		observer:  observer,
		log:       log.With().Str("component", "llm-router").Logger(),
	}
	r.Register(llm.ProviderOpenAI, NewOpenAI(OpenAIConfig{Name: llm.ProviderOpenAI, APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL, Timeout: cfg.Timeout}))
	r.Register(llm.ProviderDeepSeek, NewOpenAI(OpenAIConfig{Name: llm.ProviderDeepSeek, APIKey: cfg.DeepSeekAPIKey, BaseURL: cfg.DeepSeekBaseURL, Timeout: cfg.Timeout}))
	r.Register(llm.ProviderOllama, NewOllama(cfg.OllamaBaseURL, cfg.Timeout))
	r.Register(llm.ProviderMock, Mock{})
	return r
}

// Register adds or replaces the generator of a provider.
func (r *Router) Register(provider string, g llm.StreamGenerator) {
	r.providers[provider] = g
}

func (r *Router) lookup(provider string) (llm.StreamGenerator, error) {
	g, ok := r.providers[provider]
	if !ok {
		return nil, &llm.ProviderError{Kind: llm.ErrorKindInvalidRequest, Provider: provider, Message: "unsupported provider " + provider}
	}
	return g, nil
}

func (r *Router) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	g, err := r.lookup(req.Provider)
	if err != nil {
		return llm.Response{}, err
	}
	started := time.Now()
	resp, err := g.Generate(ctx, req)
	r.observe(req, err, started)
	return resp, err
}

func (r *Router) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) (llm.Response, error) {
	g, err := r.lookup(req.Provider)
	if err != nil {
		return llm.Response{}, err
	}
	started := time.Now()
	resp, err := g.Stream(ctx, req, onDelta)
	r.observe(req, err, started)
	return resp, err
}

func (r *Router) observe(req llm.Request, err error, started time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if perr, ok := llm.AsProviderError(err); ok {
			outcome = string(perr.Kind)
		} else if errors.Is(err, context.Canceled) {
			outcome = "cancelled"
		}
		r.log.Debug().Err(err).Str("provider", req.Provider).Str("model", req.Model).Msg("provider call failed")
	}
	if r.observer != nil {
		r.observer.ProviderRequest(req.Provider, outcome, time.Since(started))
	}
}
