package server

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/plugin"
	"github.com/jwcastillo/imposter/pkg/script"
)

// responder renders a resource's response behaviour onto the wire.
type responder struct {
	cfg    *config.PluginConfig
	deps   plugin.Deps
	logger *slog.Logger
}

func newResponder(cfg *config.PluginConfig, deps plugin.Deps, logger *slog.Logger) *responder {
	return &responder{cfg: cfg, deps: deps, logger: logger}
}

// respond serves the response behaviour of the selected resource. A nil
// response configuration answers 200 with an empty body.
func (rp *responder) respond(ex *exchange.Exchange, res *matching.ResolvedResource) {
	response := res.Config.Response
	if response == nil {
		ex.Writer.WriteHeader(http.StatusOK)
		return
	}

	applyDelay(response.Delay)

	if response.ScriptFile != "" {
		rp.respondFromScript(ex, res, response.ScriptFile)
		return
	}

	body, err := rp.responseBody(ex, response)
	if err != nil {
		rp.logger.Error("failed to load response file",
			"resource", res.Config.ID,
			"file", response.File,
			"error", err,
		)
		http.Error(ex.Writer, "mock engine error", http.StatusInternalServerError)
		return
	}

	for name, value := range response.Headers {
		ex.Writer.Header().Set(name, rp.deps.Resolver.Resolve(value, ex))
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	ex.Writer.WriteHeader(status)
	_, _ = ex.Writer.Write([]byte(body))
}

// responseBody produces the body text from inline content or a file, with
// optional templating.
func (rp *responder) responseBody(ex *exchange.Exchange, response *config.ResponseConfig) (string, error) {
	body := response.Content
	if body == "" && response.File != "" {
		data, err := os.ReadFile(filepath.Join(rp.cfg.Dir, response.File))
		if err != nil {
			return "", err
		}
		body = string(data)
	}
	if response.Template {
		body = rp.deps.Resolver.Resolve(body, ex)
	}
	return body, nil
}

// respondFromScript delegates the whole response behaviour to a
// response-generating script.
func (rp *responder) respondFromScript(ex *exchange.Exchange, res *matching.ResolvedResource, scriptFile string) {
	behaviour, err := rp.executeScript(ex, scriptFile)
	if err != nil {
		rp.logger.Error("response script failed",
			"resource", res.Config.ID,
			"script", scriptFile,
			"error", err,
		)
		http.Error(ex.Writer, "mock engine error", http.StatusInternalServerError)
		return
	}

	for name, value := range behaviour.Headers {
		ex.Writer.Header().Set(name, value)
	}
	ex.Writer.WriteHeader(behaviour.StatusCode)
	_, _ = ex.Writer.Write([]byte(behaviour.Content))
}

func (rp *responder) executeScript(ex *exchange.Exchange, scriptFile string) (*script.ResponseBehaviour, error) {
	loaded, err := plugin.LoadScript(rp.cfg, rp.deps.Scripts, scriptFile)
	if err != nil {
		return nil, err
	}
	engine, err := rp.deps.Scripts.EngineFor(*loaded)
	if err != nil {
		return nil, err
	}
	rt := script.NewRuntime(ex, rp.deps.Stores)
	return engine.Execute(ex.Request.Context(), *loaded, rt)
}

// applyDelay sleeps for the configured exact or ranged delay.
func applyDelay(delay *config.DelayConfig) {
	if delay == nil {
		return
	}
	ms := delay.Exact
	if ms == 0 && delay.Max > 0 {
		ms = delay.Min + rand.IntN(delay.Max-delay.Min+1)
	}
	if ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}
