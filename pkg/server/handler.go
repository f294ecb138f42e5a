package server

import (
	"net/http"

	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/internal/router"
	"github.com/jwcastillo/imposter/pkg/exchange"
)

// Handler returns the dispatch handler over the current snapshot.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.dispatch)
}

// dispatch runs one request through every loaded plugin in configuration
// order and serves the first plugin's winning resource. No winner anywhere
// is a 404; a script failure is a 500, surfaced rather than skipped.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Load()
	ex := exchange.New(w, r)

	for _, u := range snap.units {
		routed := ex
		if route := resolveRoute(u.plugin.Resources(), ex.Path()); route != nil {
			routed = ex.WithRoute(route)
		}

		winner, err := u.matcher.MatchOne(u.plugin.Resources(), routed)
		if err != nil {
			s.logger.Error("matching failed",
				"plugin", u.plugin.Name(),
				"method", r.Method,
				"path", ex.Path(),
				"error", err,
			)
			http.Error(w, "mock engine error", http.StatusInternalServerError)
			return
		}
		if winner == nil {
			continue
		}

		s.logger.Debug("matched resource",
			"plugin", u.plugin.Name(),
			"resource", winner.Resource.Config.ID,
			"score", winner.Score,
			"exact", winner.Exact,
		)
		u.responder.respond(routed, winner.Resource)
		return
	}

	s.logger.Debug("no resource matched", "method", r.Method, "path", ex.Path())
	http.NotFound(w, r)
}

// resolveRoute finds the template route the request path falls on, if any:
// the first configured template resource that matches, in declaration
// order. Literal and wildcard resources never produce route info.
func resolveRoute(resources []*matching.ResolvedResource, path string) *exchange.Route {
	for _, res := range resources {
		if !router.IsTemplate(res.Path) {
			continue
		}
		if router.MatchTemplate(res.Path, path) {
			return &exchange.Route{
				Template: res.Path,
				Params:   router.ExtractParams(res.Path, path),
			}
		}
	}
	return nil
}
