package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fastinfo/newsboy/app/articles"
)

// Property describes a single tool parameter for function-calling schemas.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema is a JSON-schema object definition for a tool's parameters.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Definition describes one callable tool to an agent.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

type executor func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Registry exposes the article query service as named tools with JSON
// arguments, the shape expected by function-calling agents.
type Registry struct {
	svc         *articles.Service
	definitions []Definition
	executors   map[string]executor
}

func NewRegistry(svc *articles.Service) *Registry {
	r := &Registry{
		svc:       svc,
		executors: make(map[string]executor),
	}

	limitProp := Property{Type: "integer", Description: "Number of results to return, default 10"}

	r.register(Definition{
		Name:        "search_articles",
		Description: "Search articles by keyword across title and summaries",
		Parameters: Schema{
			Type: "object",
			Properties: map[string]Property{
				"query": {Type: "string", Description: "Search keyword"},
				"limit": limitProp,
			},
			Required: []string{"query"},
		},
	}, r.searchArticles)

	r.register(Definition{
		Name:        "filter_by_category",
		Description: "Filter articles by category",
		Parameters: Schema{
			Type: "object",
			Properties: map[string]Property{
				"category": {Type: "string", Enum: articles.Categories, Description: "Article category"},
				"limit":    limitProp,
			},
			Required: []string{"category"},
		},
	}, r.filterByCategory)

	r.register(Definition{
		Name:        "filter_by_date",
		Description: "Filter articles by time range",
		Parameters: Schema{
			Type: "object",
			Properties: map[string]Property{
				"range": {Type: "string", Enum: articles.DateRanges, Description: "Time range"},
				"limit": limitProp,
			},
			Required: []string{"range"},
		},
	}, r.filterByDate)

	r.register(Definition{
		Name:        "filter_by_source",
		Description: "Filter articles by source (e.g. hackernews, github, devto)",
		Parameters: Schema{
			Type: "object",
			Properties: map[string]Property{
				"source": {Type: "string", Description: "Article source"},
				"limit":  limitProp,
			},
			Required: []string{"source"},
		},
	}, r.filterBySource)

	r.register(Definition{
		Name:        "get_trending",
		Description: "Get trending articles ordered by hotness",
		Parameters: Schema{
			Type: "object",
			Properties: map[string]Property{
				"limit": limitProp,
			},
		},
	}, r.getTrending)

	r.register(Definition{
		Name:        "get_daily_digest",
		Description: "Get today's article digest grouped by category",
		Parameters:  Schema{Type: "object", Properties: map[string]Property{}},
	}, r.getDailyDigest)

	r.register(Definition{
		Name:        "get_stats",
		Description: "Get collection statistics: totals, category and source distribution",
		Parameters:  Schema{Type: "object", Properties: map[string]Property{}},
	}, r.getStats)

	return r
}

func (r *Registry) register(def Definition, exec executor) {
	r.definitions = append(r.definitions, def)
	r.executors[def.Name] = exec
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	return r.definitions
}

// Call dispatches a tool invocation by name. A nil or empty args payload is
// treated as an empty object.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	exec, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	slog.Debug("Executing tool", "tool", name)

	return exec(ctx, args)
}

// limitArgs decodes the optional limit argument. A pointer keeps an
// explicitly supplied zero distinguishable from an absent field, so it
// fails validation instead of silently becoming the default.
type limitArgs struct {
	Limit *int `json:"limit"`
}

func decodeArgs(args json.RawMessage, into interface{}) error {
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

func (r *Registry) searchArticles(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Query string `json:"query"`
		limitArgs
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.svc.Search(ctx, a.Query, a.Limit)
}

func (r *Registry) filterByCategory(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Category string `json:"category"`
		limitArgs
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.svc.FilterByCategory(ctx, a.Category, a.Limit)
}

func (r *Registry) filterByDate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Range string `json:"range"`
		limitArgs
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.svc.FilterByDate(ctx, a.Range, a.Limit)
}

func (r *Registry) filterBySource(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Source string `json:"source"`
		limitArgs
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.svc.FilterBySource(ctx, a.Source, a.Limit)
}

func (r *Registry) getTrending(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a limitArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.svc.Trending(ctx, a.Limit)
}

func (r *Registry) getDailyDigest(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return r.svc.DailyDigest(ctx)
}

func (r *Registry) getStats(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return r.svc.Stats(ctx)
}
