package service

import (
	"regexp"
	"strings"

	"insightx/internal/models"
	"insightx/internal/nlp"

	"go.uber.org/zap"
)

// Route names, also reported as Response.Intent.
const (
	RouteOverview = "OVERVIEW"
	RouteFraud    = "FRAUD"
	RouteFailure  = "FAILURE"
	RouteTrend    = "TREND"
	RouteRank     = "RANK"
	RouteCompare  = "COMPARE"
	RouteAmount   = "AMOUNT"
	RouteDeepDive = "DEEP_DIVE"
)

// request is everything a handler may read while answering one question.
type request struct {
	kb       *models.KnowledgeBase
	intents  []nlp.Intent
	entities nlp.Entities
	text     string
}

func (r *request) has(intent nlp.Intent) bool {
	return nlp.HasIntent(r.intents, intent)
}

func (r *request) cue(re *regexp.Regexp) bool {
	return re.MatchString(r.text)
}

// found is a named value that exists in the knowledge base.
type found struct {
	nlp.Mention
	Agg models.Aggregate
}

// lookups resolves the named values against the knowledge base, dropping unknown ones.
func (r *request) lookups() []found {
	var out []found
	for _, m := range r.entities.Mentions() {
		if agg, ok := r.kb.Lookup(m.Dimension, m.Value); ok {
			out = append(out, found{Mention: m, Agg: agg})
		}
	}
	return out
}

type route struct {
	name   string
	when   func(r *request) bool
	handle func(r *request) models.Response
}

// ResponseGenerator answers classified questions from a knowledge base.
// Routes are evaluated in order and the first match handles the question.
type ResponseGenerator struct {
	routes []route
	logger *zap.Logger
}

func NewResponseGenerator(logger *zap.Logger) *ResponseGenerator {
	g := &ResponseGenerator{logger: logger}
	intent := func(intents ...nlp.Intent) func(r *request) bool {
		return func(r *request) bool {
			for _, i := range intents {
				if r.has(i) {
					return true
				}
			}
			return false
		}
	}

	g.routes = []route{
		{RouteOverview, func(r *request) bool { return r.has(nlp.IntentOverview) && r.entities.Empty() }, g.overview},
		{RouteFraud, intent(nlp.IntentFraud), g.fraud},
		{RouteFailure, intent(nlp.IntentFailure), g.failure},
		{RouteTrend, intent(nlp.IntentTrend), g.trend},
		{RouteRank, intent(nlp.IntentRank), g.rank},
		{RouteCompare, intent(nlp.IntentCompare), g.compare},
		{RouteAmount, intent(nlp.IntentAmount, nlp.IntentVolume, nlp.IntentCount), g.amount},
		{RouteDeepDive, func(r *request) bool { return !r.entities.Empty() }, g.deepDive},
		{RouteOverview, func(*request) bool { return true }, g.overview},
	}
	return g
}

// Route reports which handler would answer the given classification.
func (g *ResponseGenerator) Route(intents []nlp.Intent, entities nlp.Entities) string {
	r := &request{intents: intents, entities: entities}
	return g.match(r).name
}

func (g *ResponseGenerator) match(r *request) route {
	for _, rt := range g.routes {
		if rt.when(r) {
			return rt
		}
	}
	return g.routes[len(g.routes)-1]
}

// Generate answers text using kb. The caller passes one knowledge base for the
// whole request so a concurrent rebuild cannot mix generations.
func (g *ResponseGenerator) Generate(kb *models.KnowledgeBase, intents []nlp.Intent, entities nlp.Entities, text string) models.Response {
	r := &request{
		kb:       kb,
		intents:  intents,
		entities: entities,
		text:     strings.TrimSpace(text),
	}
	rt := g.match(r)
	g.logger.Debug("Dispatching question",
		zap.String("route", rt.name),
		zap.Strings("intents", nlp.Names(intents)),
	)

	resp := rt.handle(r)
	if resp.EntitiesUsed == nil {
		resp.EntitiesUsed = entities.Used()
	}
	if resp.Stats == nil {
		resp.Stats = models.Stats{}
	}
	return resp
}

func stat(key, value string) models.Stat {
	return models.Stat{Key: key, Value: value}
}
