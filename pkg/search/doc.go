// Package search implements the workspace search engine: the property filter
// engine over the EAV side-store, the ID-set intersection planner, one search
// operation per entity kind, fuzzy name resolution with confidence tiers, and
// the concurrent unified orchestrator.
package search
