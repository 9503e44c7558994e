// Package stablematch computes and verifies stable matchings between two
// populations of agents with strict preference lists.
//
// What is inside:
//
//	• prefs/      : agent ids, preference lists, rank tables, validation, Matching
//	• gale/       : round-based Gale–Shapley deferred acceptance, optionally sharded
//	• stability/  : blocking-pair verifier, diagnostics, stable-matching enumeration
//	• relational/ : the same fixpoint as reduce/antijoin over candidate edges
//	• builder/    : deterministic instance constructors (random, identical, latin)
//	• config/     : YAML run configuration and logger setup for the CLI
//	• cmd/        : the stablematch command-line tool
//
// Quick example:
//
//	inst := prefs.Instance{
//	    Proposers:  []prefs.Agent{{ID: 0, Prefs: prefs.PreferenceList{0, 1}}, {ID: 1, Prefs: prefs.PreferenceList{0, 1}}},
//	    Responders: []prefs.Agent{{ID: 0, Prefs: prefs.PreferenceList{1, 0}}, {ID: 1, Prefs: prefs.PreferenceList{0, 1}}},
//	}
//	m, err := gale.Match(inst)              // {0→1, 1→0}
//	blocking := stability.FindBlockingPairs(inst, m) // empty
//
// Preference lists run from most to least preferred on both sides; ids that
// are not listed are unacceptable partners.
//
//	go get github.com/katalvlaran/stablematch
package stablematch
