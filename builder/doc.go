// Package builder constructs deterministic matching instances for tests,
// benchmarks, examples and the CLI.
//
// Every constructor is a Constructor closure; Build resolves the functional
// options into a builderConfig and runs it:
//
//	inst, err := builder.Build(builder.RandomComplete(100), builder.WithSeed(42))
//
// Constructors:
//
//   - RandomComplete(n): every agent ranks the whole opposite side in a
//     uniformly shuffled order. Needs an RNG (WithSeed / WithRand).
//   - Identical(n): every agent ranks the opposite side in ascending id order.
//     All proposers compete for the same responders, which maximizes rounds.
//   - Latin(n): cyclic lists; proposer i starts at responder i, responder j
//     starts at proposer j+1. Proposer- and responder-optimal matchings differ.
//   - FromLists(p, r): literal lists with dense ids.
//
// Determinism: same constructor, same options and same seed ⇒ identical
// instances. Option constructors panic on meaningless inputs; constructors
// themselves only return sentinel errors.
package builder
