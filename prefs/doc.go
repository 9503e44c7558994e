// SPDX-License-Identifier: MIT

// Package prefs defines the shared data contract of a two-sided matching
// market: agent identifiers, strict preference lists, rank tables, validated
// populations and the proposer→responder Matching.
//
// Ranking convention:
//
//   - A PreferenceList is ordered from most to least preferred.
//   - The rank of an entry is its index in the list: rank 0 is the best.
//   - Lower rank means MORE preferred, on both sides of the market.
//   - An id that does not appear in a list is unacceptable (Unranked).
//
// Two levels of strictness are offered:
//
//   - Validate(inst) builds a *Market and rejects malformed input with a typed
//     *InvalidPreferenceListError (duplicate agents, unknown ids, duplicate
//     entries). The matching engine only runs on a validated Market.
//   - NewLenientRankTable tolerates duplicates (first occurrence wins) and never
//     fails. The stability verifier uses it because diagnostics must not fail.
//
// Storage is arena-style: every Population keeps its agents in one slice
// indexed by a dense position (ids sorted ascending), and a Market caches the
// cross-side index form of every list so that the engine works purely on ints.
//
// Complexity:
//
//   - Validate: O(P·R) time and space for P proposers and R responders.
//   - RankTable lookups: O(1).
package prefs
