// Package engine decides which users belong to a segment.
//
// Given a target percentage it computes the membership count from the current
// user population, samples that many users uniformly at random without
// replacement, and writes the memberships through a transaction-bound
// repository.Repo. Redistribution clears a segment and resamples it inside the
// same transaction, holding the segment's row lock, so readers see either the
// old membership set or the new one.
//
// The engine never begins or commits transactions itself; callers pass the Repo
// handed to them by repository.Store.WithinTx.
package engine
