// Package optimizer evaluates a strategy over a grid of parameter vectors.
//
// Vectors are split in batches. All the strategies of a batch share a
// single replay of the historical depth source: every event is added to the
// batch market book and then every strategy advances one step. Batches are
// replayed concurrently by a pool of workers, each owning a private market
// book, broker simulator and source cursor. Admitted results are ranked by
// a RankStore bounded to MaxResults entries.
package optimizer
