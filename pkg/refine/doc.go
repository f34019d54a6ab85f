// Package refine pins the boundary between contraction and local
// refinement without implementing a refiner. A refiner consumes the
// distributed graph and a block assignment exactly as produced by
// pkg/graph and pkg/initialpart; it needs no additional contract beyond
// those two packages already export, so there is nothing further to
// pin here beyond this note.
package refine
