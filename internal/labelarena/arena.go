// Package labelarena implements the contiguous, id-indexed union-find
// storage for provisional voxel labels described by the labeler's data
// model: back-pointers are stored as ids into a flat slice rather than
// as pointers, keeping the structure cache-friendly and pointer-cycle
// free (see the "union-find via id fields" design note).
package labelarena

import (
	"fmt"

	"github.com/voxellab/shapekit/internal/kinds"
)

// maxLabels bounds the arena's id space to what a dense uint32 relabel
// can address after finalization.
const maxLabels = 1<<32 - 1

// Label is one entry in the arena, indexed by id (1..H). Before
// finalization, TargetID is the union-find parent pointer (self when
// canonical). After ResolveEquivalences runs, Finalized is true and
// TargetID holds the frame-dense output id, or 0 if the label was
// discarded by the size/edge filters.
type Label struct {
	ImageValue float64
	TargetID   int
	Finalized  bool
	Size       int
	OnEdgeX    bool
	OnEdgeY    bool
	OnEdgeZ    bool
}

// Arena owns a contiguous, growable slice of Label records. It is
// allocated once per frame and discarded once Components are emitted.
type Arena struct {
	labels []Label
}

// New returns an empty arena pre-sized to capacityHint records (a
// caller typically passes width*height*depth/2, the upper bound spec.md
// §4.1 recommends; growth beyond the hint is permitted).
func New(capacityHint int) *Arena {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Arena{labels: make([]Label, 0, capacityHint)}
}

// Len returns the number of allocated labels (H in spec.md's notation).
func (a *Arena) Len() int { return len(a.labels) }

// Alloc creates a fresh, self-referencing label for imageValue and
// returns its id (1-indexed).
func (a *Arena) Alloc(imageValue float64) (int, error) {
	if len(a.labels) >= maxLabels {
		return 0, fmt.Errorf("labelarena: %w: would exceed %d labels", kinds.ErrOverflow, maxLabels)
	}
	id := len(a.labels) + 1
	a.labels = append(a.labels, Label{ImageValue: imageValue, TargetID: id})
	return id, nil
}

// Get returns a pointer to the label record for id. Ids are 1-indexed.
func (a *Arena) Get(id int) *Label {
	return &a.labels[id-1]
}

// Resolve walks the union-find chain from id to its current canonical
// representative, compressing the path as it goes. Valid only before
// ResolveEquivalences has finalized the arena.
func (a *Arena) Resolve(id int) int {
	// Find the root first.
	root := id
	for a.labels[root-1].TargetID != root {
		root = a.labels[root-1].TargetID
	}
	// Path compression: repoint every visited node directly at root.
	for id != root {
		next := a.labels[id-1].TargetID
		a.labels[id-1].TargetID = root
		id = next
	}
	return root
}

// Union merges the equivalence classes containing x and y, always
// pointing the higher-id root at the lower-id root so that TargetID
// never exceeds a label's own id (the monotone-decreasing invariant).
func (a *Arena) Union(x, y int) {
	rx := a.Resolve(x)
	ry := a.Resolve(y)
	if rx == ry {
		return
	}
	if rx < ry {
		a.labels[ry-1].TargetID = rx
	} else {
		a.labels[rx-1].TargetID = ry
	}
}

// Accumulate records a voxel's contribution to label id: increments its
// size and ORs in the voxel's on-edge flags. Called once per candidate
// voxel during the raster scan, on whichever label id was actually
// assigned to that voxel (not necessarily the eventual canonical root).
func (a *Arena) Accumulate(id int, onEdgeX, onEdgeY, onEdgeZ bool) {
	l := &a.labels[id-1]
	l.Size++
	l.OnEdgeX = l.OnEdgeX || onEdgeX
	l.OnEdgeY = l.OnEdgeY || onEdgeY
	l.OnEdgeZ = l.OnEdgeZ || onEdgeZ
}

// ResolveEquivalences is pass 2: iterate labels from H down to 1, fusing
// non-canonical labels' size and edge flags into their parent and, for
// each canonical label, applying the size/edge-discard constraints and
// assigning a dense final id. Returns K, the number of surviving labels.
//
// The backward iteration order guarantees that when a canonical label L
// is processed, every non-canonical child with a higher id has already
// folded its size into L (directly, or transitively through another
// non-canonical label with an id between the two).
func (a *Arena) ResolveEquivalences(minSize, maxSize int, noEdgeX, noEdgeY, noEdgeZ bool) int {
	counter := 0
	for id := len(a.labels); id >= 1; id-- {
		l := &a.labels[id-1]
		t := l.TargetID
		if t < id {
			parent := &a.labels[t-1]
			parent.Size += l.Size
			parent.OnEdgeX = parent.OnEdgeX || l.OnEdgeX
			parent.OnEdgeY = parent.OnEdgeY || l.OnEdgeY
			parent.OnEdgeZ = parent.OnEdgeZ || l.OnEdgeZ
			continue
		}

		keep := l.Size >= minSize && l.Size <= maxSize
		if keep && noEdgeX && l.OnEdgeX {
			keep = false
		}
		if keep && noEdgeY && l.OnEdgeY {
			keep = false
		}
		if keep && noEdgeZ && l.OnEdgeZ {
			keep = false
		}

		if keep {
			counter++
			l.TargetID = counter
		} else {
			l.TargetID = 0
		}
		l.Finalized = true
	}
	return counter
}

// FinalID walks from a provisional label id to its finalized output:
// either 0 (discarded) or a dense 1..K id. Valid only after
// ResolveEquivalences has run. Idempotent: FinalID(FinalID-chain) always
// reaches the same fixed point, matching the resolve(resolve(id)) ==
// resolve(id) invariant.
func (a *Arena) FinalID(id int) int {
	for {
		l := &a.labels[id-1]
		if l.Finalized {
			return l.TargetID
		}
		id = l.TargetID
	}
}
