package model

import "github.com/aretw0/swerve/pkg/space"

// SnapshotDiff lists the frames that differ between two snapshots.
// It is designed to be serialized to JSON for clients that hold an older
// snapshot.
type SnapshotDiff struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`

	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`

	// Reparented frames hang from a different parent. Their edges are not
	// compared.
	Reparented []string `json:"reparented,omitempty"`

	// Changed frames kept their parent but not their edge or body.
	Changed []string `json:"changed,omitempty"`
}

// Diff compares two snapshots, with eps as the transform tolerance.
// A nil old snapshot diffs as empty: every frame of cur is added.
// It returns nil when nothing differs.
func Diff(old, cur *Snapshot, eps float64) *SnapshotDiff {
	if cur == nil {
		return nil
	}
	if old == nil {
		old = &Snapshot{}
	}
	d := &SnapshotDiff{From: old.Version, To: cur.Version}

	for _, n := range cur.Nodes {
		prev, ok := old.Node(n.ID)
		switch {
		case !ok:
			d.Added = append(d.Added, n.ID)
		case prev.Parent != n.Parent:
			d.Reparented = append(d.Reparented, n.ID)
		case !sameFrame(prev, n, eps):
			d.Changed = append(d.Changed, n.ID)
		}
	}
	for _, n := range old.Nodes {
		if _, ok := cur.Node(n.ID); !ok {
			d.Removed = append(d.Removed, n.ID)
		}
	}

	if d.IsEmpty() {
		return nil
	}
	return d
}

func sameFrame(a, b NodeView, eps float64) bool {
	if a.Edge != b.Edge || a.Body != b.Body || a.Space != b.Space {
		return false
	}
	if (a.Joint == nil) != (b.Joint == nil) {
		return false
	}
	if a.Joint != nil && *a.Joint != *b.Joint {
		return false
	}
	return space.EqualApprox(a.Transform, b.Transform, eps)
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Reparented) == 0 &&
		len(d.Changed) == 0
}
