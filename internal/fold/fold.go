// Package fold derives the live view of an artifact from its append-only log.
//
// Update entries (update=true) amend their parent: an update with a note edits
// the parent's content, an update with an empty note soft-deletes it. An update
// only applies when its observer is the original observer of the entry it amends.
// Updates that target another update are re-targeted to the root of that chain.
// A soft delete is final: later edits of a deleted entry are ignored.
package fold

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
)

// Kind tags the outcome of resolving an update entry
type Kind int

const (
	// Rejected updates do not change the live view
	Rejected Kind = iota
	// Edited updates replace the content of their target
	Edited
	// Deleted updates hide their target
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Edited:
		return "edited"
	case Deleted:
		return "deleted"
	default:
		return "rejected"
	}
}

// Content is the part of an entry an edit replaces
type Content struct {
	Note     string          `json:"note"`
	X        int32           `json:"x"`
	Y        int32           `json:"y"`
	Located  bool            `json:"located"`
	ViewType domain.ViewType `json:"view_type"`
	Time     uint32          `json:"time"`
}

func contentOf(rec *domain.ObservationRecorded) Content {
	return Content{
		Note:     rec.Note,
		X:        rec.X,
		Y:        rec.Y,
		Located:  rec.Located,
		ViewType: rec.ViewType,
		Time:     rec.Time,
	}
}

// Resolution is the result of resolving one update entry
type Resolution struct {
	Kind Kind
	// Target is the id of the non-update entry the update applies to
	Target uint64
	// Content is set for Edited resolutions
	Content Content
}

// Origin describes the entry an update points at, as far as resolution needs to know
type Origin struct {
	Observer common.Address
	Update   bool
	// Root is the entry an update re-targets to; ignored when Update is false
	Root uint64
}

// Resolve decides how an update entry applies.
// lookup returns the origin of an earlier id on the same artifact.
func Resolve(update *domain.ObservationRecorded, lookup func(id uint64) (Origin, bool)) Resolution {
	if !update.Update || update.Parent == 0 {
		return Resolution{Kind: Rejected}
	}

	parent, ok := lookup(update.Parent)
	if !ok {
		return Resolution{Kind: Rejected}
	}

	target := update.Parent
	if parent.Update {
		target = parent.Root
		if parent, ok = lookup(target); !ok || parent.Update {
			return Resolution{Kind: Rejected}
		}
	}

	if parent.Observer != update.Observer {
		return Resolution{Kind: Rejected, Target: target}
	}

	if update.Deletes() {
		return Resolution{Kind: Deleted, Target: target}
	}
	return Resolution{Kind: Edited, Target: target, Content: contentOf(update)}
}

// Live is the current state of a non-update entry
type Live struct {
	Collection   common.Address `json:"collection"`
	TokenID      *big.Int       `json:"token_id"`
	ID           uint64         `json:"id"`
	Parent       uint64         `json:"parent"`
	Observer     common.Address `json:"observer"`
	Tip          *big.Int       `json:"tip"`
	TipRecipient common.Address `json:"tip_recipient"`
	Content
	Deleted bool `json:"deleted"`
	// UpdatedBy is the id of the last update applied, zero if never updated
	UpdatedBy uint64 `json:"updated_by"`
}

// Apply folds an artifact's records (in id order) into the live entries,
// one per non-update record, including deleted ones
func Apply(records []domain.ObservationRecorded) []Live {
	live, _ := Fold(records)
	return live
}

// Fold is Apply that also reports how each update record resolved, keyed by its id.
// An edit of an entry that is already deleted resolves as Rejected.
func Fold(records []domain.ObservationRecorded) ([]Live, map[uint64]Resolution) {
	live := make([]Live, 0, len(records))
	resolutions := make(map[uint64]Resolution)
	index := make(map[uint64]int, len(records))
	origins := make(map[uint64]Origin, len(records))

	lookup := func(id uint64) (Origin, bool) {
		o, ok := origins[id]
		return o, ok
	}

	for i := range records {
		rec := &records[i]
		if !rec.Update {
			origins[rec.ID] = Origin{Observer: rec.Observer}
			index[rec.ID] = len(live)
			live = append(live, Live{
				Collection:   rec.Collection,
				TokenID:      rec.TokenID,
				ID:           rec.ID,
				Parent:       rec.Parent,
				Observer:     rec.Observer,
				Tip:          rec.Tip,
				TipRecipient: rec.TipRecipient,
				Content:      contentOf(rec),
			})
			continue
		}

		res := Resolve(rec, lookup)
		origins[rec.ID] = Origin{Observer: rec.Observer, Update: true, Root: res.Target}

		pos, ok := index[res.Target]
		if !ok {
			resolutions[rec.ID] = res
			continue
		}
		entry := &live[pos]
		switch {
		case entry.Deleted && res.Kind != Rejected:
			res = Resolution{Kind: Rejected, Target: res.Target}
		case res.Kind == Edited:
			entry.Content = res.Content
			entry.UpdatedBy = rec.ID
		case res.Kind == Deleted:
			entry.Deleted = true
			entry.UpdatedBy = rec.ID
		}
		resolutions[rec.ID] = res
	}

	return live, resolutions
}

// Visible filters out deleted entries
func Visible(entries []Live) []Live {
	out := make([]Live, 0, len(entries))
	for _, e := range entries {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}
