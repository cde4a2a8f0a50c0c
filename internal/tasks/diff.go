package tasks

import (
	"slices"

	"github.com/ytlist/ytlist/internal/models"
)

// DesiredItem is one resolved document row in order: the video the row
// resolved to plus the document's own labeling for display.
type DesiredItem struct {
	VideoID string
	Title   string
	Artist  string
}

// AddOp inserts a video at a 0-based position during the add phase.
type AddOp struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Position int64  `json:"position"`
}

// MoveOp relocates an existing playlist item to a 0-based position.
type MoveOp struct {
	ItemID   string `json:"item_id"`
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Position int64  `json:"position"`
}

// RemoveOp deletes one playlist membership.
type RemoveOp struct {
	ItemID  string `json:"item_id"`
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
}

// Plan is the ordered operation set that makes a playlist match a document.
// Execution always runs adds first, then moves, then removes, and every
// position is the 0-based index the playlist will have at that moment.
type Plan struct {
	Adds    []AddOp    `json:"adds"`
	Moves   []MoveOp   `json:"moves"`
	Removes []RemoveOp `json:"removes"`

	// Unknown lists live items the document does not mention. They are left
	// in place unless the caller asked for removal, in which case they also
	// appear in Removes.
	Unknown []models.LiveItem `json:"unknown"`
}

// TotalOps counts the mutations the plan will issue.
func (p *Plan) TotalOps() int {
	return len(p.Adds) + len(p.Moves) + len(p.Removes)
}

// Empty reports whether the playlist already matches the document.
func (p *Plan) Empty() bool {
	return p.TotalOps() == 0
}

// BuildPlan diffs the desired sequence against the live playlist.
//
// Matching treats both sides as multisets: the k-th document occurrence of a
// video pairs with its k-th live occurrence, so duplicated entries reconcile
// without churn. Paired items that sit outside the longest increasing
// subsequence of document order are moved; everything inside it stays put,
// which keeps the move count minimal. Unpaired document rows become adds,
// anchored directly after their closest stable predecessor.
func BuildPlan(desired []DesiredItem, live []models.LiveItem, removeUnknown bool) *Plan {
	liveByVideo := make(map[string][]int)
	for i, item := range live {
		liveByVideo[item.VideoID] = append(liveByVideo[item.VideoID], i)
	}

	pairedLive := make([]int, len(live)) // live index -> desired index
	for i := range pairedLive {
		pairedLive[i] = -1
	}
	pairedDesired := make([]int, len(desired)) // desired index -> live index
	taken := make(map[string]int)
	for i, d := range desired {
		refs := liveByVideo[d.VideoID]
		k := taken[d.VideoID]
		if k < len(refs) {
			pairedDesired[i] = refs[k]
			pairedLive[refs[k]] = i
			taken[d.VideoID] = k + 1
		} else {
			pairedDesired[i] = -1
		}
	}

	plan := &Plan{}
	for i, item := range live {
		if pairedLive[i] == -1 {
			plan.Unknown = append(plan.Unknown, item)
		}
	}

	// Desired indices in live order. Members of the longest increasing
	// subsequence keep their slot; the rest are movers.
	seq := make([]int, 0, len(live))
	for i := range live {
		if pairedLive[i] >= 0 {
			seq = append(seq, pairedLive[i])
		}
	}
	keep := lisMembers(seq)
	movers := make(map[int]bool)
	for _, di := range seq {
		if !keep[di] {
			movers[di] = true
		}
	}

	// Simulate the playlist through the add and move phases so each planned
	// position matches the playlist state at execution time.
	type entry struct {
		itemID  string
		videoID string
		title   string
		desired int // -1 for items not in the document
	}
	sim := make([]entry, 0, len(live)+len(desired))
	for i, item := range live {
		sim = append(sim, entry{itemID: item.ItemID, videoID: item.VideoID, title: item.Title, desired: pairedLive[i]})
	}

	// anchorAfter returns the index just past the rightmost entry that
	// precedes target in the document and will not move again. Pending
	// movers are unreliable anchors; they vacate their slot later.
	anchorAfter := func(target int) int {
		for i := len(sim) - 1; i >= 0; i-- {
			d := sim[i].desired
			if d >= 0 && d < target && !movers[d] {
				return i + 1
			}
		}
		return 0
	}

	for i, d := range desired {
		if pairedDesired[i] != -1 {
			continue
		}
		pos := anchorAfter(i)
		sim = slices.Insert(sim, pos, entry{videoID: d.VideoID, title: d.Title, desired: i})
		plan.Adds = append(plan.Adds, AddOp{VideoID: d.VideoID, Title: d.Title, Artist: d.Artist, Position: int64(pos)})
	}

	// Movers run in document order. Each processed mover leaves the pending
	// set, so later movers may anchor on it.
	order := make([]int, 0, len(movers))
	for di := range movers {
		order = append(order, di)
	}
	slices.Sort(order)
	for _, di := range order {
		cur := slices.IndexFunc(sim, func(e entry) bool { return e.desired == di })
		moved := sim[cur]
		sim = slices.Delete(sim, cur, cur+1)
		delete(movers, di)
		pos := anchorAfter(di)
		sim = slices.Insert(sim, pos, moved)
		plan.Moves = append(plan.Moves, MoveOp{ItemID: moved.itemID, VideoID: moved.videoID, Title: moved.title, Position: int64(pos)})
	}

	if removeUnknown {
		// Back to front; deletes address item IDs so order only affects how
		// the progress log reads.
		for i := len(plan.Unknown) - 1; i >= 0; i-- {
			item := plan.Unknown[i]
			plan.Removes = append(plan.Removes, RemoveOp{ItemID: item.ItemID, VideoID: item.VideoID, Title: item.Title})
		}
	}
	return plan
}

// lisMembers returns the value set of one longest strictly increasing
// subsequence of seq. Values must be distinct.
func lisMembers(seq []int) map[int]bool {
	members := make(map[int]bool, len(seq))
	if len(seq) == 0 {
		return members
	}
	tails := make([]int, 0, len(seq)) // indices into seq of each length's best tail
	parents := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parents[i] = tails[lo-1]
		} else {
			parents[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = parents[i] {
		members[seq[i]] = true
	}
	return members
}

// adjustForSkips converts a planned position into the live position after
// some planned inserts were skipped. Every skipped insert below the target
// shifts it up by one.
func adjustForSkips(planned int64, skippedAt []int64) int64 {
	pos := planned
	for _, s := range skippedAt {
		if s < planned {
			pos--
		}
	}
	return pos
}
