package matching

import (
	"fmt"
	"strings"

	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/textnorm"
)

// Confidence levels.
const (
	ScoreExact    = 100 // equal names, or a manual pick
	ScoreContains = 80  // one name contains the other
	ScoreNoMatch  = 0
)

// Candidate is a known store the files can be matched against.
type Candidate struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FileAssociation pairs an uploaded file with the store it should belong to.
type FileAssociation struct {
	FileName  string       `json:"file_name"`
	Key       string       `json:"key"`
	StoreID   *uint        `json:"store_id"`
	StoreName *string      `json:"store_name"`
	Score     int          `json:"score"`
	Status    batch.Status `json:"status"`
}

// Resolved reports whether the file has a target store.
func (a FileAssociation) Resolved() bool {
	return a.StoreID != nil
}

// Match proposes a store for every file name. For each file the candidate with the highest
// score wins; on equal scores the earlier candidate is kept. Files are matched independently,
// duplicates included.
func Match(candidates []Candidate, fileNames []string) []FileAssociation {
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c.Name)
	}

	out := make([]FileAssociation, 0, len(fileNames))
	for _, name := range fileNames {
		key := textnorm.ComparisonKey(name)
		assoc := FileAssociation{FileName: name, Key: key, Score: ScoreNoMatch, Status: batch.Pending()}

		best := -1
		bestScore := ScoreNoMatch
		for i := range candidates {
			score := scoreName(lowered[i], key)
			if score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best >= 0 {
			id := candidates[best].ID
			storeName := candidates[best].Name
			assoc.StoreID = &id
			assoc.StoreName = &storeName
			assoc.Score = bestScore
		}
		out = append(out, assoc)
	}
	return out
}

// scoreName compares a lowercased store name with a comparison key. The first rule that
// applies decides; empty strings never match.
func scoreName(name, key string) int {
	if name == "" || key == "" {
		return ScoreNoMatch
	}
	switch {
	case name == key:
		return ScoreExact
	case strings.Contains(name, key), strings.Contains(key, name):
		return ScoreContains
	default:
		return ScoreNoMatch
	}
}

// Append merges freshly proposed associations into the session list.
func Append(existing, proposed []FileAssociation) []FileAssociation {
	out := make([]FileAssociation, 0, len(existing)+len(proposed))
	out = append(out, existing...)
	return append(out, proposed...)
}

// Override pins a file to the given store. Manual picks are always scored 100 and are never
// re-scored. A failed or skipped item goes back to pending so the next commit picks it up; an
// item that is uploading or uploaded keeps its status.
func Override(list []FileAssociation, index int, c Candidate) ([]FileAssociation, error) {
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("association %d out of range", index)
	}
	id := c.ID
	name := c.Name
	list[index].StoreID = &id
	list[index].StoreName = &name
	list[index].Score = ScoreExact
	switch list[index].Status.State {
	case batch.StatePartial, batch.StateError, batch.StateSkipped:
		list[index].Status = batch.Pending()
	case batch.StatePending, batch.StateUploading, batch.StateSuccess:
	}
	return list, nil
}

// Remove drops a file from the pending list. Items being uploaded or already uploaded stay.
func Remove(list []FileAssociation, index int) ([]FileAssociation, error) {
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("association %d out of range", index)
	}
	switch list[index].Status.State {
	case batch.StateUploading, batch.StateSuccess:
		return list, fmt.Errorf("association %d is %s and cannot be removed", index, list[index].Status.State)
	case batch.StatePending, batch.StatePartial, batch.StateError, batch.StateSkipped:
	}
	out := make([]FileAssociation, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

// Skip marks a pending file as deliberately left out of the next commit.
func Skip(list []FileAssociation, index int) ([]FileAssociation, error) {
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("association %d out of range", index)
	}
	next, err := list[index].Status.Advance(batch.Skipped())
	if err != nil {
		return list, err
	}
	list[index].Status = next
	return list, nil
}
