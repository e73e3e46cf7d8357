package hyperdata

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/unixpickle/essentials"
)

// PruneCheckpoints deletes the oldest checkpoint
// directories under outputDir so that at most keep remain.
//
// Checkpoints are directories named {prefix}-{step}. They
// are ordered by the numeric step suffix, or by
// modification time when byMTime is set; with numeric
// ordering, entries without a numeric suffix are ignored.
// A keep value of zero or less disables pruning. Deletion
// errors propagate to the caller.
func PruneCheckpoints(outputDir, prefix string, keep int, byMTime bool) (err error) {
	defer essentials.AddCtxTo("prune checkpoints", &err)

	if keep <= 0 {
		return nil
	}
	paths, err := filepath.Glob(filepath.Join(outputDir, prefix+"-*"))
	if err != nil {
		return err
	}
	if len(paths) <= keep {
		return nil
	}

	type entry struct {
		order int64
		path  string
	}
	var entries []entry
	stepExpr := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "-([0-9]+)$")
	for _, path := range paths {
		if byMTime {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			entries = append(entries, entry{info.ModTime().UnixNano(), path})
		} else if m := stepExpr.FindStringSubmatch(filepath.Base(path)); m != nil {
			step, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return err
			}
			entries = append(entries, entry{step, path})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].path < entries[j].path
	})
	for i := 0; i+keep < len(entries); i++ {
		if err := os.RemoveAll(entries[i].path); err != nil {
			return err
		}
	}
	return nil
}
