package board

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// ParseIDs splits a comma-separated ID string into deduplicated int IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id < 1 {
			return nil, lead.ValidateLeadID(p)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidLeadID, "no valid lead IDs provided")
	}
	return ids, nil
}
