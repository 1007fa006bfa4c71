package odoosync

import (
	"context"
	"strings"

	"github.com/prashantisarees/pos_reports_backend/config"
	"github.com/prashantisarees/pos_reports_backend/models"
)

// BranchKeywords maps each supported branch to the keywords its terminal
// names are matched against.
var BranchKeywords = map[string][]string{
	"CBE":          {"CB", "CBE"},
	"TN":           {"TN"},
	"MLM":          {"MLM"},
	"HYD":          {"HYD"},
	"JYR":          {"JYR"},
	"Vizag":        {"Vizag", "VZG"},
	"Saree Trails": {"PUNE"},
}

// localExpoBranch additionally matches roaming "Local Expo" terminals, but
// only when a branch keyword appears as a standalone token in the name.
const localExpoBranch = "Saree Trails"

// BranchNames lists the supported branches for pickers, in display order.
func BranchNames() []string {
	return []string{"TN", "CBE", "MLM", "HYD", "JYR", "Vizag", "Saree Trails"}
}

// FetchTerminals resolves the terminals that belong strictly to the given
// branch. The server-side ilike query over-matches by design; the
// standalone-token post-filter below rejects substring hits inside unrelated
// words. A query failure is recoverable: the caller gets an empty slice and
// may simply retry.
func FetchTerminals(ctx context.Context, rpc Caller, branchName string) ([]models.Terminal, error) {
	keywords, ok := BranchKeywords[branchName]
	if !ok {
		keywords = []string{branchName}
	}

	clauses := make([]interface{}, 0, len(keywords)+1)
	for _, kw := range keywords {
		clauses = append(clauses, []interface{}{"name", "ilike", kw})
	}
	if branchName == localExpoBranch {
		clauses = append(clauses, []interface{}{"name", "ilike", "Local Expo"})
	}
	domain := make([]interface{}, 0, len(clauses)*2-1)
	for i := 1; i < len(clauses); i++ {
		domain = append(domain, "|")
	}
	domain = append(domain, clauses...)

	reply, err := rpc.ExecuteKw(ctx, "pos.config", "search_read",
		[]interface{}{domain},
		map[string]interface{}{"fields": []string{"id", "name"}})
	if err != nil {
		config.LogError(config.GetLogger(), "odoosync", "FetchTerminals", "fetching POS terminals", branchName, err)
		return nil, recoverable("fetching POS terminals", "check the branch spelling and the backend connection", err)
	}

	var terminals []models.Terminal
	for _, rec := range asRecordList(reply) {
		t := decodeTerminal(rec)
		if matchesBranch(t.Name, branchName, keywords) {
			terminals = append(terminals, t)
		}
	}
	return terminals, nil
}

func matchesBranch(name, branchName string, keywords []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	// Local Expo terminals are shared across branches; the standalone-token
	// rule decides ownership and overrides the prefix rule.
	if branchName == localExpoBranch && strings.Contains(name, "local expo") {
		return containsStandaloneKeyword(name, keywords)
	}
	for _, kw := range keywords {
		if strings.HasPrefix(name, strings.ToLower(kw)) {
			return true
		}
	}
	return containsStandaloneKeyword(name, keywords)
}

// containsStandaloneKeyword requires the keyword to be bounded by spaces, so
// "TN" matches "Shop TN 2" but never "ANTENNA".
func containsStandaloneKeyword(name string, keywords []string) bool {
	padded := " " + name + " "
	for _, kw := range keywords {
		if strings.Contains(padded, " "+strings.ToLower(kw)+" ") {
			return true
		}
	}
	return false
}
