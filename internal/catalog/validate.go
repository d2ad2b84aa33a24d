package catalog

import "sort"

// Issue types reported by Validate.
const (
	IssueMissingNode  = "missing_node"
	IssueMissingField = "missing_field"
	IssueDuplicateID  = "duplicate_id"
	IssueDuplicatePOS = "duplicate_pos_key"
	IssueEmptyRegion  = "empty_region"
	IssueNoStores     = "no_stores"
)

// Issue is a single problem found in a dataset.
type Issue struct {
	Type   string   `json:"type"`
	ID     string   `json:"id,omitempty"`
	IDs    []string `json:"ids,omitempty"`
	Field  string   `json:"field,omitempty"`
	Region string   `json:"region,omitempty"`
	Value  string   `json:"value,omitempty"`
}

// Validate checks the nodeType subtree of raw for problems that would make
// lookups ambiguous or records incomplete. Issues are ordered by type, then
// by position in the source.
func Validate(raw RawDataset, nodeType string) []Issue {
	node, ok := FindNode(raw, nodeType)
	if !ok {
		return []Issue{{Type: IssueMissingNode, Value: nodeType}}
	}

	var issues []Issue
	var stores []Store
	for _, sub := range node.Subcategories {
		if sub.Name == "" && len(sub.Children) > 0 {
			issues = append(issues, Issue{Type: IssueEmptyRegion, Value: sub.Children[0].ID})
		}
		for _, child := range sub.Children {
			s := toStore(child, sub.Name)
			stores = append(stores, s)
			if s.ID == "" {
				issues = append(issues, Issue{Type: IssueMissingField, Field: "id", Region: s.Region, Value: s.Name})
			}
			if s.Name == "" {
				issues = append(issues, Issue{Type: IssueMissingField, Field: "name", ID: s.ID, Region: s.Region})
			}
		}
	}

	if len(stores) == 0 {
		issues = append(issues, Issue{Type: IssueNoStores, Value: nodeType})
	}

	issues = append(issues, duplicates(stores, IssueDuplicateID, func(s Store) string { return s.ID })...)
	issues = append(issues, duplicates(stores, IssueDuplicatePOS, func(s Store) string { return s.POSKey })...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issueOrder(issues[i].Type) < issueOrder(issues[j].Type)
	})
	return issues
}

// duplicates reports every non-empty key shared by more than one store, in
// order of first appearance.
func duplicates(stores []Store, issueType string, key func(Store) string) []Issue {
	positions := make(map[string][]string)
	var order []string
	for _, s := range stores {
		k := key(s)
		if k == "" {
			continue
		}
		if _, seen := positions[k]; !seen {
			order = append(order, k)
		}
		positions[k] = append(positions[k], s.ID)
	}

	var issues []Issue
	for _, k := range order {
		if len(positions[k]) > 1 {
			issues = append(issues, Issue{Type: issueType, Value: k, IDs: positions[k]})
		}
	}
	return issues
}

func issueOrder(t string) int {
	switch t {
	case IssueMissingNode, IssueNoStores:
		return 0
	case IssueEmptyRegion:
		return 1
	case IssueMissingField:
		return 2
	case IssueDuplicateID:
		return 3
	default:
		return 4
	}
}
