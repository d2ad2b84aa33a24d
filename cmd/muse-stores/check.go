package main

import (
	"fmt"
	"os"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify dataset integrity",
	Long: `Verify that the dataset parses, contains a Market node with stores, and
that every store has an id and name. Duplicate ids and POS keys are reported
because they make lookups ambiguous.

Exits with status 3 if the dataset cannot be read or has issues.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status string          `json:"status"`
	Path   string          `json:"path"`
	Stores int             `json:"stores"`
	Issues []catalog.Issue `json:"issues"`
}

// checkDataset validates the dataset at path.
func checkDataset(path string) (CheckResult, error) {
	raw, err := catalog.LoadRaw(path)
	if err != nil {
		return CheckResult{}, err
	}

	issues := catalog.Validate(raw, catalog.MarketNode)
	if issues == nil {
		issues = []catalog.Issue{}
	}

	status := "ok"
	if len(issues) > 0 {
		status = "issues"
	}

	return CheckResult{
		Status: status,
		Path:   path,
		Stores: len(catalog.Flatten(raw, catalog.MarketNode)),
		Issues: issues,
	}, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := dataPath()

	result, err := checkDataset(path)
	if err != nil {
		exitOnLoadError(err)
	}

	if humanOutput {
		if len(result.Issues) == 0 {
			fmt.Printf("Dataset check: OK\n\n%d stores checked in %s\n", result.Stores, path)
		} else {
			fmt.Printf("Dataset check: %d %s found\n\n", len(result.Issues), pluralize(len(result.Issues), "issue"))
			for _, issue := range result.Issues {
				fmt.Printf("  [WARN] %s\n\n", describeIssue(issue))
			}
			fmt.Printf("%d stores checked in %s\n", result.Stores, path)
		}
	} else {
		outputJSON(result)
	}

	if len(result.Issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// describeIssue renders an issue as a one-line human message.
func describeIssue(issue catalog.Issue) string {
	switch issue.Type {
	case catalog.IssueMissingNode:
		return fmt.Sprintf("No %q node in dataset", issue.Value)
	case catalog.IssueNoStores:
		return fmt.Sprintf("Node %q contains no stores", issue.Value)
	case catalog.IssueEmptyRegion:
		return fmt.Sprintf("Region with empty name (first store %s)", issue.Value)
	case catalog.IssueMissingField:
		if issue.ID != "" {
			return fmt.Sprintf("Store %s in %s has no %s", issue.ID, issue.Region, issue.Field)
		}
		return fmt.Sprintf("Store %q in %s has no %s", issue.Value, issue.Region, issue.Field)
	case catalog.IssueDuplicateID:
		return fmt.Sprintf("Duplicate id %s (%d stores)", issue.Value, len(issue.IDs))
	case catalog.IssueDuplicatePOS:
		return fmt.Sprintf("Duplicate POS key %s\n         Found in: %s", issue.Value, formatIDList(issue.IDs))
	}
	return issue.Type
}
