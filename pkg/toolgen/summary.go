// summary.go
package toolgen

import (
	"fmt"
	"io"
	"sort"
)

// WriteSummary prints a human-readable summary of a generation result.
//
// The summary includes:
//   - Total number of generated tools
//   - Breakdown by tags showing tool count per tag
//   - Number of named types and diagnostics
//
// This is useful for sanity-checking what a document produces before handing
// the manifest to an emitter.
//
// Example usage:
//
//	doc, _ := spec.Load(data)
//	result, _ := toolgen.Build(doc)
//	toolgen.WriteSummary(os.Stdout, result)
//
// Output example:
//
//	Total tools: 12
//	Tags:
//	  pets: 8
//	  store: 3
//	  user: 1
//	Named types: 5
//	Diagnostics: 2
func WriteSummary(w io.Writer, result *Result) {
	tagCount := map[string]int{}
	for _, tool := range result.Tools {
		for _, tag := range tool.Tags {
			tagCount[tag]++
		}
	}

	fmt.Fprintf(w, "Total tools: %d\n", len(result.Tools))
	if len(tagCount) > 0 {
		tags := make([]string, 0, len(tagCount))
		for tag := range tagCount {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		fmt.Fprintln(w, "Tags:")
		for _, tag := range tags {
			fmt.Fprintf(w, "  %s: %d\n", tag, tagCount[tag])
		}
	}
	fmt.Fprintf(w, "Named types: %d\n", len(result.Types))
	fmt.Fprintf(w, "Diagnostics: %d\n", len(result.Diagnostics))
}
