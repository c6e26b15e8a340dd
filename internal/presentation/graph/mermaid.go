package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sluice/pkg/domain"
)

// Overlay contains run state to visualize on the graph.
type Overlay struct {
	FinishedNodes []string
	PrunedNodes   []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a workflow
// graph. It applies semantic styling:
// - Terminal (owns an output template): ([Stadium])
// - Conditional (branch-tagged edges): {Diamond}
// - Default: [Rectangle]
// Branch names label their edges. Overlay styles (Finished/Pruned) are
// applied if provided.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	terminals := make(map[string]bool)
	for _, r := range g.Routes() {
		terminals[r.TerminalID] = true
	}

	for _, id := range g.NodeIDs() {
		safeID := sanitizeMermaidID(id)
		edges := g.Edges(id)

		// Node shape based on role
		opener, closer := "[", "]"
		switch {
		case terminals[id]:
			opener, closer = "([", "])"
		case len(edges) > 0 && edges[0].Branch != "":
			opener, closer = "{", "}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, id, closer))

		for _, e := range edges {
			safeTo := sanitizeMermaidID(e.Target)

			arrow := "-->"
			if e.Branch != "" {
				// Escape double quotes in branch names for Mermaid labels
				safeBranch := strings.ReplaceAll(e.Branch, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeBranch)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef finished fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef pruned fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray: 5 5,color:#000;\n")

		writeClasses(&sb, overlay.FinishedNodes, "finished")
		writeClasses(&sb, overlay.PrunedNodes, "pruned")
	}

	return sb.String()
}

func writeClasses(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, class))
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
