package graph

import (
	"fmt"
	"strings"
)

// GenerateMermaid produces a Mermaid flowchart of navigation containers. Each
// container is a subgraph whose stack reads bottom to top. It applies
// semantic styling:
// - Dialog: {{Hexagon}}
// - Not yet built (restored): [/Parallelogram/]
// - Default: [Rectangle]
// Shown, active and primary-partition entries get overlay classes, and nested
// containers hang off their hosting destination with a dotted edge.
func GenerateMermaid(views []ContainerView) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var shown, active, primary []string
	for _, v := range views {
		cid := sanitizeMermaidID(v.ID)
		label := v.ID
		if v.Split {
			label += " (split)"
		}
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", cid, escape(label)))
		if len(v.Stack) == 0 {
			sb.WriteString(fmt.Sprintf("        %s_empty[\"(empty)\"]\n", cid))
		}

		prev := ""
		for _, d := range v.Stack {
			nid := nodeID(v.ID, d.ID)

			opener, closer := "[", "]"
			switch {
			case d.Mode == "DIALOG":
				opener, closer = "{{", "}}"
			case !d.Built:
				opener, closer = "[/", "/]"
			}
			sb.WriteString(fmt.Sprintf("        %s%s\"%s\"%s\n", nid, opener, escape(d.Name), closer))
			if prev != "" {
				sb.WriteString(fmt.Sprintf("        %s --> %s\n", prev, nid))
			}
			prev = nid

			if d.Shown {
				shown = append(shown, nid)
			}
			if d.Active {
				active = append(active, nid)
			}
			if d.Primary {
				primary = append(primary, nid)
			}
		}
		sb.WriteString("    end\n")
	}

	// Nesting edges
	for _, v := range views {
		if v.Parent == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", nodeID(v.Parent, v.Host), sanitizeMermaidID(v.ID)))
	}

	if len(shown)+len(active)+len(primary) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef shown fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef primary stroke-dasharray:5 5;\n")
		writeClass(&sb, shown, "shown")
		writeClass(&sb, active, "active")
		writeClass(&sb, primary, "primary")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	if len(ids) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), class))
}

func nodeID(container string, id uint64) string {
	return fmt.Sprintf("%s_%d", sanitizeMermaidID(container), id)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
