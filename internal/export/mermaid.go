// Package export renders extraction results for downstream consumers: a
// Mermaid class diagram for renderers and a versioned JSON document for
// tools such as storage-layout calculators.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solscope/solscope/internal/extract"
	"github.com/solscope/solscope/internal/graph"
)

// GenerateClassDiagram produces a Mermaid classDiagram from extracted
// entities. Entity order and per-entity member order follow declaration
// order; association edges are sorted, so output is stable across runs.
// Edge styling carries the semantic distinction renderers need:
// realization --|>, storage reference -->, memory reference ..>.
func GenerateClassDiagram(entities []*extract.Entity, clusters []graph.ClusterNode) string {
	var sb strings.Builder
	sb.WriteString("classDiagram\n")

	clusterOf := make(map[string]string)
	for _, c := range clusters {
		for _, m := range c.Members {
			clusterOf[m] = c.Name
		}
	}

	for _, ent := range entities {
		writeClass(&sb, ent, clusterOf[ent.Name])
	}

	for _, ent := range entities {
		targets := make([]string, 0, len(ent.Associations))
		for t := range ent.Associations {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			assoc := ent.Associations[t]
			sb.WriteString(fmt.Sprintf("  %s %s %s\n",
				sanitize(ent.Name), arrow(assoc), sanitize(t)))
		}
	}

	return sb.String()
}

// writeClass emits one class block with stereotype annotation, attributes,
// and operators.
func writeClass(sb *strings.Builder, ent *extract.Entity, cluster string) {
	name := sanitize(ent.Name)
	sb.WriteString(fmt.Sprintf("  class %s {\n", name))
	if ent.Stereotype != extract.StereotypeNone {
		sb.WriteString(fmt.Sprintf("    <<%s>>\n", ent.Stereotype))
	}
	for _, attr := range ent.Attributes {
		sb.WriteString(fmt.Sprintf("    %s%s %s\n",
			visibilityGlyph(attr.Visibility), attr.Type, attr.Name))
	}
	for _, op := range ent.Operators {
		sb.WriteString(fmt.Sprintf("    %s%s\n", visibilityGlyph(op.Visibility), operatorSignature(op)))
	}
	sb.WriteString("  }\n")
	if cluster != "" {
		sb.WriteString(fmt.Sprintf("  %s : %s hierarchy\n", name, sanitize(cluster)))
	}
}

// operatorSignature renders "name(paramType param, ...) returnTypes".
func operatorSignature(op extract.Operator) string {
	name := op.Name
	if name == "" && op.Stereotype == extract.OperatorFallback {
		name = "fallback"
	}

	params := make([]string, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		if p.Name == "" {
			params = append(params, p.Type)
			continue
		}
		params = append(params, p.Type+" "+p.Name)
	}

	sig := fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
	if len(op.ReturnParameters) > 0 {
		rets := make([]string, 0, len(op.ReturnParameters))
		for _, p := range op.ReturnParameters {
			rets = append(rets, p.Type)
		}
		sig += " " + strings.Join(rets, ", ")
	}
	if op.Stereotype != extract.OperatorNone {
		sig += fmt.Sprintf(" «%s»", op.Stereotype)
	}
	return sig
}

// arrow picks the Mermaid edge for an association record.
func arrow(assoc extract.Association) string {
	switch {
	case assoc.Realization:
		return "--|>"
	case assoc.ReferenceType == extract.RefStorage:
		return "-->"
	default:
		return "..>"
	}
}

// visibilityGlyph maps visibility to the UML member prefix.
func visibilityGlyph(v extract.Visibility) string {
	switch v {
	case extract.VisibilityPublic:
		return "+"
	case extract.VisibilityPrivate:
		return "-"
	case extract.VisibilityInternal:
		return "#"
	case extract.VisibilityExternal:
		return "~"
	default:
		return ""
	}
}

// sanitize strips characters Mermaid treats as syntax from identifiers.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '{', '}', '(', ')', '<', '>', '"':
			return -1
		default:
			return r
		}
	}, name)
}
