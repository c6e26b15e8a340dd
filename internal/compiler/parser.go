package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sluice/pkg/domain"
)

// Parser converts raw definition and event-log bytes into domain values.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// definitionFile mirrors the YAML layout of a workflow definition.
type definitionFile struct {
	Nodes        []string             `yaml:"nodes"`
	Edges        map[string][]edgeDef `yaml:"edges"`
	Routes       []routeDef           `yaml:"routes"`
	Dependencies map[string][]string  `yaml:"dependencies"`
}

type edgeDef struct {
	Target string `yaml:"target"`
	Branch string `yaml:"branch"`
}

type routeDef struct {
	Terminal string           `yaml:"terminal"`
	Template []map[string]any `yaml:"template"`
}

// segmentDef is the decoded form of one template entry. Entries are
// polymorphic in YAML ({text: ...} or {var: ...}), so they arrive as raw
// maps and are narrowed here.
type segmentDef struct {
	Text *string `mapstructure:"text"`
	Var  *string `mapstructure:"var"`
}

// ParseDefinition decodes a YAML workflow definition and compiles it into a
// validated Graph.
func (p *Parser) ParseDefinition(data []byte) (*domain.Graph, error) {
	var def definitionFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	edges := make(map[string][]domain.Edge, len(def.Edges))
	for source, raw := range def.Edges {
		var tagged, untagged int
		out := make([]domain.Edge, 0, len(raw))
		for _, e := range raw {
			if e.Target == "" {
				return nil, fmt.Errorf("edge from %q missing target", source)
			}
			if e.Branch == "" {
				untagged++
			} else {
				tagged++
			}
			out = append(out, domain.Edge{Target: e.Target, Branch: e.Branch})
		}
		// Mixing tagged and untagged edges on one source makes the untagged
		// ones prunable the moment a branch is reported, which is never what
		// a definition author means. Force them to pick one style.
		if tagged > 0 && untagged > 0 {
			return nil, fmt.Errorf("node %q mixes branch-tagged and untagged edges", source)
		}
		edges[source] = out
	}

	routes := make([]domain.Route, 0, len(def.Routes))
	for _, r := range def.Routes {
		if r.Terminal == "" {
			return nil, fmt.Errorf("route missing terminal")
		}
		segments, err := p.parseTemplate(r.Template)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Terminal, err)
		}
		routes = append(routes, domain.Route{TerminalID: r.Terminal, Segments: segments})
	}

	graph, err := domain.NewGraph(domain.GraphConfig{
		Nodes:        def.Nodes,
		Edges:        edges,
		Routes:       routes,
		Dependencies: def.Dependencies,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile definition: %w", err)
	}
	return graph, nil
}

func (p *Parser) parseTemplate(raw []map[string]any) ([]domain.Segment, error) {
	segments := make([]domain.Segment, 0, len(raw))
	for i, entry := range raw {
		var def segmentDef
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &def,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(entry); err != nil {
			return nil, fmt.Errorf("template entry %d: %w", i, err)
		}

		switch {
		case def.Text != nil && def.Var != nil:
			return nil, fmt.Errorf("template entry %d: both text and var set", i)
		case def.Text != nil:
			segments = append(segments, domain.TextSegment{Text: *def.Text})
		case def.Var != nil:
			sel, err := domain.ParseSelector(*def.Var)
			if err != nil {
				return nil, fmt.Errorf("template entry %d: %w", i, err)
			}
			segments = append(segments, domain.VarSegment{Selector: sel})
		default:
			return nil, fmt.Errorf("template entry %d: want text or var", i)
		}
	}
	return segments, nil
}

// eventDef mirrors one entry of a recorded event log.
type eventDef struct {
	Kind     string            `yaml:"kind"`
	Node     string            `yaml:"node"`
	Branch   string            `yaml:"branch"`
	Selector string            `yaml:"selector"`
	Content  string            `yaml:"content"`
	Status   string            `yaml:"status"`
	Outputs  map[string]string `yaml:"outputs"`
}

// ParseEventLog decodes a YAML event log into the ordered event sequence a
// live engine would have emitted.
func (p *Parser) ParseEventLog(data []byte) ([]domain.Event, error) {
	var defs []eventDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse event log: %w", err)
	}

	events := make([]domain.Event, 0, len(defs))
	for i, d := range defs {
		switch domain.EventKind(d.Kind) {
		case domain.EventNodeStarted:
			if d.Node == "" {
				return nil, fmt.Errorf("event %d: node_started missing node", i)
			}
			events = append(events, domain.NodeStartedEvent{NodeID: d.Node})

		case domain.EventNodeFinished:
			if d.Node == "" {
				return nil, fmt.Errorf("event %d: node_finished missing node", i)
			}
			events = append(events, domain.NodeFinishedEvent{
				NodeID:      d.Node,
				TakenBranch: d.Branch,
				Outputs:     d.Outputs,
			})

		case domain.EventStreamChunk:
			if d.Node == "" {
				return nil, fmt.Errorf("event %d: stream_chunk missing node", i)
			}
			var sel domain.Selector
			if d.Selector != "" {
				parsed, err := domain.ParseSelector(d.Selector)
				if err != nil {
					return nil, fmt.Errorf("event %d: %w", i, err)
				}
				sel = parsed
			}
			events = append(events, domain.StreamChunkEvent{
				NodeID:   d.Node,
				Selector: sel,
				Content:  d.Content,
			})

		case domain.EventRunFinished:
			events = append(events, domain.RunFinishedEvent{Status: d.Status})

		default:
			return nil, fmt.Errorf("event %d: unknown kind %q", i, d.Kind)
		}
	}
	return events, nil
}
