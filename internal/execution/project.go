package execution

import (
	"sort"
	"strings"
)

// TeamView is the display-ready projection of one team's outputs.
type TeamView struct {
	TeamID           string            `json:"team_id"`
	TeamName         string            `json:"team_name"`
	SupervisorOutput string            `json:"supervisor_output"`
	WorkerOutputs    map[string]string `json:"worker_outputs"`
	Usage            []UsageRecord     `json:"usage"`
}

// PeerView is the display-ready projection of one peer agent's output.
type PeerView struct {
	Agent  string        `json:"agent"`
	Output string        `json:"output"`
	Usage  []UsageRecord `json:"usage"`
}

// Grouped splits a result's outputs into team and peer views.
type Grouped struct {
	Teams []TeamView `json:"teams"`
	Peers []PeerView `json:"peers"`
}

// GroupOutputs reshapes raw outputs into per-team and per-peer views by
// key prefix, attaching matching usage records. iteration selects a
// history slice: 0 always means the current output, n > 0 means the
// history entry whose Iteration field equals n-1. Entities without a
// matching history entry are skipped from the filtered view.
func GroupOutputs(res *Result, iteration int) Grouped {
	g := Grouped{Teams: []TeamView{}, Peers: []PeerView{}}
	if res == nil || len(res.Outputs) == 0 {
		return g
	}

	keys := make([]string, 0, len(res.Outputs))
	for k := range res.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := res.Outputs[key]
		switch {
		case strings.HasPrefix(key, "team:"):
			id := strings.TrimPrefix(key, "team:")
			if entry.TeamID == "" {
				entry.TeamID = id
			}
			view, ok := teamView(entry, iteration)
			if !ok {
				continue
			}
			view.Usage = usageForTeam(res.AgentUsage, entry.TeamName)
			g.Teams = append(g.Teams, view)

		case strings.HasPrefix(key, "agent:"):
			name := strings.TrimPrefix(key, "agent:")
			view, ok := peerView(name, entry, iteration)
			if !ok {
				continue
			}
			view.Usage = usageForAgent(res.AgentUsage, name)
			g.Peers = append(g.Peers, view)
		}
		// Keys with other prefixes are not displayable entities.
	}
	return g
}

func teamView(entry OutputEntry, iteration int) (TeamView, bool) {
	view := TeamView{TeamID: entry.TeamID, TeamName: entry.TeamName}
	if iteration == 0 {
		// The sentinel bypasses history and shows the current output.
		view.SupervisorOutput = entry.SupervisorOutput
		view.WorkerOutputs = entry.WorkerOutputs
		return view, true
	}
	for _, h := range entry.History {
		if h.Iteration == iteration-1 {
			view.SupervisorOutput = h.SupervisorOutput
			view.WorkerOutputs = h.WorkerOutputs
			return view, true
		}
	}
	return TeamView{}, false
}

func peerView(name string, entry OutputEntry, iteration int) (PeerView, bool) {
	view := PeerView{Agent: name}
	if iteration == 0 {
		view.Output = entry.Output
		return view, true
	}
	for _, h := range entry.History {
		if h.Iteration == iteration-1 {
			view.Output = h.Output
			return view, true
		}
	}
	return PeerView{}, false
}

func usageForTeam(records []UsageRecord, team string) []UsageRecord {
	var out []UsageRecord
	for _, r := range records {
		if r.Team == team && team != "" {
			out = append(out, r)
		}
	}
	return out
}

func usageForAgent(records []UsageRecord, agent string) []UsageRecord {
	var out []UsageRecord
	for _, r := range records {
		if r.Agent == agent {
			out = append(out, r)
		}
	}
	return out
}

// RoleBucket is the per-iteration sum of output lengths by role group.
type RoleBucket struct {
	Iteration  int `json:"iteration"`
	Supervisor int `json:"supervisor"`
	Worker     int `json:"worker"`
	Peer       int `json:"peer"`
}

// AggregatePerformance buckets usage records by iteration (default 1
// when absent), summing output lengths per role group for charting.
// Buckets come back ordered by iteration.
func AggregatePerformance(records []UsageRecord) []RoleBucket {
	byIter := map[int]*RoleBucket{}
	for _, r := range records {
		it := r.Iteration
		if it == 0 {
			it = 1
		}
		b, ok := byIter[it]
		if !ok {
			b = &RoleBucket{Iteration: it}
			byIter[it] = b
		}
		switch r.Role {
		case "supervisor":
			b.Supervisor += r.OutputLength
		case "peer":
			b.Peer += r.OutputLength
		default:
			b.Worker += r.OutputLength
		}
	}

	iters := make([]int, 0, len(byIter))
	for it := range byIter {
		iters = append(iters, it)
	}
	sort.Ints(iters)

	out := make([]RoleBucket, 0, len(iters))
	for _, it := range iters {
		out = append(out, *byIter[it])
	}
	return out
}

// Iterations returns the one-based iteration values present in a
// result's history, for populating the dashboard's iteration filter.
func Iterations(res *Result) []int {
	if res == nil {
		return nil
	}
	seen := map[int]bool{}
	for _, entry := range res.Outputs {
		for _, h := range entry.History {
			seen[h.Iteration+1] = true
		}
	}
	out := make([]int, 0, len(seen))
	for it := range seen {
		out = append(out, it)
	}
	sort.Ints(out)
	return out
}

// SanitizeGraph normalizes a decoded execution graph. JSON sources may
// contain non-array adjacency values; those decode to nil and are
// dropped here, keeping the node but no edges; the renderer treats
// whatever remains as authoritative. The returned order is sorted for
// deterministic layout.
func SanitizeGraph(raw map[string]any) (order []string, graph map[string][]string) {
	graph = map[string][]string{}
	seen := map[string]bool{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		add(k)
		targets, ok := raw[k].([]any)
		if !ok {
			continue // malformed entry: keep node, skip edges
		}
		for _, t := range targets {
			s, ok := t.(string)
			if !ok {
				continue
			}
			add(s)
			graph[k] = append(graph[k], s)
		}
	}
	return order, graph
}
