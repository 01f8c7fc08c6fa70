package gfxtrace

import "sort"

// pointerArgPlan is the precomputed outcome of running pointer-length
// inference once for one pointer argument, shared by both emitters so
// the header's forward declarations and the implementation's bodies
// never disagree about which arguments got an inline helper.
type pointerArgPlan struct {
	ArgIndex int
	HelperName string
	Expr       string
	Inferred   bool
}

// genPlan is the single pass over a Catalog that both emitters walk.
// Building it once keeps Generate's "produce both outputs before
// writing either" property (spec section 4.6 / section 5) cheap: nothing
// here depends on which file is being written.
type genPlan struct {
	All           []*EntryPoint
	PacketEntries []*EntryPoint // non-aliased, supported, sorted: these get EST_<name>Data
	PointerArgs   map[string][]pointerArgPlan
	Deferred      []DeferredInference
}

func buildPlan(cat *Catalog) *genPlan {
	p := &genPlan{
		All:         cat.AllEntriesSorted(),
		PointerArgs: map[string][]pointerArgPlan{},
	}
	for _, e := range p.All {
		if !e.IsAliased() && e.Supported {
			p.PacketEntries = append(p.PacketEntries, e)
		}
		var plans []pointerArgPlan
		for i, a := range e.Args {
			if !a.IsPointer {
				continue
			}
			expr, ok := InferPointerLength(e, i)
			plans = append(plans, pointerArgPlan{
				ArgIndex:   i,
				HelperName: pointerLengthHelperName(e, i),
				Expr:       expr,
				Inferred:   ok,
			})
			if !ok {
				p.Deferred = append(p.Deferred, DeferredInference{Entry: e.Name, Argument: a.Name})
			}
		}
		if len(plans) > 0 {
			p.PointerArgs[e.Name] = plans
		}
	}
	sort.Slice(p.PacketEntries, func(i, j int) bool { return p.PacketEntries[i].Name < p.PacketEntries[j].Name })
	return p
}

// resolvedCallTarget returns the entry this entry actually calls at
// runtime: itself, unless it is aliased, in which case it is the
// aliased entry (recursively resolved, though the catalog only allows
// one level in practice).
func (p *genPlan) resolvedCallTarget(cat *Catalog, e *EntryPoint) *EntryPoint {
	seen := map[string]bool{}
	cur := e
	for cur.IsAliased() && !seen[cur.Name] {
		seen[cur.Name] = true
		target := cat.byName(cur.Alias)
		if target == nil {
			break
		}
		cur = target
	}
	return cur
}
