package target

import (
	"strings"

	"github.com/sofmeright/crossfreight/src/platform"
)

// Resolve expands specs into targets, in request order, with duplicates
// (by triple) dropped after their first occurrence. Specs that match nothing
// are returned in unknown; they do not stop resolution of the rest.
//
// Resolve does not default an empty input. Callers pass ["native"] when
// nothing was requested and treat an empty result as fatal.
func Resolve(specs []string, host platform.Host) (targets []Target, unknown []string) {
	set := NewOrderedSet[string, Target]()

	for _, raw := range specs {
		spec := strings.ToLower(strings.TrimSpace(raw))

		if g, ok := LookupGroup(spec); ok {
			for _, alias := range g.Members() {
				if t, ok := resolveOne(alias, host); ok {
					set.Add(t.Triple, t)
				}
			}
			continue
		}

		t, ok := resolveOne(spec, host)
		if !ok {
			unknown = append(unknown, raw)
			continue
		}
		set.Add(t.Triple, t)
	}

	return set.Values(), unknown
}

// resolveOne resolves a single non-group spec.
func resolveOne(spec string, host platform.Host) (Target, bool) {
	if spec == NativeSpec {
		return Native(host), true
	}

	if e, ok := LookupAlias(spec); ok {
		tr, ok := ParseTriple(e.Triple)
		if !ok {
			return Target{}, false
		}
		return New(spec, tr, e.FriendlyName, host), true
	}

	tr, ok := ParseTriple(spec)
	if !ok {
		return Target{}, false
	}
	friendly := ""
	if e, ok := LookupTriple(tr.String()); ok {
		friendly = e.FriendlyName
	}
	return New(spec, tr, friendly, host), true
}

// Native returns the synthetic target for the host itself. It uses the
// catalog's friendly name when the host triple is catalogued.
func Native(host platform.Host) Target {
	triple := host.Triple()
	friendly := host.String()
	if e, ok := LookupTriple(triple); ok {
		friendly = e.FriendlyName
	}

	t := Target{
		Spec:         NativeSpec,
		FriendlyName: friendly,
		Triple:       triple,
		OS:           host.OS,
		Arch:         host.Arch,
		Strategy:     Strategy{Kind: KindNative},
	}
	if tr, ok := ParseTriple(triple); ok {
		t.Strategy = StrategyFor(tr, host)
	}
	return t
}

// AnyNeedsCrossToolchain reports whether any target goes through the shim.
func AnyNeedsCrossToolchain(targets []Target) bool {
	for _, t := range targets {
		if t.NeedsCrossToolchain() {
			return true
		}
	}
	return false
}
