package tui

import (
	"sort"
	"strings"

	"clustertop/internal/api"
)

// ViewMode selects which item list the main panel shows.
type ViewMode int

const (
	ViewTiers ViewMode = iota
	ViewReplicasets
	ViewInstances
)

func (m ViewMode) cycleNext() ViewMode {
	switch m {
	case ViewTiers:
		return ViewReplicasets
	case ViewReplicasets:
		return ViewInstances
	default:
		return ViewTiers
	}
}

func (m ViewMode) label() string {
	switch m {
	case ViewReplicasets:
		return "Replicasets"
	case ViewInstances:
		return "Instances"
	default:
		return "Tiers"
	}
}

// SortField orders the instances view.
type SortField int

const (
	SortByName SortField = iota
	SortByFailureDomain
)

func (f SortField) cycleNext() SortField {
	if f == SortByName {
		return SortByFailureDomain
	}
	return SortByName
}

func (f SortField) label() string {
	if f == SortByFailureDomain {
		return "Failure Domain"
	}
	return "Name"
}

// SortOrder is the direction of the instances sort.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

func (o SortOrder) toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

func (o SortOrder) arrow() string {
	if o == SortDesc {
		return "↓"
	}
	return "↑"
}

type itemKind int

const (
	itemTier itemKind = iota
	itemReplicaset
	itemInstance
)

// TreeItem addresses one visible row of the tiers tree by indices into the
// tier data. Replicaset and Instance are meaningful only for the deeper kinds.
type TreeItem struct {
	Kind       itemKind
	Tier       int
	Replicaset int
	Instance   int
}

// rsKey identifies a replicaset by its (tier, replicaset) index pair.
type rsKey struct {
	tier, rs int
}

// buildTree flattens tiers into the visible row list: a strict pre-order
// walk that descends into a tier or replicaset only when it is expanded.
// Expansion entries pointing past the current data are simply never reached.
func buildTree(tiers []api.TierInfo, expandedTiers map[int]bool, expandedReplicasets map[rsKey]bool) []TreeItem {
	var items []TreeItem
	for ti := range tiers {
		items = append(items, TreeItem{Kind: itemTier, Tier: ti})
		if !expandedTiers[ti] {
			continue
		}
		for ri := range tiers[ti].Replicasets {
			items = append(items, TreeItem{Kind: itemReplicaset, Tier: ti, Replicaset: ri})
			if !expandedReplicasets[rsKey{ti, ri}] {
				continue
			}
			for ii := range tiers[ti].Replicasets[ri].Instances {
				items = append(items, TreeItem{Kind: itemInstance, Tier: ti, Replicaset: ri, Instance: ii})
			}
		}
	}
	return items
}

// flatReplicaset is a replicaset annotated with its owning tier name.
type flatReplicaset struct {
	Tier string
	RS   api.ReplicasetInfo
}

// flattenReplicasets concatenates every tier's replicasets in tier order.
func flattenReplicasets(tiers []api.TierInfo) []flatReplicaset {
	var out []flatReplicaset
	for _, tier := range tiers {
		for _, rs := range tier.Replicasets {
			out = append(out, flatReplicaset{Tier: tier.Name, RS: rs})
		}
	}
	return out
}

// flatInstance is an instance annotated with its owning tier and replicaset.
type flatInstance struct {
	Tier       string
	Replicaset string
	Inst       api.InstanceInfo
}

// flattenInstances collects all instances across all tiers and replicasets
// in source order.
func flattenInstances(tiers []api.TierInfo) []flatInstance {
	var out []flatInstance
	for _, tier := range tiers {
		for _, rs := range tier.Replicasets {
			for _, inst := range rs.Instances {
				out = append(out, flatInstance{Tier: tier.Name, Replicaset: rs.Name, Inst: inst})
			}
		}
	}
	return out
}

// matchesFilter reports whether an instance matches the case-insensitive
// substring filter across its name, owning tier and replicaset names, binary
// address, and failure-domain values. An empty filter matches everything.
func matchesFilter(fi flatInstance, filter string) bool {
	if filter == "" {
		return true
	}
	f := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(fi.Inst.Name), f) ||
		strings.Contains(strings.ToLower(fi.Tier), f) ||
		strings.Contains(strings.ToLower(fi.Replicaset), f) ||
		strings.Contains(strings.ToLower(fi.Inst.BinaryAddress), f) {
		return true
	}
	for _, v := range fi.Inst.FailureDomain {
		if strings.Contains(strings.ToLower(v), f) {
			return true
		}
	}
	return false
}

func filterInstances(list []flatInstance, filter string) []flatInstance {
	if filter == "" {
		return list
	}
	out := make([]flatInstance, 0, len(list))
	for _, fi := range list {
		if matchesFilter(fi, filter) {
			out = append(out, fi)
		}
	}
	return out
}

// failureDomainKey renders a failure-domain map canonically: keys sorted
// ascending, joined as "key:value" pairs with ", ".
func failureDomainKey(fd map[string]string) string {
	if len(fd) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fd))
	for k := range fd {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+fd[k])
	}
	return strings.Join(parts, ", ")
}

// sortInstances orders the list in place. Descending is a strict reversal of
// the ascending comparator; equal elements keep their existing relative
// order (sort.SliceStable).
func sortInstances(list []flatInstance, field SortField, order SortOrder) {
	less := func(a, b flatInstance) bool {
		if field == SortByFailureDomain {
			ka := failureDomainKey(a.Inst.FailureDomain)
			kb := failureDomainKey(b.Inst.FailureDomain)
			if ka != kb {
				return ka < kb
			}
		}
		return a.Inst.Name < b.Inst.Name
	}
	sort.SliceStable(list, func(i, j int) bool {
		if order == SortDesc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// visibleInstances is the instances-view pipeline: flatten, filter, sort.
func visibleInstances(tiers []api.TierInfo, filter string, field SortField, order SortOrder) []flatInstance {
	list := filterInstances(flattenInstances(tiers), filter)
	sortInstances(list, field, order)
	return list
}
