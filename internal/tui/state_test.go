package tui

import (
	"reflect"
	"testing"

	"clustertop/internal/api"
)

// testTiers builds a two-tier topology: tier "default" with replicasets
// r1 (i1 leader, i2) and r2 (i3), tier "storage" with replicaset r3 (i4).
func testTiers() []api.TierInfo {
	return []api.TierInfo{
		{
			Name: "default", RF: 3, InstanceCount: 3, CanVote: true,
			Replicasets: []api.ReplicasetInfo{
				{
					Name: "r1", State: api.StateOnline,
					Instances: []api.InstanceInfo{
						{Name: "i1", BinaryAddress: "10.0.0.1:3301", IsLeader: true,
							CurrentState:  api.StateOnline, TargetState: api.StateOnline,
							FailureDomain: map[string]string{"datacenter": "dc1", "rack": "a"}},
						{Name: "i2", BinaryAddress: "10.0.0.2:3301",
							CurrentState:  api.StateOffline, TargetState: api.StateOnline,
							FailureDomain: map[string]string{"datacenter": "dc2"}},
					},
				},
				{
					Name: "r2", State: api.StateOnline,
					Instances: []api.InstanceInfo{
						{Name: "i3", BinaryAddress: "10.0.0.3:3301",
							CurrentState:  api.StateOnline, TargetState: api.StateOnline,
							FailureDomain: map[string]string{"datacenter": "dc1", "rack": "b"}},
					},
				},
			},
		},
		{
			Name: "storage", RF: 2, InstanceCount: 1,
			Replicasets: []api.ReplicasetInfo{
				{
					Name: "r3", State: api.StateOffline,
					Instances: []api.InstanceInfo{
						{Name: "i4", BinaryAddress: "10.0.1.1:3301",
							CurrentState:  api.StateExpelled, TargetState: api.StateExpelled,
							FailureDomain: map[string]string{"datacenter": "dc3"}},
					},
				},
			},
		},
	}
}

func kinds(items []TreeItem) []itemKind {
	out := make([]itemKind, len(items))
	for i, it := range items {
		out[i] = it.Kind
	}
	return out
}

func TestBuildTreeCollapsed(t *testing.T) {
	items := buildTree(testTiers(), map[int]bool{}, map[rsKey]bool{})
	want := []itemKind{itemTier, itemTier}
	if !reflect.DeepEqual(kinds(items), want) {
		t.Fatalf("kinds = %v, want %v", kinds(items), want)
	}
}

func TestBuildTreeExpansionInsertsReplicasets(t *testing.T) {
	// Expanding a tier inserts its replicasets immediately after it,
	// in source order.
	items := buildTree(testTiers(), map[int]bool{0: true}, map[rsKey]bool{})
	want := []itemKind{itemTier, itemReplicaset, itemReplicaset, itemTier}
	if !reflect.DeepEqual(kinds(items), want) {
		t.Fatalf("kinds = %v, want %v", kinds(items), want)
	}
	if items[1].Replicaset != 0 || items[2].Replicaset != 1 {
		t.Errorf("replicaset order = %d, %d, want 0, 1", items[1].Replicaset, items[2].Replicaset)
	}
}

func TestBuildTreePreOrderFull(t *testing.T) {
	items := buildTree(testTiers(),
		map[int]bool{0: true, 1: true},
		map[rsKey]bool{{0, 0}: true, {0, 1}: true, {1, 0}: true})
	want := []itemKind{
		itemTier,
		itemReplicaset, itemInstance, itemInstance,
		itemReplicaset, itemInstance,
		itemTier,
		itemReplicaset, itemInstance,
	}
	if !reflect.DeepEqual(kinds(items), want) {
		t.Fatalf("kinds = %v, want %v", kinds(items), want)
	}
	// Instances of a collapsed replicaset never appear.
	partial := buildTree(testTiers(), map[int]bool{0: true}, map[rsKey]bool{{0, 1}: true})
	want = []itemKind{itemTier, itemReplicaset, itemReplicaset, itemInstance, itemTier}
	if !reflect.DeepEqual(kinds(partial), want) {
		t.Fatalf("partial kinds = %v, want %v", kinds(partial), want)
	}
}

func TestBuildTreeIdempotent(t *testing.T) {
	tiers := testTiers()
	expanded := map[int]bool{0: true}
	rs := map[rsKey]bool{{0, 0}: true}
	first := buildTree(tiers, expanded, rs)
	second := buildTree(tiers, expanded, rs)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rebuild differs:\n%v\n%v", first, second)
	}
}

func TestBuildTreeStaleExpansionEntries(t *testing.T) {
	// Expansion entries pointing past the data must be harmless.
	items := buildTree(testTiers()[:1],
		map[int]bool{0: true, 7: true},
		map[rsKey]bool{{0, 0}: true, {5, 9}: true})
	want := []itemKind{itemTier, itemReplicaset, itemInstance, itemInstance, itemReplicaset}
	if !reflect.DeepEqual(kinds(items), want) {
		t.Fatalf("kinds = %v, want %v", kinds(items), want)
	}
}

func TestFlattenReplicasets(t *testing.T) {
	list := flattenReplicasets(testTiers())
	if len(list) != 3 {
		t.Fatalf("got %d replicasets, want 3", len(list))
	}
	if list[0].RS.Name != "r1" || list[0].Tier != "default" {
		t.Errorf("first = %s/%s, want default/r1", list[0].Tier, list[0].RS.Name)
	}
	if list[2].RS.Name != "r3" || list[2].Tier != "storage" {
		t.Errorf("last = %s/%s, want storage/r3", list[2].Tier, list[2].RS.Name)
	}
}

func TestFlattenInstances(t *testing.T) {
	list := flattenInstances(testTiers())
	if len(list) != 4 {
		t.Fatalf("got %d instances, want 4", len(list))
	}
	if list[0].Inst.Name != "i1" || list[0].Replicaset != "r1" || list[0].Tier != "default" {
		t.Errorf("first = %+v", list[0])
	}
	if list[3].Inst.Name != "i4" || list[3].Tier != "storage" {
		t.Errorf("last = %+v", list[3])
	}
}

func TestFilterCaseCommutative(t *testing.T) {
	list := flattenInstances(testTiers())
	upper := filterInstances(list, "DC1")
	lower := filterInstances(list, "dc1")
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("filter results differ: %v vs %v", upper, lower)
	}
	if len(upper) != 2 {
		t.Fatalf("got %d matches for dc1, want 2", len(upper))
	}
}

func TestFilterFieldCoverage(t *testing.T) {
	list := flattenInstances(testTiers())
	tests := []struct {
		filter string
		want   int
	}{
		{"", 4},             // empty matches all
		{"i2", 1},           // instance name
		{"storage", 1},      // tier name
		{"r2", 1},           // replicaset name
		{"10.0.0.2", 1},     // binary address
		{"dc3", 1},          // failure-domain value
		{"nope", 0},         // no match
		{"default", 3},      // tier name covers all its instances
	}
	for _, tt := range tests {
		if got := len(filterInstances(list, tt.filter)); got != tt.want {
			t.Errorf("filter %q: got %d, want %d", tt.filter, got, tt.want)
		}
	}
}

func TestSortDescendingReversesAscending(t *testing.T) {
	for _, field := range []SortField{SortByName, SortByFailureDomain} {
		asc := flattenInstances(testTiers())
		sortInstances(asc, field, SortAsc)

		desc := flattenInstances(testTiers())
		sortInstances(desc, field, SortDesc)

		for i := range asc {
			if asc[i].Inst.Name != desc[len(desc)-1-i].Inst.Name {
				t.Fatalf("field %v: desc is not the reverse of asc:\nasc=%v\ndesc=%v",
					field, names(asc), names(desc))
			}
		}
	}
}

func names(list []flatInstance) []string {
	out := make([]string, len(list))
	for i, fi := range list {
		out[i] = fi.Inst.Name
	}
	return out
}

func TestSortByFailureDomainCanonicalKey(t *testing.T) {
	got := failureDomainKey(map[string]string{"rack": "a", "datacenter": "dc1"})
	want := "datacenter:dc1, rack:a"
	if got != want {
		t.Fatalf("failureDomainKey = %q, want %q", got, want)
	}
	if failureDomainKey(nil) != "" {
		t.Fatalf("failureDomainKey(nil) = %q, want empty", failureDomainKey(nil))
	}
}

func TestSortByFailureDomainNameTieBreak(t *testing.T) {
	list := []flatInstance{
		{Inst: api.InstanceInfo{Name: "b", FailureDomain: map[string]string{"dc": "1"}}},
		{Inst: api.InstanceInfo{Name: "a", FailureDomain: map[string]string{"dc": "1"}}},
		{Inst: api.InstanceInfo{Name: "c", FailureDomain: map[string]string{"dc": "0"}}},
	}
	sortInstances(list, SortByFailureDomain, SortAsc)
	if got, want := names(list), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestSortByNameDuplicatesStable(t *testing.T) {
	// Duplicate names keep their original relative order.
	list := []flatInstance{
		{Tier: "t1", Inst: api.InstanceInfo{Name: "dup"}},
		{Tier: "t2", Inst: api.InstanceInfo{Name: "aaa"}},
		{Tier: "t3", Inst: api.InstanceInfo{Name: "dup"}},
	}
	sortInstances(list, SortByName, SortAsc)
	if list[0].Inst.Name != "aaa" {
		t.Fatalf("first = %q, want aaa", list[0].Inst.Name)
	}
	if list[1].Tier != "t1" || list[2].Tier != "t3" {
		t.Fatalf("duplicate order = %s, %s, want t1, t3", list[1].Tier, list[2].Tier)
	}
}

func TestViewModeCycle(t *testing.T) {
	m := ViewTiers
	seen := []ViewMode{m}
	for i := 0; i < 2; i++ {
		m = m.cycleNext()
		seen = append(seen, m)
	}
	want := []ViewMode{ViewTiers, ViewReplicasets, ViewInstances}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("cycle = %v, want %v", seen, want)
	}
	if m.cycleNext() != ViewTiers {
		t.Fatal("cycle does not wrap back to Tiers")
	}
}
