package lower

import "testing"

func TestSortStructsByDepsPanicsOnCycle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on circular struct dependency")
		}
	}()
	structs := []LoweredStruct{
		{GoName: "A", Fields: []LoweredMember{{DepName: "B"}}},
		{GoName: "B", Fields: []LoweredMember{{DepName: "A"}}},
	}
	sortStructsByDeps(structs)
}

func TestSortStructsByDepsOrdersAndIsStableWithinBatch(t *testing.T) {
	structs := []LoweredStruct{
		{GoName: "Zeta", Fields: nil},
		{GoName: "Alpha", Fields: []LoweredMember{{DepName: "Zeta"}}},
		{GoName: "Beta", Fields: nil},
	}
	sortStructsByDeps(structs)
	if structs[0].GoName != "Beta" || structs[1].GoName != "Zeta" || structs[2].GoName != "Alpha" {
		t.Fatalf("unexpected order: %v, %v, %v", structs[0].GoName, structs[1].GoName, structs[2].GoName)
	}
}
