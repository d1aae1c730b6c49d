package cart

import "testing"

func TestAddMergesSameProduct(t *testing.T) {
	var items Items
	items = Add(items, Line{ProductID: 7, Name: "Mug", Price: 9.5, Quantity: 2})
	items = Add(items, Line{ProductID: 7, Name: "Mug", Price: 9.5, Quantity: 2})

	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", items[0].Quantity)
	}
}

func TestAddAppendsNewProductAtEnd(t *testing.T) {
	var items Items
	items = Add(items, sampleLine(1, 10, 1))
	items = Add(items, sampleLine(2, 20, 1))
	items = Add(items, sampleLine(3, 30, 1))

	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(items))
	}
	for i, want := range []int64{1, 2, 3} {
		if items[i].ProductID != want {
			t.Errorf("expected product %d at position %d, got %d", want, i, items[i].ProductID)
		}
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	original := Items{sampleLine(1, 10, 1)}
	_ = Add(original, sampleLine(1, 10, 5))

	if original[0].Quantity != 1 {
		t.Errorf("expected original quantity to stay 1, got %d", original[0].Quantity)
	}
}

func TestAddClampsQuantityFloor(t *testing.T) {
	items := Add(nil, Line{ProductID: 1, Quantity: 0})
	if items[0].Quantity != 1 {
		t.Errorf("expected quantity clamped to 1, got %d", items[0].Quantity)
	}
}

func TestRemoveExistingLine(t *testing.T) {
	items := Items{sampleLine(1, 10, 1), sampleLine(2, 20, 1)}
	items = Remove(items, 1)

	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].ProductID != 2 {
		t.Errorf("expected product 2 to remain, got %d", items[0].ProductID)
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	items := Items{sampleLine(1, 10, 1), sampleLine(2, 20, 2)}
	result := Remove(items, 999)

	if len(result) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result))
	}
	for i := range items {
		if result[i] != items[i] {
			t.Errorf("expected line %d unchanged, got %+v", i, result[i])
		}
	}
}

func TestSetQuantity(t *testing.T) {
	items := Items{sampleLine(1, 10, 1)}
	items, found := SetQuantity(items, 1, 5)

	if !found {
		t.Fatal("expected line to be found")
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	items := Items{sampleLine(1, 10, 3), sampleLine(2, 20, 1)}
	items, found := SetQuantity(items, 1, 0)

	if !found {
		t.Fatal("expected line to be found")
	}
	if len(items) != 1 || items[0].ProductID != 2 {
		t.Errorf("expected only product 2 to remain, got %+v", items)
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	items := Items{sampleLine(1, 10, 1)}
	result, found := SetQuantity(items, 42, 2)

	if found {
		t.Error("expected line not to be found")
	}
	if len(result) != 1 {
		t.Errorf("expected cart unchanged, got %+v", result)
	}
}

func TestTotal(t *testing.T) {
	items := Items{
		{ProductID: 1, Price: 10, Quantity: 2},
		{ProductID: 2, Price: 5, Quantity: 3},
	}

	if got := Total(items); got != 35 {
		t.Errorf("expected total 35, got %v", got)
	}
}

func TestTotalEmptyCart(t *testing.T) {
	if got := Total(nil); got != 0 {
		t.Errorf("expected total 0, got %v", got)
	}
}

func TestNormalizeDropsInvalidLines(t *testing.T) {
	items := normalize(Items{
		{ProductID: 1, Quantity: 2},
		{ProductID: 0, Quantity: 1},
		{ProductID: 2, Quantity: 0},
		{ProductID: -3, Quantity: 5},
	})

	if len(items) != 1 || items[0].ProductID != 1 {
		t.Errorf("expected only product 1 to survive, got %+v", items)
	}
}
