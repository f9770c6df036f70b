package models

import "testing"

// TestParseTravelType проверяет разбор типа поездки.
func TestParseTravelType(t *testing.T) {
	value, ok := ParseTravelType(" Couple ")
	if !ok || value != TravelTypeCouple {
		t.Fatalf("expected couple, got %v (ok=%v)", value, ok)
	}

	value, ok = ParseTravelType("business")
	if !ok || value != TravelTypeBusiness {
		t.Fatalf("expected business, got %v (ok=%v)", value, ok)
	}

	if _, ok := ParseTravelType("expedition"); ok {
		t.Fatal("expected invalid travel type")
	}
}

// TestParseExpenseCategory проверяет разбор категории расхода.
func TestParseExpenseCategory(t *testing.T) {
	value, ok := ParseExpenseCategory("ACCOMMODATION")
	if !ok || value != ExpenseCategoryAccommodation {
		t.Fatalf("expected accommodation, got %v (ok=%v)", value, ok)
	}

	value, ok = ParseExpenseCategory("other")
	if !ok || value != ExpenseCategoryOther {
		t.Fatalf("expected other, got %v (ok=%v)", value, ok)
	}

	if _, ok := ParseExpenseCategory("misc"); ok {
		t.Fatal("expected invalid expense category")
	}
}

// TestIsKnownActivityType проверяет распознавание типов активностей.
func TestIsKnownActivityType(t *testing.T) {
	for _, known := range []ActivityType{ActivityTypeSightseeing, ActivityTypeFood, ActivityTypeActivity, ActivityTypeRest} {
		if !IsKnownActivityType(known) {
			t.Fatalf("expected %s to be known", known)
		}
	}

	// Неизвестный тип допускается данными, но не считается известным.
	if IsKnownActivityType(ActivityType("karaoke")) {
		t.Fatal("expected unknown activity type")
	}
}
