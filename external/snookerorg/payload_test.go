package snookerorg

import "testing"

func TestFirstObject(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"ID": float64(5)}

	if got := firstObject(obj); got["ID"] != float64(5) {
		t.Fatalf("expected bare object passthrough, got %v", got)
	}
	if got := firstObject([]any{obj, map[string]any{"ID": float64(9)}}); got["ID"] != float64(5) {
		t.Fatalf("expected first list element, got %v", got)
	}
	if got := firstObject([]any{}); len(got) != 0 {
		t.Fatalf("expected empty map for empty list, got %v", got)
	}
	if got := firstObject("nonsense"); len(got) != 0 {
		t.Fatalf("expected empty map for scalar payload, got %v", got)
	}
}

func TestObjectList(t *testing.T) {
	t.Parallel()

	rows := objectList([]any{
		map[string]any{"ID": float64(1)},
		"garbage",
		map[string]any{"ID": float64(2)},
	})
	if len(rows) != 2 {
		t.Fatalf("expected non-object members dropped, got %d rows", len(rows))
	}

	rows = objectList(map[string]any{"ID": float64(3)})
	if len(rows) != 1 || rows[0]["ID"] != float64(3) {
		t.Fatalf("expected bare object wrapped into one-element list, got %v", rows)
	}

	if rows := objectList(nil); len(rows) != 0 {
		t.Fatalf("expected empty list for nil payload, got %v", rows)
	}
}

func TestStringField(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"Empty":  "",
		"Spaces": "  Ronnie O'Sullivan  ",
		"Num":    float64(42),
		"Nil":    nil,
	}

	if got := StringField(src, "Missing", "Empty", "Spaces"); got != "Ronnie O'Sullivan" {
		t.Fatalf("expected trimmed first non-empty candidate, got %q", got)
	}
	if got := StringField(src, "Num"); got != "42" {
		t.Fatalf("expected numeric value stringified, got %q", got)
	}
	if got := StringField(src, "Nil", "Missing"); got != "" {
		t.Fatalf("expected empty string when nothing usable, got %q", got)
	}
}

func TestIntField(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"Float":  float64(2025),
		"String": " 97 ",
		"Bad":    "not-a-number",
	}

	if got, ok := IntField(src, "Missing", "Float"); !ok || got != 2025 {
		t.Fatalf("expected 2025, got %d ok=%v", got, ok)
	}
	if got, ok := IntField(src, "Bad", "String"); !ok || got != 97 {
		t.Fatalf("expected string candidate parsed, got %d ok=%v", got, ok)
	}
	if _, ok := IntField(src, "Bad", "Missing"); ok {
		t.Fatal("expected no parseable candidate")
	}
}

func TestBoolField(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"Flag":    true,
		"Str":     "true",
		"Num":     float64(1),
		"NumZero": float64(0),
	}

	for _, key := range []string{"Flag", "Str", "Num"} {
		if !BoolField(src, key) {
			t.Fatalf("expected %s to read as true", key)
		}
	}
	if BoolField(src, "NumZero") || BoolField(src, "Missing") {
		t.Fatal("expected false for zero and missing values")
	}
}
