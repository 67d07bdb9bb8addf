package template

import "testing"

func TestExtract_SimplePath(t *testing.T) {
	body := []byte(`{"id": "abc-123", "count": 7}`)

	out, err := Extract(body, map[string]string{"itemId": "$.id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["itemId"] != "abc-123" {
		t.Errorf("expected abc-123, got %v", out["itemId"])
	}
}

func TestExtract_ArrayIndex(t *testing.T) {
	body := []byte(`{"items": [{"id": 1}, {"id": 2}]}`)

	out, err := Extract(body, map[string]string{"first": "$.items[0].id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["first"] != float64(1) {
		t.Errorf("expected 1, got %v", out["first"])
	}
}

func TestExtract_MissingPath(t *testing.T) {
	body := []byte(`{"id": 1}`)
	if _, err := Extract(body, map[string]string{"x": "$.nope"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestExtract_InvalidJSON(t *testing.T) {
	if _, err := Extract([]byte("not json"), map[string]string{"x": "$.id"}); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExtract_NoRules(t *testing.T) {
	out, err := Extract([]byte(`{}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil result, got %v", out)
	}
}

func TestConvertJSONPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$.foo.bar", "foo.bar"},
		{"$.items[0].id", "items.0.id"},
		{"$.data[*].name", "data.#.name"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := convertJSONPath(tc.in); got != tc.want {
			t.Errorf("convertJSONPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
