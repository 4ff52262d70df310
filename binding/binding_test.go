package binding

import (
	"reflect"
	"testing"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"attribution": "modelX",
		"timestamp":   "2025-01-02 03:04:05",
		"meta": map[string]any{
			"tags":  []any{"a", "b"},
			"names": map[string]string{"chair": "gpt"},
		},
		"count": 3,
	}
	cases := map[string]string{
		"Chairman: ${attribution}":     "Chairman: modelX",
		"Generated on ${ timestamp }":  "Generated on 2025-01-02 03:04:05",
		"${meta.tags[1]}":              "b",
		"${meta.names.chair}/${count}": "gpt/3",
		"${missing} stays":             "${missing} stays",
		"${meta.tags[9]}":              "${meta.tags[9]}",
		"${}":                          "${}",
		"no placeholders":              "no placeholders",
		"${attribution}${attribution}": "modelXmodelX",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${attribution}", nil); got != "${attribution}" {
		t.Fatalf("data 为空时应保留占位符，实际 %q", got)
	}
}

func TestFields(t *testing.T) {
	got := Fields("${a} and ${ b.c } and ${a} ${}")
	want := []string{"a", "b.c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fields = %v, want %v", got, want)
	}
	if Fields("plain") != nil {
		t.Fatalf("无占位符时应返回 nil")
	}
}
