package sheets

import (
	"reflect"
	"testing"
)

func TestCellsToStrings(t *testing.T) {
	got := cellsToStrings([]interface{}{"Revenue", 45809.0, 1.1, 1000.0, true})
	want := []string{"Revenue", "45809", "1.1", "1000", "true"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cellsToStrings = %v, want %v", got, want)
	}
}

func TestTrimFloat(t *testing.T) {
	cases := map[float64]string{
		45809:   "45809",
		1.1:     "1.1",
		0.5:     "0.5",
		1200.50: "1200.5",
		0:       "0",
	}
	for in, want := range cases {
		if got := trimFloat(in); got != want {
			t.Errorf("trimFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
