package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestReader(t *testing.T) {
	t.Setenv("TB_INT", "42")
	t.Setenv("TB_BAD_INT", "forty")
	t.Setenv("TB_BOOL", "off")
	t.Setenv("TB_DUR", "90s")
	t.Setenv("TB_DUR_SECS", "5")
	t.Setenv("TB_LIST", " a, ,b ")
	t.Setenv("TB_BLANK", "   ")

	r := Reader{}
	if got := r.Int("TB_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := r.Int("TB_BAD_INT", 7); got != 7 {
		t.Fatalf("bad Int = %d", got)
	}
	if got := r.Bool("TB_BOOL", true); got {
		t.Fatalf("Bool = %v", got)
	}
	if got := r.Duration("TB_DUR", 0); got != 90*time.Second {
		t.Fatalf("Duration = %v", got)
	}
	if got := r.Duration("TB_DUR_SECS", 0); got != 5*time.Second {
		t.Fatalf("Duration secs = %v", got)
	}
	if got := r.List("TB_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("List = %q", got)
	}
	if got := r.String("TB_BLANK", "def"); got != "def" {
		t.Fatalf("blank String = %q", got)
	}
	if got := r.String("TB_UNSET_FOR_TEST", "def"); got != "def" {
		t.Fatalf("unset String = %q", got)
	}
	t.Setenv("TB_SECRET", " hunter2 ")
	if got := r.Secret("TB_SECRET", ""); got != "hunter2" {
		t.Fatalf("Secret = %q", got)
	}
}
