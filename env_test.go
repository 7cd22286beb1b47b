package spectra

import "testing"

func Test_Env_Define_And_Get(t *testing.T) {
	e := NewEnv(nil)
	if !e.Define("a", Int(1)) {
		t.Fatalf("first define failed")
	}
	v, ok := e.Get("a")
	if !ok {
		t.Fatalf("get failed")
	}
	wantInt(t, v, 1)
	if _, ok := e.Get("missing"); ok {
		t.Fatalf("get of unbound name succeeded")
	}
}

func Test_Env_Define_Rejects_Duplicates_In_Same_Frame(t *testing.T) {
	e := NewEnv(nil)
	e.Define("a", Int(1))
	if e.Define("a", Int(2)) {
		t.Fatalf("redefinition in the same frame succeeded")
	}
	v, _ := e.Get("a")
	wantInt(t, v, 1)
}

func Test_Env_Child_Shadows_Parent(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("a", Int(1))
	child := parent.Child()
	if !child.Define("a", Int(2)) {
		t.Fatalf("shadowing define failed")
	}
	v, _ := child.Get("a")
	wantInt(t, v, 2)
	v, _ = parent.Get("a")
	wantInt(t, v, 1)
}

func Test_Env_Assign_Walks_Outward(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("a", Int(1))
	child := parent.Child()
	if !child.Assign("a", Int(9)) {
		t.Fatalf("assign through child failed")
	}
	v, _ := parent.Get("a")
	wantInt(t, v, 9)
}

func Test_Env_Assign_Never_Creates(t *testing.T) {
	e := NewEnv(nil)
	if e.Assign("a", Int(1)) {
		t.Fatalf("assign created a binding")
	}
	if _, ok := e.Get("a"); ok {
		t.Fatalf("binding exists after failed assign")
	}
}

func Test_Env_Siblings_Share_Parent(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("n", Int(0))
	left := parent.Child()
	right := parent.Child()
	left.Assign("n", Int(5))
	v, _ := right.Get("n")
	wantInt(t, v, 5)
}
