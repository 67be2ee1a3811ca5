package tree

import (
	"reflect"
	"testing"
)

func Test_Build_NestedStructure(t *testing.T) {
	root := Build("project", []string{
		"src/app.go",
		"src/util/strings.go",
		"README.md",
	})

	if !root.Dir || root.Name != "project" {
		t.Fatalf("unexpected root: %+v", root)
	}

	src := root.child("src")
	if src == nil || !src.Dir {
		t.Fatal("expected src branch node")
	}
	if app := src.child("app.go"); app == nil || app.Dir {
		t.Fatal("expected app.go leaf under src")
	}
	util := src.child("util")
	if util == nil || !util.Dir {
		t.Fatal("expected util branch under src")
	}
	if leaf := util.child("strings.go"); leaf == nil || leaf.RelPath != "src/util/strings.go" {
		t.Fatalf("leaf missing or wrong path: %+v", leaf)
	}
}

func Test_Build_DirectoriesSortBeforeFiles(t *testing.T) {
	root := Build("p", []string{
		"alpha.go",
		"zdir/inner.go",
	})

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if !root.Children[0].Dir || root.Children[0].Name != "zdir" {
		t.Errorf("expected zdir/ first, got %s", root.Children[0].Name)
	}
	if root.Children[1].Name != "alpha.go" {
		t.Errorf("expected alpha.go second, got %s", root.Children[1].Name)
	}
}

func Test_Render_Connectors(t *testing.T) {
	root := Build("p", []string{
		"dir/a.go",
		"dir/b.go",
		"top.go",
	})

	got := Render(root)
	want := []string{
		"p/",
		"├── dir/",
		"│   ├── a.go",
		"│   └── b.go",
		"└── top.go",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func Test_Build_RebuiltFreshEachInvocation(t *testing.T) {
	paths := []string{"a/x.go"}
	first := Build("p", paths)
	second := Build("p", paths)
	if first == second {
		t.Error("expected a fresh tree per invocation")
	}
	if !reflect.DeepEqual(Render(first), Render(second)) {
		t.Error("identical inputs must render identically")
	}
}
