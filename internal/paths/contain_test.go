package paths

import "testing"

func TestUnderRoot(t *testing.T) {
	cases := []struct {
		name      string
		root      string
		candidate string
		want      bool
	}{
		{"equal", "/mirror", "/mirror", true},
		{"child", "/mirror", "/mirror/archives/godot.zip", true},
		{"escape", "/mirror", "/mirror/../outside", false},
		{"sibling prefix", "/mirror", "/mirrors/archive.zip", false},
		{"case insensitive", "/Mirror", "/mirror/Archives/tool.zip", true},
		{"backslashes", "C:\\mirror", "C:\\mirror\\archives\\tool.zip", true},
		{"backslash escape", "C:\\mirror", "C:\\mirror\\..\\outside", false},
		{"dot segments collapse", "/mirror", "/mirror/./archives/../archives/tool.zip", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UnderRoot(tc.root, tc.candidate); got != tc.want {
				t.Fatalf("UnderRoot(%q, %q) = %v, want %v", tc.root, tc.candidate, got, tc.want)
			}
		})
	}
}

func TestHasParentSegment(t *testing.T) {
	if !HasParentSegment("../outside.exe") {
		t.Fatal("expected ../outside.exe to be flagged")
	}
	if !HasParentSegment("tools\\..\\escape") {
		t.Fatal("expected backslash parent segment to be flagged")
	}
	if HasParentSegment("tools/godot/godot") {
		t.Fatal("plain relative path should not be flagged")
	}
	if HasParentSegment("weird..name/file") {
		t.Fatal("dots inside a segment are not a parent reference")
	}
}

func TestValidSegment(t *testing.T) {
	for _, s := range []string{"godot", "4.3", "weird..name", "blender-4.1"} {
		if !ValidSegment(s) {
			t.Fatalf("expected %q to be a valid segment", s)
		}
	}
	for _, s := range []string{"", ".", "..", "a/b", "a\\b", "../pwn", "/abs"} {
		if ValidSegment(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestIsAbs(t *testing.T) {
	for _, p := range []string{"/usr/bin/tool", "\\\\server\\share", "C:\\tools", "c:/tools"} {
		if !IsAbs(p) {
			t.Fatalf("expected %q to be absolute", p)
		}
	}
	for _, p := range []string{"tools/godot", "godot.exe", "./tool"} {
		if IsAbs(p) {
			t.Fatalf("expected %q to be relative", p)
		}
	}
}
