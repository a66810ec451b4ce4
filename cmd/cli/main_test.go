package main

import "testing"

func Test_resolveImage(t *testing.T) {
	a := &app{origin: "https://localhost:7279"}

	cases := []struct{ in, want string }{
		{"/img/mug.png", "https://localhost:7279/img/mug.png"},
		{"img/mug.png", "https://localhost:7279/img/mug.png"},
		{"https://cdn.example.com/mug.png", "https://cdn.example.com/mug.png"},
		{"", ""},
	}
	for _, c := range cases {
		if got := a.resolveImage(c.in); got != c.want {
			t.Fatalf("resolveImage(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func Test_newApp_Wiring(t *testing.T) {
	a, err := newApp("https://localhost:7279/", false, nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.origin != "https://localhost:7279" {
		t.Fatalf("origin=%q", a.origin)
	}
	if a.ctrl == nil || a.store == nil || a.messages == nil {
		t.Fatalf("incomplete wiring: %+v", a)
	}
}
