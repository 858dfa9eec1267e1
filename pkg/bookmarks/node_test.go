package bookmarks

import (
	"testing"
	"time"
)

func TestPRTimeRoundTrip(t *testing.T) {
	// 2009-01-13 14:36:43.576669 UTC
	stamp := PRTime(1231857403576669)
	when := stamp.Time()
	if when.Year() != 2009 || when.Month() != time.January || when.Day() != 13 {
		t.Errorf("Time() = %v, want 2009-01-13", when)
	}
	if back := ToPRTime(when); back != stamp {
		t.Errorf("ToPRTime(Time()) = %d, want %d", back, stamp)
	}
}

func TestNewGUID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		guid := NewGUID()
		if len(guid) != 12 {
			t.Fatalf("NewGUID() length = %d, want 12", len(guid))
		}
		if seen[guid] {
			t.Fatalf("NewGUID() repeated %q", guid)
		}
		seen[guid] = true
	}
}

func validTree() *Node {
	return &Node{
		Kind: KindContainer,
		Root: RootPlaces,
		ID:   1,
		Children: []*Node{
			{Kind: KindContainer, Root: RootMenu, ID: 2, Title: "menu", Children: []*Node{
				{Kind: KindBookmark, ID: 5, Title: "Go", URI: "https://go.dev/"},
			}},
			{Kind: KindContainer, Root: RootToolbar, ID: 3, Title: "toolbar"},
			{Kind: KindContainer, Root: RootUnfiled, ID: 4, Title: "unfiled"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := Validate(validTree()); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Node)
	}{
		{
			name: "missing required root",
			mutate: func(root *Node) {
				root.Children = root.Children[:2] // drop unfiled
			},
		},
		{
			name: "first level container without root key",
			mutate: func(root *Node) {
				root.Children = append(root.Children, &Node{Kind: KindContainer, ID: 9, Title: "stray"})
			},
		},
		{
			name: "first level leaf",
			mutate: func(root *Node) {
				root.Children = append(root.Children, &Node{Kind: KindBookmark, ID: 9, URI: "https://x.example"})
			},
		},
		{
			name: "duplicate id",
			mutate: func(root *Node) {
				root.Children[1].ID = 2
			},
		},
		{
			name: "bookmark with children",
			mutate: func(root *Node) {
				bm := root.Children[0].Children[0]
				bm.Children = []*Node{{Kind: KindBookmark, ID: 7, URI: "https://y.example"}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := validTree()
			tt.mutate(root)
			if err := Validate(root); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

func TestEnsureIdentity(t *testing.T) {
	root := validTree()
	// One node with no id, one duplicating an existing id, none with guids.
	root.Children[0].Children = append(root.Children[0].Children,
		&Node{Kind: KindBookmark, Title: "new", URI: "https://new.example"},
		&Node{Kind: KindBookmark, ID: 5, Title: "copied", URI: "https://copy.example"},
	)

	EnsureIdentity(root)

	seen := make(map[int64]bool)
	Walk(root, func(n, _ *Node) {
		if n.ID == 0 {
			t.Errorf("node %q has no id", n.Title)
		}
		if seen[n.ID] {
			t.Errorf("id %d duplicated", n.ID)
		}
		seen[n.ID] = true
		if n.GUID == "" {
			t.Errorf("node %q has no guid", n.Title)
		}
	})

	// Pre-existing unique ids are untouched.
	if root.ID != 1 || root.Children[0].ID != 2 {
		t.Error("EnsureIdentity rewrote stable ids")
	}
	if root.Children[0].Children[0].ID != 5 {
		t.Error("EnsureIdentity rewrote the first holder of a duplicated id")
	}
}

func TestWalkOrder(t *testing.T) {
	root := validTree()
	var titles []string
	Walk(root, func(n, parent *Node) {
		titles = append(titles, n.Title)
	})
	want := []string{"", "menu", "Go", "toolbar", "unfiled"}
	if len(titles) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(titles), len(want))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("visit order %v, want %v", titles, want)
			break
		}
	}
}
