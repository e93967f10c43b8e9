package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/jdholdren/newsync/internal/newsync"
)

func TestFolders(t *testing.T) {
	tests := []struct {
		name        string
		prev, next  []newsync.Folder
		wantAdded   []newsync.Folder
		wantRemoved []newsync.Folder
	}{
		{
			name:        "both empty",
			wantAdded:   []newsync.Folder{},
			wantRemoved: []newsync.Folder{},
		},
		{
			name:        "bootstrap",
			next:        []newsync.Folder{{ID: 1, Name: "Tech"}, {ID: 2, Name: "News"}},
			wantAdded:   []newsync.Folder{{ID: 1, Name: "Tech"}, {ID: 2, Name: "News"}},
			wantRemoved: []newsync.Folder{},
		},
		{
			name:        "unchanged",
			prev:        []newsync.Folder{{ID: 1, Name: "Tech"}},
			next:        []newsync.Folder{{ID: 1, Name: "Tech"}},
			wantAdded:   []newsync.Folder{},
			wantRemoved: []newsync.Folder{},
		},
		{
			name:        "renamed counts as both",
			prev:        []newsync.Folder{{ID: 1, Name: "Tech"}},
			next:        []newsync.Folder{{ID: 1, Name: "Technology"}},
			wantAdded:   []newsync.Folder{{ID: 1, Name: "Technology"}},
			wantRemoved: []newsync.Folder{{ID: 1, Name: "Tech"}},
		},
		{
			name:        "deleted",
			prev:        []newsync.Folder{{ID: 1, Name: "Tech"}, {ID: 2, Name: "News"}},
			next:        []newsync.Folder{{ID: 2, Name: "News"}},
			wantAdded:   []newsync.Folder{},
			wantRemoved: []newsync.Folder{{ID: 1, Name: "Tech"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Folders(tt.prev, tt.next)
			if diff := cmp.Diff(tt.wantAdded, added); diff != "" {
				t.Errorf("added mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRemoved, removed); diff != "" {
				t.Errorf("removed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeeds_MovedFolder(t *testing.T) {
	prev := []newsync.Feed{{ID: 1, Title: "A", FolderID: 0}}
	next := []newsync.Feed{{ID: 1, Title: "A", FolderID: 5}}

	added, removed := Feeds(prev, next)

	assert.Equal(t, []newsync.Feed{{ID: 1, Title: "A", FolderID: 5}}, added)
	assert.Equal(t, []newsync.Feed{{ID: 1, Title: "A", FolderID: 0}}, removed)
}

func TestFeeds_URLIsNotCompared(t *testing.T) {
	prev := []newsync.Feed{{ID: 1, Title: "A", URL: "https://a.example/rss"}}
	next := []newsync.Feed{{ID: 1, Title: "A", URL: "https://a.example/atom"}}

	added, removed := Feeds(prev, next)

	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestFeeds_Symmetric(t *testing.T) {
	snapshots := [][]newsync.Feed{
		{},
		{{ID: 1, Title: "A"}},
		{{ID: 1, Title: "A", FolderID: 3}, {ID: 2, Title: "B"}},
		{{ID: 2, Title: "B"}, {ID: 3, Title: "C", FolderID: 1}},
		{{ID: 1, Title: "Renamed"}, {ID: 3, Title: "C", FolderID: 1}},
	}

	for _, a := range snapshots {
		for _, b := range snapshots {
			addedAB, removedAB := Feeds(a, b)
			addedBA, removedBA := Feeds(b, a)

			assert.Equal(t, addedAB, removedBA)
			assert.Equal(t, removedAB, addedBA)
		}
	}
}

func TestIDs(t *testing.T) {
	got := IDs([]newsync.Feed{{ID: 4}, {ID: 9}}, func(f newsync.Feed) int64 { return f.ID })
	assert.Equal(t, []int64{4, 9}, got)
}
